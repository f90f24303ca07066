/*
 * interfaces.go, part of mkmkit.
 *
 * Copyright 2026 The mkmkit authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mkm

import (
	"errors"
	"fmt"
)

//Errors

// Error is the interface for errors that all packages in this module implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds a caller to the decoration and returns the resulting slice. An empty string only returns the current value.
	//The decoration slice contains the functions in the calling stack, from the innermost, in the format "FunctionName" or "FunctionName: Extra info"
}

// ErrDecorate decorates err with the caller's name, if err (or something it wraps) implements Error,
// and returns err. Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

// DocumentError is returned when a state document can't be read or written.
type DocumentError struct {
	message  string
	filename string //the document that has problems, or empty string if none.
	deco     []string
	err      error
}

func (err *DocumentError) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("state document error: %s", err.message)
	}
	return fmt.Sprintf("state document %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err *DocumentError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the document associated to the error
func (err *DocumentError) FileName() string { return err.filename }

// Unwrap returns the underlying error, if any.
func (err *DocumentError) Unwrap() error { return err.err }

func docError(filename, caller string, err error) *DocumentError {
	return &DocumentError{message: err.Error(), filename: filename, deco: []string{caller}, err: err}
}

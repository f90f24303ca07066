/*
 * errors.go, part of mkmkit.
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

package network

import (
	"fmt"
)

// UnresolvedReferenceError is returned when a step references a state, or a path references a step,
// that is not defined in the network.
type UnresolvedReferenceError struct {
	Name  string //the missing name
	Kind  string //"state", "step", "step result" or "path"
	Where string //the step or path with the reference
	deco  []string
}

func (err *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q in %s", err.Kind, err.Name, err.Where)
}

// Decorate adds new information to the error
func (err *UnresolvedReferenceError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// DuplicateNameError is returned when two entries of the network share a name. For states, a name
// used both as a stable and a transition state is also a duplicate, since step terms are resolved
// against both.
type DuplicateNameError struct {
	Name      string
	Namespace string //"stable_states", "transition_states", "network" or "paths"
	deco      []string
}

func (err *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q in %s", err.Name, err.Namespace)
}

// Decorate adds new information to the error
func (err *DuplicateNameError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// DefinitionError is returned for a network definition with invalid values, such as an unknown step
// type or a zero normalization, or one that can't be decoded.
type DefinitionError struct {
	Message string
	Where   string //the entry with the problem, or empty string if none.
	File    string
	deco    []string
	err     error
}

func (err *DefinitionError) Error() string {
	var prefix string
	if err.File != "" {
		prefix = err.File + ": "
	}
	if err.Where == "" {
		return fmt.Sprintf("%sinvalid network definition: %s", prefix, err.Message)
	}
	return fmt.Sprintf("%sinvalid network definition in %s: %s", prefix, err.Where, err.Message)
}

// Decorate adds new information to the error
func (err *DefinitionError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Unwrap returns the underlying error, if any.
func (err *DefinitionError) Unwrap() error { return err.err }

func defError(where, caller, format string, args ...any) *DefinitionError {
	return &DefinitionError{Message: fmt.Sprintf(format, args...), Where: where, deco: []string{caller}}
}

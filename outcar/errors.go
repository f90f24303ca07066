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

package outcar

import (
	"fmt"
)

// Sections of an OUTCAR, as reported by MalformedLogError
const (
	SectionSettings    = "settings"
	SectionPotcar      = "potcar"
	SectionEnergy      = "energy"
	SectionSpecies     = "species"
	SectionLattice     = "lattice"
	SectionPositions   = "positions"
	SectionFrequencies = "frequencies"
	SectionHessian     = "hessian"
)

// MalformedLogError is returned when a required section of an OUTCAR is absent,
// or a section can't be decoded. It is fatal for the file.
type MalformedLogError struct {
	Section string
	Message string
	File    string //the OUTCAR that has problems, or empty string if unknown.
	Line    int    //1-based line of the problem, 0 if unknown.
	deco    []string
}

func (err *MalformedLogError) Error() string {
	where := err.File
	if where == "" {
		where = "OUTCAR"
	}
	if err.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, err.Line)
	}
	return fmt.Sprintf("malformed %s section in %s: %s", err.Section, where, err.Message)
}

// Decorate adds new information to the error
func (err *MalformedLogError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the error is associated
func (err *MalformedLogError) FileName() string { return err.File }

// malformed builds an error for the given section. line is the 0-based index of the offending line, or -1.
func malformed(section string, line int, caller string, format string, args ...any) *MalformedLogError {
	return &MalformedLogError{Section: section, Message: fmt.Sprintf(format, args...), Line: line + 1, deco: []string{caller}}
}

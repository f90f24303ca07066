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

package main

import (
	"errors"
	"fmt"
	"strings"

	mkm "github.com/rmera/mkmkit"
	"github.com/rmera/mkmkit/network"
	"github.com/rmera/mkmkit/outcar"
)

// describe returns the message printed for a failed command: the kind of error,
// where it happened, and the call chain recorded in the error.
func describe(err error) string {
	var kind, where string
	var (
		malformed  *outcar.MalformedLogError
		unresolved *network.UnresolvedReferenceError
		duplicate  *network.DuplicateNameError
		definition *network.DefinitionError
		document   *mkm.DocumentError
	)
	switch {
	case errors.As(err, &malformed):
		kind = "malformed OUTCAR"
		where = fmt.Sprintf("%s, %s section", malformed.File, malformed.Section)
		if malformed.Line > 0 {
			where += fmt.Sprintf(", line %d", malformed.Line)
		}
	case errors.As(err, &unresolved):
		kind = "unresolved reference"
		where = unresolved.Where
	case errors.As(err, &duplicate):
		kind = "duplicate name"
		where = duplicate.Namespace
	case errors.As(err, &definition):
		kind = "invalid network definition"
		where = strings.TrimSpace(definition.File + " " + definition.Where)
	case errors.As(err, &document):
		kind = "invalid state document"
		where = document.FileName()
	default:
		return "Error: " + err.Error()
	}
	msg := fmt.Sprintf("Error (%s", kind)
	if where != "" {
		msg += " in " + where
	}
	msg += "): " + err.Error()
	var e mkm.Error
	if errors.As(err, &e) {
		if deco := e.Decorate(""); len(deco) > 0 {
			msg += "\n  at: " + strings.Join(deco, " < ")
		}
	}
	return msg
}

/*
 * atomicdata.go, part of mkmkit.
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

import "strings"

//The element symbols that can appear in a POTCAR label.
//Slab-catalysis elements plus the usual adsorbate atoms.
var elements = map[string]bool{
	"H":  true,
	"He": true,
	"Li": true,
	"Be": true,
	"B":  true,
	"C":  true,
	"N":  true,
	"O":  true,
	"F":  true,
	"Ne": true,
	"Na": true,
	"Mg": true,
	"Al": true,
	"Si": true,
	"P":  true,
	"S":  true,
	"Cl": true,
	"Ar": true,
	"K":  true,
	"Ca": true,
	"Sc": true,
	"Ti": true,
	"V":  true,
	"Cr": true,
	"Mn": true,
	"Fe": true,
	"Co": true,
	"Ni": true,
	"Cu": true,
	"Zn": true,
	"Ga": true,
	"Ge": true,
	"As": true,
	"Se": true,
	"Br": true,
	"Kr": true,
	"Rb": true,
	"Sr": true,
	"Y":  true,
	"Zr": true,
	"Nb": true,
	"Mo": true,
	"Tc": true,
	"Ru": true,
	"Rh": true,
	"Pd": true,
	"Ag": true,
	"Cd": true,
	"In": true,
	"Sn": true,
	"Sb": true,
	"Te": true,
	"I":  true,
	"Xe": true,
	"Cs": true,
	"Ba": true,
	"La": true,
	"Ce": true,
	"Hf": true,
	"Ta": true,
	"W":  true,
	"Re": true,
	"Os": true,
	"Ir": true,
	"Pt": true,
	"Au": true,
	"Hg": true,
	"Pb": true,
	"Bi": true,
}

//IsElement returns true if symbol is a known element symbol.
func IsElement(symbol string) bool {
	return elements[symbol]
}

//ElementFromPotential takes a pseudopotential label, such as "Ru_pv", "H_h" or "Ga_d_GW",
//and returns the element symbol it belongs to ("Ru", "H", "Ga").
//It returns an empty string if no known element can be derived.
func ElementFromPotential(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.IndexAny(label, "_."); i > 0 {
		label = label[:i]
	}
	if IsElement(label) {
		return label
	}
	return ""
}

/*
 * conversion.go, part of mkmkit.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	EVPerCm1 = 1.239841984e-4 //eV per wavenumber (hc)
	EV2KJ    = 96.485332      //eV (per particle) to kJ/mol
	EV2Kcal  = EV2KJ / 4.184  //eV (per particle) to kcal/mol
)

//Rounding of geometric data written to state documents.
const (
	GeometryDecimals = 8
)

/*
 * doc.go, part of mkmkit.
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

/*Package outcar reads the OUTCAR files written by VASP and builds mkm.State documents from them.

Each section of the log (INCAR settings, pseudopotentials, ionic-step energies, lattice and
positions, vibrational modes and the partial Hessian) is located and decoded independently.
Only completed ionic steps of the last run in the file are considered, so logs with an
appended restart or an interrupted last step are handled.

Frequency calculations of symmetric slabs can have their duplicated modes averaged, see
PairPolicy.*/
package outcar

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

/*Package mkm is the main package of the mkmkit library. It provides the State structure, the
record of one converged plane-wave DFT (VASP) calculation, and the facilities for reading and
writing State documents, the YAML files that the rest of the library and the mkmkit program
work with.



	**mkmkit Capabilities**


    Reads VASP OUTCAR files (see the outcar package) and builds State documents for
	geometry optimizations and frequency calculations. Symmetric-slab frequency
	calculations can have their duplicated modes pair-averaged.

    Reads and writes State documents, plain or compressed with gzip or zstd. Numeric
	vectors are written in YAML flow style, so the documents are easy to review and diff.

    Resolves a reaction network definition against a set of State documents, and evaluates
	activation barriers, adsorption heats and their zero-point energy corrections (see the
	network package).

    Aggregates elementary steps into reaction pathways, and builds and draws potential energy
	diagrams (see the ped package).

Energies are in eV and frequencies in cm-1 throughout the library.*/
package mkm

/*
 * geometry.go, part of mkmkit.
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
	"math"
	"strconv"
	"strings"

	mkm "github.com/rmera/mkmkit"
	"gonum.org/v1/gonum/mat"
)

// Species is a block of atoms of the same kind, in the order the log enumerates them.
type Species struct {
	Symbol string
	Count  int
}

// Geometry is the structure of the system at one ionic step.
type Geometry struct {
	Species   []Species
	Lattice   mkm.Lattice
	Cartesian [][3]float64
}

// NAtoms returns the number of atoms
func (G *Geometry) NAtoms() int {
	return len(G.Cartesian)
}

// Species returns the species blocks of the system. Symbols are taken from the VRHFIN lines,
// or from the POTCAR identifiers if there are none, and counts from the "ions per type" line.
func (L *Log) Species() ([]Species, error) {
	//each run of an appended restart repeats the header, the first one is used.
	first := Run{0, len(L.Lines)}
	if len(L.Runs) > 0 {
		first = L.Runs[0]
	}
	var symbols []string
	for _, line := range L.Lines[first.Start:first.End] {
		_, after, ok := strings.Cut(line, "VRHFIN =")
		if !ok {
			continue
		}
		sym, _, _ := strings.Cut(after, ":")
		symbols = append(symbols, strings.TrimSpace(sym))
	}
	if len(symbols) == 0 {
		for _, id := range L.Potcar() {
			fields := strings.Fields(id)
			if len(fields) < 2 {
				continue
			}
			symbols = append(symbols, mkm.ElementFromPotential(fields[1]))
		}
	}
	if len(symbols) == 0 {
		return nil, malformed(SectionSpecies, -1, "Species", "no VRHFIN or POTCAR lines found")
	}
	i := L.find("ions per type =", first.Start, first.End)
	if i < 0 {
		return nil, malformed(SectionSpecies, -1, "Species", "no 'ions per type' line found")
	}
	_, after, _ := strings.Cut(L.Lines[i], "=")
	fields := strings.Fields(after)
	if len(fields) != len(symbols) {
		return nil, malformed(SectionSpecies, i, "Species", "%d species symbols but %d ion counts", len(symbols), len(fields))
	}
	ret := make([]Species, len(fields))
	for j, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return nil, malformed(SectionSpecies, i, "Species", "bad ion count %q", f)
		}
		if !mkm.IsElement(symbols[j]) {
			return nil, malformed(SectionSpecies, -1, "Species", "unknown element symbol %q", symbols[j])
		}
		ret[j] = Species{symbols[j], n}
	}
	if k := L.find("NIONS =", first.Start, first.End); k >= 0 {
		v, _ := valueAfter(L.Lines[k], "NIONS =")
		nions, err := strconv.Atoi(v)
		if err == nil && nions != countAtoms(ret) {
			return nil, malformed(SectionSpecies, k, "Species", "NIONS is %d but the species add up to %d", nions, countAtoms(ret))
		}
	}
	return ret, nil
}

func countAtoms(sp []Species) int {
	n := 0
	for _, v := range sp {
		n += v.Count
	}
	return n
}

// Lattice returns the last set of direct lattice vectors printed before the line before.
func (L *Log) Lattice(before int) (mkm.Lattice, error) {
	var lat mkm.Lattice
	i := L.findLast("direct lattice vectors", before)
	if i < 0 {
		return lat, malformed(SectionLattice, -1, "Lattice", "no direct lattice vectors found")
	}
	if i+3 >= len(L.Lines) {
		return lat, malformed(SectionLattice, i, "Lattice", "truncated lattice block")
	}
	for r := 0; r < 3; r++ {
		v, err := floats(L.Lines[i+1+r])
		if err != nil || len(v) < 3 {
			return lat, malformed(SectionLattice, i+1+r, "Lattice", "can't read lattice vector from %q", strings.TrimSpace(L.Lines[i+1+r]))
		}
		copy(lat[r][:], v[:3])
	}
	return lat, nil
}

// Positions returns the Cartesian coordinates, in Angstrom, from the last POSITION/TOTAL-FORCE block
// printed before the line before.
func (L *Log) Positions(before, natoms int) ([][3]float64, error) {
	i := before
	for {
		i = L.findLast("POSITION", i)
		if i < 0 {
			return nil, malformed(SectionPositions, -1, "Positions", "no POSITION block found")
		}
		if strings.Contains(L.Lines[i], "TOTAL-FORCE") {
			break
		}
	}
	ret := make([][3]float64, 0, natoms)
	j := i + 1
	if j < len(L.Lines) && strings.HasPrefix(strings.TrimSpace(L.Lines[j]), "---") {
		j++
	}
	for ; len(ret) < natoms; j++ {
		if j >= len(L.Lines) || strings.HasPrefix(strings.TrimSpace(L.Lines[j]), "---") {
			return nil, malformed(SectionPositions, i, "Positions", "found %d positions, expected %d", len(ret), natoms)
		}
		v, err := floats(L.Lines[j])
		if err != nil || len(v) < 3 {
			return nil, malformed(SectionPositions, j, "Positions", "can't read position from %q", strings.TrimSpace(L.Lines[j]))
		}
		ret = append(ret, [3]float64{v[0], v[1], v[2]})
	}
	return ret, nil
}

// Geometry returns the structure of the system at the ionic step whose energy block
// starts at the line step.
func (L *Log) Geometry(step int) (*Geometry, error) {
	sp, err := L.Species()
	if err != nil {
		return nil, err
	}
	lat, err := L.Lattice(step)
	if err != nil {
		return nil, err
	}
	pos, err := L.Positions(step, countAtoms(sp))
	if err != nil {
		return nil, err
	}
	return &Geometry{Species: sp, Lattice: lat, Cartesian: pos}, nil
}

// Formula returns the empirical formula: species grouped by element symbol in order of
// first appearance, without a count suffix for elements occurring once.
func (G *Geometry) Formula() string {
	var order []string
	counts := make(map[string]int)
	for _, s := range G.Species {
		if _, ok := counts[s.Symbol]; !ok {
			order = append(order, s.Symbol)
		}
		counts[s.Symbol] += s.Count
	}
	var b strings.Builder
	for _, sym := range order {
		b.WriteString(sym)
		if counts[sym] > 1 {
			fmt.Fprintf(&b, "%d", counts[sym])
		}
	}
	return b.String()
}

// round rounds v to the given number of decimals, and removes negative zeros.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	v = math.Round(v*p) / p
	if v == 0 {
		return 0
	}
	return v
}

// RoundedLattice returns the lattice vectors rounded to mkm.GeometryDecimals.
func (G *Geometry) RoundedLattice() mkm.Lattice {
	var ret mkm.Lattice
	for i := range G.Lattice {
		for j := range G.Lattice[i] {
			ret[i][j] = round(G.Lattice[i][j], mkm.GeometryDecimals)
		}
	}
	return ret
}

// Direct returns the fractional coordinates: the Cartesian coordinates times the inverse
// of the lattice matrix (whose rows are the lattice vectors), wrapped into [0,1) and rounded
// to mkm.GeometryDecimals.
func (G *Geometry) Direct() (mkm.Coordinates, error) {
	lat := mat.NewDense(3, 3, nil)
	for i := range G.Lattice {
		lat.SetRow(i, G.Lattice[i][:])
	}
	var inv mat.Dense
	if err := inv.Inverse(lat); err != nil {
		return nil, malformed(SectionLattice, -1, "Direct", "singular lattice: %v", err)
	}
	n := G.NAtoms()
	if n == 0 {
		return mkm.Coordinates{}, nil
	}
	cart := mat.NewDense(n, 3, nil)
	for i, v := range G.Cartesian {
		cart.SetRow(i, v[:])
	}
	var frac mat.Dense
	frac.Mul(cart, &inv)
	ret := make(mkm.Coordinates, n)
	for i := range ret {
		for j := 0; j < 3; j++ {
			f := frac.At(i, j)
			f = round(f-math.Floor(f), mkm.GeometryDecimals)
			if f >= 1 {
				f = 0
			}
			ret[i][j] = f
		}
	}
	return ret, nil
}

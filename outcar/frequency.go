/*
 * frequency.go, part of mkmkit.
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
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	modesMarker    = "Eigenvectors and eigenvalues of the dynamical matrix"
	sqrtMassMarker = "Eigenvectors after division by SQRT(mass)"
	hessianMarker  = "SECOND DERIVATIVES (NOT SYMMETRIZED)"
)

// Mode is one normal mode as listed in the log.
type Mode struct {
	Index     int
	Value     float64 //cm-1, always positive as printed
	Imaginary bool
}

// Modes returns the normal modes listed in the last block of eigenvalues of the dynamical matrix.
// VASP prints the list again after the eigenvectors divided by SQRT(mass); reading stops at that
// point, or whenever the mode index restarts.
func (L *Log) Modes() ([]Mode, error) {
	i := L.findLast(modesMarker, len(L.Lines))
	if i < 0 {
		return nil, malformed(SectionFrequencies, -1, "Modes", "no eigenvalues of the dynamical matrix found")
	}
	var modes []Mode
	last := 0
	for j := i + 1; j < len(L.Lines); j++ {
		line := L.Lines[j]
		if strings.Contains(line, sqrtMassMarker) || strings.Contains(line, modesMarker) {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		var imaginary bool
		switch {
		case strings.HasPrefix(fields[1], "f/i"):
			imaginary = true
		case fields[1] == "f" || strings.HasPrefix(fields[1], "f="):
		default:
			continue
		}
		if index <= last {
			break
		}
		last = index
		unit := -1
		for k, f := range fields {
			if f == "cm-1" {
				unit = k
				break
			}
		}
		if unit < 1 {
			return nil, malformed(SectionFrequencies, j, "Modes", "no cm-1 value in %q", strings.TrimSpace(line))
		}
		v, err := parseFloat(fields[unit-1])
		if err != nil {
			return nil, malformed(SectionFrequencies, j, "Modes", "can't read frequency from %q", strings.TrimSpace(line))
		}
		modes = append(modes, Mode{Index: index, Value: math.Abs(v), Imaginary: imaginary})
	}
	if len(modes) == 0 {
		return nil, malformed(SectionFrequencies, i, "Modes", "empty list of modes")
	}
	return modes, nil
}

// ModePolicy decides which modes are kept in a state document.
type ModePolicy struct {
	//Real modes below NearZero cm-1 are taken to be rigid-body (translational or
	//rotational) modes and removed. Imaginary modes are never removed.
	NearZero float64
}

// DefaultModePolicy removes real modes below 5 cm-1.
var DefaultModePolicy = ModePolicy{NearZero: 5.0}

// Split separates real and imaginary frequencies, in discovery order. Imaginary frequencies are
// returned as negative numbers.
func Split(modes []Mode) (freqs, imaginary []float64) {
	freqs = make([]float64, 0, len(modes))
	for _, m := range modes {
		if m.Imaginary {
			imaginary = append(imaginary, -m.Value)
		} else {
			freqs = append(freqs, m.Value)
		}
	}
	return freqs, imaginary
}

// Filter returns the real frequencies that are kept by the policy, and the number of removed ones.
func (P ModePolicy) Filter(freqs []float64) ([]float64, int) {
	ret := make([]float64, 0, len(freqs))
	for _, v := range freqs {
		if math.Abs(v) < P.NearZero {
			continue
		}
		ret = append(ret, v)
	}
	return ret, len(freqs) - len(ret)
}

// Hessian is the partial Hessian of a finite-differences calculation.
type Hessian struct {
	Labels []string
	Matrix *mat.Dense
}

var dofLabel = regexp.MustCompile(`^(\d+)[XYZ]$`)

// Hessian returns the block of second derivatives printed by the log, or nil if there is none.
// natoms is used to check the atom indexes in the degree of freedom labels.
func (L *Log) Hessian(natoms int) (*Hessian, error) {
	i := L.findLast(hessianMarker, len(L.Lines))
	if i < 0 {
		return nil, nil
	}
	j := i + 1
	for ; j < len(L.Lines); j++ {
		t := strings.TrimSpace(L.Lines[j])
		if t != "" && !strings.HasPrefix(t, "---") {
			break
		}
	}
	if j >= len(L.Lines) {
		return nil, malformed(SectionHessian, i, "Hessian", "no degree of freedom labels")
	}
	labels := strings.Fields(L.Lines[j])
	for _, l := range labels {
		m := dofLabel.FindStringSubmatch(l)
		if m == nil {
			return nil, malformed(SectionHessian, j, "Hessian", "bad degree of freedom label %q", l)
		}
		atom, _ := strconv.Atoi(m[1])
		if atom < 1 || atom > natoms {
			return nil, malformed(SectionHessian, j, "Hessian", "label %s refers to atom %d, but there are %d atoms", l, atom, natoms)
		}
	}
	n := len(labels)
	H := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		k := j + 1 + r
		if k >= len(L.Lines) {
			return nil, malformed(SectionHessian, i, "Hessian", "found %d rows, expected %d", r, n)
		}
		fields := strings.Fields(L.Lines[k])
		if len(fields) == 0 || !dofLabel.MatchString(fields[0]) {
			return nil, malformed(SectionHessian, k, "Hessian", "found %d rows, expected %d", r, n)
		}
		if fields[0] != labels[r] {
			return nil, malformed(SectionHessian, k, "Hessian", "row label %s doesn't match column label %s", fields[0], labels[r])
		}
		_, rest, _ := strings.Cut(L.Lines[k], fields[0])
		vals, err := floats(rest)
		if err != nil {
			return nil, malformed(SectionHessian, k, "Hessian", "can't read row %s: %v", fields[0], err)
		}
		if len(vals) != n {
			return nil, malformed(SectionHessian, k, "Hessian", "row %s has %d values, expected %d", fields[0], len(vals), n)
		}
		H.SetRow(r, vals)
	}
	if k := j + 1 + n; k < len(L.Lines) {
		if fields := strings.Fields(L.Lines[k]); len(fields) > 0 && dofLabel.MatchString(fields[0]) {
			return nil, malformed(SectionHessian, k, "Hessian", "more rows than the %d labels", n)
		}
	}
	return &Hessian{Labels: labels, Matrix: H}, nil
}

// Rows returns the matrix as a slice of rows.
func (H *Hessian) Rows() [][]float64 {
	r, _ := H.Matrix.Dims()
	ret := make([][]float64, r)
	for i := range ret {
		ret[i] = mat.Row(nil, i, H.Matrix)
	}
	return ret
}

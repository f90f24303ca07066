/*
 * pairs.go, part of mkmkit.
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
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Symmetric slab models (adsorbates on both faces) produce every vibrational mode twice,
// with slightly different values from numerical noise. Pair averaging replaces each pair
// by its mean. The partners are found from the order in which VASP enumerates the modes
// and the displaced degrees of freedom, not by detecting the symmetry, so the result is
// only meaningful for models built that way.

// PairScheme selects how partners are chosen from the discovery order.
type PairScheme int

const (
	//Halves pairs element i of the first half with element i of the second half.
	Halves PairScheme = iota
	//Sequential pairs consecutive elements: (1,2), (3,4), ...
	Sequential
)

func (S PairScheme) String() string {
	switch S {
	case Halves:
		return "halves"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("PairScheme(%d)", int(S))
	}
}

// ParsePairScheme returns the scheme with the given name.
func ParsePairScheme(name string) (PairScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "halves":
		return Halves, nil
	case "sequential":
		return Sequential, nil
	default:
		return Halves, fmt.Errorf("unknown pair scheme %q (use halves or sequential)", name)
	}
}

// PairPolicy controls the averaging of mode pairs.
type PairPolicy struct {
	Scheme PairScheme
	//If the number of real modes is odd, there is exactly one imaginary mode (a transition
	//state on a symmetric slab), and DropUnpairedTS is set, the last real mode is dropped
	//before averaging and a note is recorded. Otherwise an odd count is an error.
	DropUnpairedTS bool
}

// pairs returns the partner indexes for n elements. n must be even.
func (S PairScheme) pairs(n int) [][2]int {
	ret := make([][2]int, 0, n/2)
	switch S {
	case Sequential:
		for i := 0; i+1 < n; i += 2 {
			ret = append(ret, [2]int{i, i + 1})
		}
	default:
		for i := 0; i < n/2; i++ {
			ret = append(ret, [2]int{i, i + n/2})
		}
	}
	return ret
}

// AverageModes replaces each pair of real frequencies by its mean. It returns the averaged
// frequencies and a note, empty unless an unpaired mode had to be dropped.
func (P PairPolicy) AverageModes(freqs, imaginary []float64) ([]float64, string, error) {
	note := ""
	if len(freqs)%2 == 1 {
		if !P.DropUnpairedTS || len(imaginary) != 1 {
			return nil, "", malformed(SectionFrequencies, -1, "AverageModes", "can't pair-average %d real modes with %d imaginary modes", len(freqs), len(imaginary))
		}
		dropped := freqs[len(freqs)-1]
		freqs = freqs[:len(freqs)-1]
		note = fmt.Sprintf("Odd number of real modes with one imaginary mode (TS case). Dropped unpaired real mode (%.6f cm-1) before pair averaging.", dropped)
	}
	pairs := P.Scheme.pairs(len(freqs))
	ret := make([]float64, len(pairs))
	for i, p := range pairs {
		ret[i] = (freqs[p[0]] + freqs[p[1]]) / 2
	}
	return ret, note, nil
}

// AverageHessian averages the Hessian over the pairs of degrees of freedom given by the scheme:
// H'[i][j] = (H[a][b] + H[c][d]) / 2, with (a,c) the partners for i and (b,d) those for j.
// The label of the first member of each pair is kept.
func (P PairPolicy) AverageHessian(H *Hessian) (*Hessian, error) {
	n := len(H.Labels)
	if n%2 == 1 {
		return nil, malformed(SectionHessian, -1, "AverageHessian", "can't pair-average %d degrees of freedom", n)
	}
	pairs := P.Scheme.pairs(n)
	labels := make([]string, len(pairs))
	avg := mat.NewDense(len(pairs), len(pairs), nil)
	for i, pi := range pairs {
		labels[i] = H.Labels[pi[0]]
		for j, pj := range pairs {
			avg.Set(i, j, (H.Matrix.At(pi[0], pj[0])+H.Matrix.At(pi[1], pj[1]))/2)
		}
	}
	return &Hessian{Labels: labels, Matrix: avg}, nil
}

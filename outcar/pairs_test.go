/*
 * pairs_test.go, part of mkmkit.
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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func TestAverageModes(Te *testing.T) {
	freqs := []float64{610.2, 480.4, 470.6, 609.8, 479.6, 469.4}
	got, note, err := PairPolicy{Scheme: Halves}.AverageModes(freqs, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]float64{610, 480, 470}, got, approx); diff != "" {
		Te.Errorf("halves (-want +got):\n%s", diff)
	}
	if note != "" {
		Te.Errorf("unexpected note %q", note)
	}
	got, _, err = PairPolicy{Scheme: Sequential}.AverageModes([]float64{610.2, 609.8, 480.4, 479.6}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]float64{610, 480}, got, approx); diff != "" {
		Te.Errorf("sequential (-want +got):\n%s", diff)
	}
	//the input is not modified
	if freqs[0] != 610.2 || len(freqs) != 6 {
		Te.Errorf("input modified: %v", freqs)
	}
}

func TestAverageModesOdd(Te *testing.T) {
	cases := []struct {
		name      string
		policy    PairPolicy
		imaginary []float64
		fails     bool
	}{
		{"no imaginary", PairPolicy{DropUnpairedTS: true}, nil, true},
		{"two imaginary", PairPolicy{DropUnpairedTS: true}, []float64{-300, -20}, true},
		{"not allowed", PairPolicy{}, []float64{-300}, true},
		{"TS", PairPolicy{DropUnpairedTS: true}, []float64{-300}, false},
	}
	for _, c := range cases {
		got, note, err := c.policy.AverageModes([]float64{100, 200, 102}, c.imaginary)
		if c.fails {
			var e *MalformedLogError
			if !errors.As(err, &e) || e.Section != SectionFrequencies {
				Te.Errorf("%s: expected a frequencies MalformedLogError, got %v", c.name, err)
			}
			continue
		}
		if err != nil {
			Te.Fatalf("%s: %v", c.name, err)
		}
		if diff := cmp.Diff([]float64{150}, got); diff != "" {
			Te.Errorf("%s (-want +got):\n%s", c.name, diff)
		}
		want := "Odd number of real modes with one imaginary mode (TS case). Dropped unpaired real mode (102.000000 cm-1) before pair averaging."
		if note != want {
			Te.Errorf("%s: note %q", c.name, note)
		}
	}
}

func TestAverageHessian(Te *testing.T) {
	H := &Hessian{
		Labels: []string{"1X", "1Y", "2X", "2Y"},
		Matrix: mat.NewDense(4, 4, []float64{
			-4, 1, 0.5, 0,
			1, -6, 0, 0.25,
			0.5, 0, -2, 3,
			0, 0.25, 3, -8,
		}),
	}
	got, err := PairPolicy{Scheme: Halves}.AverageHessian(H)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1X", "1Y"}, got.Labels); diff != "" {
		Te.Errorf("labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{-3, 2}, {2, -7}}, got.Rows()); diff != "" {
		Te.Errorf("halves (-want +got):\n%s", diff)
	}
	got, err = PairPolicy{Scheme: Sequential}.AverageHessian(H)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1X", "2X"}, got.Labels); diff != "" {
		Te.Errorf("labels (-want +got):\n%s", diff)
	}
	//(H[0][0]+H[1][1])/2, (H[0][2]+H[1][3])/2 ...
	if diff := cmp.Diff([][]float64{{-5, 0.375}, {0.375, -5}}, got.Rows()); diff != "" {
		Te.Errorf("sequential (-want +got):\n%s", diff)
	}
	odd := &Hessian{Labels: []string{"1X", "1Y", "1Z"}, Matrix: mat.NewDense(3, 3, nil)}
	if _, err := (PairPolicy{}).AverageHessian(odd); err == nil {
		Te.Errorf("expected an error for an odd number of degrees of freedom")
	}
}

func TestParsePairScheme(Te *testing.T) {
	for name, want := range map[string]PairScheme{"": Halves, "Halves": Halves, "sequential": Sequential} {
		got, err := ParsePairScheme(name)
		if err != nil || got != want {
			Te.Errorf("%q: got %v %v", name, got, err)
		}
		if name != "" && got.String() != map[PairScheme]string{Halves: "halves", Sequential: "sequential"}[got] {
			Te.Errorf("String: got %s", got)
		}
	}
	if _, err := ParsePairScheme("symmetric"); err == nil {
		Te.Errorf("expected an error for an unknown scheme")
	}
}

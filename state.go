/*
 * state.go, part of mkmkit.
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

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// Calculation types
const (
	Optimization = "optimization"
	Frequency    = "frequency"
)

// DocumentKey is the key of the provenance header of a state document.
// The name is kept so documents produced by earlier tools can be read.
const DocumentKey = "pymkmkit"

// Version is the mkmkit version recorded in the documents it generates.
const Version = "0.1.0"

// State is the structured record of one converged electronic-structure calculation.
// A State is never modified after it has been built or read.
type State struct {
	Generator   Generator   `yaml:"pymkmkit"`
	Structure   Structure   `yaml:"structure"`
	Calculation Calculation `yaml:"calculation"`
	Energy      Energy      `yaml:"energy"`
	Vibrations  *Vibrations `yaml:"vibrations,omitempty"`
}

// Generator identifies the program that produced a document, and when.
type Generator struct {
	Version   string    `yaml:"version"`
	Generated time.Time `yaml:"generated"`
}

// Structure contains the geometry of the system.
type Structure struct {
	Formula string      `yaml:"formula"`
	NAtoms  int         `yaml:"n_atoms"`
	Lattice Lattice     `yaml:"lattice_vectors"`
	Direct  Coordinates `yaml:"coordinates_direct"`
	PBC     PBC         `yaml:"pbc"`
}

// Calculation describes the settings of the calculation.
type Calculation struct {
	Code    string   `yaml:"code"`
	Version string   `yaml:"version,omitempty"`
	Type    string   `yaml:"type"`
	Incar   Settings `yaml:"incar"`
	Potcar  []string `yaml:"potcar"`
}

// Energy holds the energies, in eV, of the selected ionic step.
// Electronic is the energy(sigma->0) value. Free is the free energy (TOTEN).
type Energy struct {
	Electronic float64  `yaml:"electronic"`
	Free       *float64 `yaml:"free,omitempty"`
}

// Vibrations contains the normal-mode data of a frequency calculation. All frequencies are in cm-1.
// Imaginary modes are stored as negative numbers.
type Vibrations struct {
	Frequencies   FloatList       `yaml:"frequencies_cm-1"`
	Imaginary     FloatList       `yaml:"imaginary_cm-1,omitempty"`
	Hessian       *PartialHessian `yaml:"partial_hessian,omitempty"`
	PairsAveraged bool            `yaml:"paired_modes_averaged"`
	PairingNote   string          `yaml:"pairing_note,omitempty"`
}

// PartialHessian is the block of second derivatives for the displaced degrees of freedom.
// Labels have the form <atom><X|Y|Z>, with 1-based atom indexes.
type PartialHessian struct {
	Labels []string    `yaml:"dof_labels"`
	Matrix []FloatList `yaml:"matrix"`
}

// Setting is one INCAR parameter. Value is a float64, an int or a string.
type Setting struct {
	Key   string
	Value any
}

// Settings is an ordered collection of INCAR parameters.
type Settings []Setting

// Get returns the value for key, and whether it was present.
func (S Settings) Get(key string) (any, bool) {
	for _, v := range S {
		if v.Key == key {
			return v.Value, true
		}
	}
	return nil, false
}

// ZPE returns the zero-point energy in eV, half the sum of the
// real vibrational frequencies. Imaginary modes are not included.
// It returns 0 for a state without vibrational data.
func (S *State) ZPE() float64 {
	if S == nil || S.Vibrations == nil {
		return 0
	}
	return ZPE(S.Vibrations.Frequencies)
}

// ZPE returns the zero-point energy, in eV, for the given real frequencies, in cm-1.
func ZPE(freqs []float64) float64 {
	if len(freqs) == 0 {
		return 0
	}
	return 0.5 * floats.Sum(freqs) * EVPerCm1
}

// IsTransitionState returns true if the state has exactly one imaginary mode.
func (S *State) IsTransitionState() bool {
	return S.Vibrations != nil && len(S.Vibrations.Imaginary) == 1
}

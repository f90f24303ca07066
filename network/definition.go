/*
 * definition.go, part of mkmkit.
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

package network

import (
	"errors"
	"io"

	mkm "github.com/rmera/mkmkit"
	"gopkg.in/yaml.v3"
)

// Definition is a network definition document, as written by the user.
type Definition struct {
	StableStates     []StateEntry `yaml:"stable_states"`
	TransitionStates []StateEntry `yaml:"transition_states"`
	Network          []StepEntry  `yaml:"network"`
	Paths            []PathEntry  `yaml:"paths"`
}

// StateEntry binds a name to a state document. File is relative to the directory of the definition.
type StateEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// TermEntry is a reference to a state, with its stoichiometric coefficient (1 if omitted).
type TermEntry struct {
	Name          string `yaml:"name"`
	Stoichiometry *int   `yaml:"stoichiometry"`
}

// BarrierEntry is the forward or backward block of a surf step.
type BarrierEntry struct {
	Normalization *int        `yaml:"normalization"`
	IS            []TermEntry `yaml:"is"`
	TS            []TermEntry `yaml:"ts"`
}

// StepEntry is an elementary step. Surf steps (the default type) have Forward and Backward
// blocks. Ads steps have Normalization, IS and FS.
type StepEntry struct {
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	Reaction      string        `yaml:"reaction"`
	Forward       *BarrierEntry `yaml:"forward"`
	Backward      *BarrierEntry `yaml:"backward"`
	Normalization *int          `yaml:"normalization"`
	IS            []TermEntry   `yaml:"is"`
	FS            []TermEntry   `yaml:"fs"`
}

// PathEntry is a named sequence of steps.
type PathEntry struct {
	Name       string          `yaml:"name"`
	StartLabel string          `yaml:"startlabel"`
	Steps      []PathStepEntry `yaml:"steps"`
}

// PathStepEntry references a step of the network. Factor is 1 if omitted.
type PathStepEntry struct {
	Step   string   `yaml:"step"`
	Factor *float64 `yaml:"factor"`
	Label  string   `yaml:"label"`
}

// ReadDefinition decodes a network definition from r. Unknown keys are an error, so that
// misspelled keys are not silently ignored.
func ReadDefinition(r io.Reader) (*Definition, error) {
	def := new(Definition)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(def); err != nil {
		if errors.Is(err, io.EOF) {
			return def, nil
		}
		return nil, &DefinitionError{Message: err.Error(), deco: []string{"ReadDefinition"}, err: err}
	}
	return def, nil
}

// ReadDefinitionFile reads the network definition in the file fname, which can be compressed.
// I/O errors are returned unchanged.
func ReadDefinitionFile(fname string) (*Definition, error) {
	f, err := mkm.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	def, err := ReadDefinition(f)
	if err != nil {
		var e *DefinitionError
		if errors.As(err, &e) {
			e.File = fname
		}
		return nil, mkm.ErrDecorate(err, "ReadDefinitionFile")
	}
	return def, nil
}

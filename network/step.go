/*
 * step.go, part of mkmkit.
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
	"fmt"

	mkm "github.com/rmera/mkmkit"
)

// StepKind is the type of an elementary step.
type StepKind int

const (
	//Surf is a surface reaction, with forward and backward barriers.
	Surf StepKind = iota
	//Ads is an adsorption, with a single heat.
	Ads
)

func (K StepKind) String() string {
	switch K {
	case Surf:
		return "surf"
	case Ads:
		return "ads"
	default:
		return fmt.Sprintf("StepKind(%d)", int(K))
	}
}

// ParseStepKind returns the kind with the given name. An empty name is a surf step.
func ParseStepKind(name string) (StepKind, error) {
	switch name {
	case "", "surf":
		return Surf, nil
	case "ads":
		return Ads, nil
	default:
		return Surf, fmt.Errorf("unknown step type %q (use surf or ads)", name)
	}
}

// Term is a state taking part in a step, with its stoichiometric coefficient.
type Term struct {
	Name          string
	Stoichiometry int
	State         *mkm.State
}

// Delta is an energy difference between the final and the initial terms. The electronic part
// is divided by Normalization, the ZPE part is not.
type Delta struct {
	Initial       []Term
	Final         []Term
	Normalization int
}

// Step is an elementary step of the network. Surf steps have Forward and Backward deltas, with the
// initial and transition states of each direction. Ads steps have the Adsorption delta, from the
// initial to the final state.
type Step struct {
	Name       string
	Kind       StepKind
	Reaction   string
	Forward    *Delta
	Backward   *Delta
	Adsorption *Delta
}

// Deltas returns the deltas of the step, in order.
func (S *Step) Deltas() []*Delta {
	if S.Kind == Ads {
		return []*Delta{S.Adsorption}
	}
	return []*Delta{S.Forward, S.Backward}
}

// States returns the names of all the states referenced by the step, without repetitions.
func (S *Step) States() []string {
	var ret []string
	seen := make(map[string]bool)
	for _, d := range S.Deltas() {
		for _, terms := range [][]Term{d.Initial, d.Final} {
			for _, t := range terms {
				if !seen[t.Name] {
					seen[t.Name] = true
					ret = append(ret, t.Name)
				}
			}
		}
	}
	return ret
}

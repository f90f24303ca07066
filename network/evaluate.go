/*
 * evaluate.go, part of mkmkit.
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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Direction is the energy difference for one direction of a step, in eV.
type Direction struct {
	Electronic float64
	ZPE        float64
	Total      float64
	Equation   string
}

// StepResult is the evaluation of a step. Surf steps have Forward and Reverse, ads steps
// only Adsorption.
type StepResult struct {
	Step       *Step
	Forward    *Direction
	Reverse    *Direction
	Adsorption *Direction
}

// ReactionHeat returns the energy a path accumulates for the step: the adsorption total for
// ads steps, and the forward total for surf steps.
func (R StepResult) ReactionHeat() float64 {
	if R.Step.Kind == Ads {
		return R.Adsorption.Total
	}
	return R.Forward.Total
}

// NetEnergy returns the reaction energy implied by the step: the forward total minus the
// reverse total for surf steps, the adsorption total for ads steps.
func (R StepResult) NetEnergy() float64 {
	if R.Step.Kind == Ads {
		return R.Adsorption.Total
	}
	return R.Forward.Total - R.Reverse.Total
}

// Evaluate computes the energy differences of the step. The step must come from a resolved
// network, so every term has a state.
func Evaluate(step *Step) StepResult {
	res := StepResult{Step: step}
	if step.Kind == Ads {
		res.Adsorption = step.Adsorption.Evaluate()
		return res
	}
	res.Forward = step.Forward.Evaluate()
	res.Reverse = step.Backward.Evaluate()
	return res
}

// Evaluate computes every step of the network, in definition order.
func (N *Network) Evaluate() []StepResult {
	ret := make([]StepResult, 0, len(N.Steps))
	for _, s := range N.Steps {
		ret = append(ret, Evaluate(s))
	}
	return ret
}

// Evaluate returns the difference between the final and the initial terms. Only the
// electronic part is divided by the normalization.
func (D *Delta) Evaluate() *Direction {
	fel, fzpe := sums(D.Final)
	iel, izpe := sums(D.Initial)
	dir := &Direction{
		Electronic: (fel - iel) / float64(D.Normalization),
		ZPE:        fzpe - izpe,
	}
	dir.Total = dir.Electronic + dir.ZPE
	el := fmt.Sprintf("(%s - (%s)) / %d", expression(D.Final, "E"), expression(D.Initial, "E"), D.Normalization)
	zpe := fmt.Sprintf("(%s - (%s))", expression(D.Final, "ZPE"), expression(D.Initial, "ZPE"))
	dir.Equation = fmt.Sprintf("E_el: %s; ZPE corr: %s; Total: (%s) + (%s)", el, zpe, el, zpe)
	return dir
}

func sums(terms []Term) (el, zpe float64) {
	e := make([]float64, len(terms))
	z := make([]float64, len(terms))
	for i, t := range terms {
		nu := float64(t.Stoichiometry)
		e[i] = nu * t.State.Energy.Electronic
		z[i] = nu * t.State.ZPE()
	}
	return floats.Sum(e), floats.Sum(z)
}

func expression(terms []Term, symbol string) string {
	if len(terms) == 0 {
		return "0"
	}
	pieces := make([]string, len(terms))
	for i, t := range terms {
		pieces[i] = strconv.Itoa(t.Stoichiometry) + "*" + symbol + "(" + t.Name + ")"
	}
	return strings.Join(pieces, " + ")
}

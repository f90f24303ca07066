/*
 * path.go, part of mkmkit.
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
	mkm "github.com/rmera/mkmkit"
	"gonum.org/v1/gonum/floats"
)

// DefaultStartLabel labels the first point of a profile when the path gives none.
const DefaultStartLabel = "Start"

// PathStep is a step of a path, scaled by Factor. Label names the profile point after
// the step; the step name is used if it is empty.
type PathStep struct {
	Step   *Step
	Factor float64
	Label  string
}

// Path is a named sequence of steps.
type Path struct {
	Name       string
	StartLabel string
	Steps      []PathStep
}

// PathTotal is the total reaction energy of a path, in eV.
type PathTotal struct {
	Path  *Path
	Total float64
}

// Point is a level of an energy profile. Step and Kind are those of the step that
// leads to the point, and are empty for the starting point.
type Point struct {
	Label  string
	Energy float64
	Step   string
	Kind   StepKind
}

// Profile is the cumulative energy profile of a path, starting at 0.
type Profile struct {
	Path   *Path
	Points []Point
}

// heats returns the factor-scaled reaction heat of each step of the path.
func heats(path *Path, results []StepResult) ([]float64, error) {
	bystep := make(map[*Step]StepResult, len(results))
	for _, r := range results {
		bystep[r.Step] = r
	}
	ret := make([]float64, len(path.Steps))
	for i, s := range path.Steps {
		r, ok := bystep[s.Step]
		if !ok {
			return nil, &UnresolvedReferenceError{Name: s.Step.Name, Kind: "step result", Where: path.Name, deco: []string{"heats"}}
		}
		ret[i] = s.Factor * r.ReactionHeat()
	}
	return ret, nil
}

// Aggregate returns the sum of the reaction heats of the steps of the path, each multiplied
// by its factor. results must contain a result for each step of the path.
func Aggregate(path *Path, results []StepResult) (PathTotal, error) {
	h, err := heats(path, results)
	if err != nil {
		return PathTotal{}, mkm.ErrDecorate(err, "Aggregate")
	}
	return PathTotal{Path: path, Total: floats.Sum(h)}, nil
}

// BuildProfile returns the cumulative energy profile of the path. The first point is the
// start, at 0, and each following point adds the factor-scaled reaction heat of one step.
func BuildProfile(path *Path, results []StepResult) (Profile, error) {
	h, err := heats(path, results)
	if err != nil {
		return Profile{}, mkm.ErrDecorate(err, "BuildProfile")
	}
	start := path.StartLabel
	if start == "" {
		start = DefaultStartLabel
	}
	cumulative := make([]float64, len(h))
	if len(h) > 0 {
		floats.CumSum(cumulative, h)
	}
	prof := Profile{Path: path, Points: make([]Point, 0, len(h)+1)}
	prof.Points = append(prof.Points, Point{Label: start})
	for i, s := range path.Steps {
		label := s.Label
		if label == "" {
			label = s.Step.Name
		}
		prof.Points = append(prof.Points, Point{Label: label, Energy: cumulative[i], Step: s.Step.Name, Kind: s.Step.Kind})
	}
	return prof, nil
}

// EvaluatePaths evaluates the network and returns the total of each path, in definition order.
func (N *Network) EvaluatePaths() ([]PathTotal, error) {
	results := N.Evaluate()
	ret := make([]PathTotal, 0, len(N.Paths))
	for _, p := range N.Paths {
		t, err := Aggregate(p, results)
		if err != nil {
			return nil, mkm.ErrDecorate(err, "EvaluatePaths")
		}
		ret = append(ret, t)
	}
	return ret, nil
}

// Profile evaluates the network and returns the energy profile of the named path.
func (N *Network) Profile(name string) (Profile, error) {
	p := N.Path(name)
	if p == nil {
		return Profile{}, &UnresolvedReferenceError{Name: name, Kind: "path", Where: "network", deco: []string{"Profile"}}
	}
	return BuildProfile(p, N.Evaluate())
}

/*
 * resolve.go, part of mkmkit.
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
	"os"
	"path/filepath"

	mkm "github.com/rmera/mkmkit"
	"go.uber.org/zap"
)

const (
	stableNamespace     = "stable_states"
	transitionNamespace = "transition_states"
	stepNamespace       = "network"
	pathNamespace       = "paths"
)

// Network is a resolved reaction network: every name in its steps and paths is bound to
// a state or a step. It is built by Resolve and not modified afterwards.
type Network struct {
	States           map[string]*mkm.State
	TransitionStates map[string]*mkm.State
	Files            map[string]string //the state document read for each name
	Steps            []*Step
	Paths            []*Path
	Base             string
}

// LoadOptions controls the resolution of a network.
type LoadOptions struct {
	Logger *zap.Logger
}

func (O LoadOptions) logger() *zap.Logger {
	if O.Logger == nil {
		return zap.NewNop()
	}
	return O.Logger
}

// Resolve builds the network for the definition. State files are read relative to base.
// States are resolved first, then steps, whose terms are checked against the states, then paths,
// whose references are checked against the steps, so no step can be evaluated against a
// missing state. Errors are *UnresolvedReferenceError, *DuplicateNameError or *DefinitionError,
// or the I/O error, unchanged, from reading a state document.
func Resolve(def *Definition, base string) (*Network, error) {
	return LoadOptions{}.Resolve(def, base)
}

// Load reads the network definition in the file fname and resolves it, relative to the
// directory of fname.
func Load(fname string) (*Network, error) {
	return LoadOptions{}.Load(fname)
}

// Load reads the network definition in the file fname and resolves it, relative to the
// directory of fname.
func (O LoadOptions) Load(fname string) (*Network, error) {
	def, err := ReadDefinitionFile(fname)
	if err != nil {
		return nil, err
	}
	return O.Resolve(def, filepath.Dir(fname))
}

// Resolve builds the network for the definition. See the Resolve function.
func (O LoadOptions) Resolve(def *Definition, base string) (*Network, error) {
	N := &Network{
		States:           make(map[string]*mkm.State),
		TransitionStates: make(map[string]*mkm.State),
		Files:            make(map[string]string),
		Base:             base,
	}
	log := O.logger().With(zap.String("base", base))
	if err := N.resolveStates(def, log); err != nil {
		return nil, mkm.ErrDecorate(err, "Resolve")
	}
	if err := N.resolveSteps(def); err != nil {
		return nil, mkm.ErrDecorate(err, "Resolve")
	}
	if err := N.resolvePaths(def); err != nil {
		return nil, mkm.ErrDecorate(err, "Resolve")
	}
	log.Debug("network resolved", zap.Int("states", len(N.States)), zap.Int("transition_states", len(N.TransitionStates)),
		zap.Int("steps", len(N.Steps)), zap.Int("paths", len(N.Paths)))
	return N, nil
}

// StateFile returns the state document for the file entry, relative to base. The name is tried
// as given, and then with the .yaml, .yml and .yaml.gz extensions appended. If none exists, the
// error for the name as given is returned.
func StateFile(base, file string) (string, error) {
	fname := file
	if !filepath.IsAbs(fname) {
		fname = filepath.Join(base, file)
	}
	_, firsterr := os.Stat(fname)
	if firsterr == nil {
		return fname, nil
	}
	for _, ext := range []string{".yaml", ".yml", ".yaml.gz"} {
		if _, err := os.Stat(fname + ext); err == nil {
			return fname + ext, nil
		}
	}
	return "", firsterr
}

func (N *Network) resolveStates(def *Definition, log *zap.Logger) error {
	cache := make(map[string]*mkm.State) //files referenced more than once are read once
	load := func(entries []StateEntry, namespace string, target map[string]*mkm.State) error {
		for i, e := range entries {
			if e.Name == "" || e.File == "" {
				return defError(fmt.Sprintf("%s[%d]", namespace, i), "resolveStates", "entries need a name and a file")
			}
			if _, ok := target[e.Name]; ok {
				return &DuplicateNameError{Name: e.Name, Namespace: namespace, deco: []string{"resolveStates"}}
			}
			if _, ok := N.States[e.Name]; ok {
				return &DuplicateNameError{Name: e.Name, Namespace: namespace, deco: []string{"resolveStates: also a stable state"}}
			}
			fname, err := StateFile(N.Base, e.File)
			if err != nil {
				return fmt.Errorf("state %s: %w", e.Name, err)
			}
			state, ok := cache[fname]
			if !ok {
				state, err = mkm.ReadState(fname)
				if err != nil {
					return mkm.ErrDecorate(fmt.Errorf("state %s: %w", e.Name, err), "resolveStates")
				}
				cache[fname] = state
			}
			target[e.Name] = state
			N.Files[e.Name] = fname
			log.Debug("read state", zap.String("state", e.Name), zap.String("file", fname), zap.Float64("electronic", state.Energy.Electronic), zap.Float64("zpe", state.ZPE()))
			if namespace == transitionNamespace && !state.IsTransitionState() {
				log.Warn("transition state without exactly one imaginary mode", zap.String("state", e.Name), zap.String("file", fname))
			}
		}
		return nil
	}
	if err := load(def.StableStates, stableNamespace, N.States); err != nil {
		return err
	}
	return load(def.TransitionStates, transitionNamespace, N.TransitionStates)
}

// State returns the stable or transition state with the given name, or nil.
func (N *Network) State(name string) *mkm.State {
	if s, ok := N.States[name]; ok {
		return s
	}
	return N.TransitionStates[name]
}

func orOne(p *int) int {
	if p == nil {
		return 1
	}
	return *p
}

func (N *Network) terms(entries []TermEntry, where, side string) ([]Term, error) {
	if len(entries) == 0 {
		return nil, defError(where, "terms", "no %s terms", side)
	}
	ret := make([]Term, 0, len(entries))
	for _, e := range entries {
		stoich := orOne(e.Stoichiometry)
		if stoich <= 0 {
			return nil, defError(where, "terms", "stoichiometry of %s must be positive, not %d", e.Name, stoich)
		}
		state := N.State(e.Name)
		if state == nil {
			return nil, &UnresolvedReferenceError{Name: e.Name, Kind: "state", Where: where, deco: []string{"terms"}}
		}
		ret = append(ret, Term{Name: e.Name, Stoichiometry: stoich, State: state})
	}
	return ret, nil
}

func (N *Network) delta(norm *int, initial, final []TermEntry, where, finalside string) (*Delta, error) {
	n := orOne(norm)
	if n <= 0 {
		return nil, defError(where, "delta", "normalization must be positive, not %d", n)
	}
	is, err := N.terms(initial, where, "is")
	if err != nil {
		return nil, err
	}
	fs, err := N.terms(final, where, finalside)
	if err != nil {
		return nil, err
	}
	return &Delta{Initial: is, Final: fs, Normalization: n}, nil
}

func (N *Network) resolveSteps(def *Definition) error {
	seen := make(map[string]bool)
	for i, e := range def.Network {
		if e.Name == "" {
			return defError(fmt.Sprintf("network[%d]", i), "resolveSteps", "steps need a name")
		}
		if seen[e.Name] {
			return &DuplicateNameError{Name: e.Name, Namespace: stepNamespace, deco: []string{"resolveSteps"}}
		}
		seen[e.Name] = true
		kind, err := ParseStepKind(e.Type)
		if err != nil {
			return defError(e.Name, "resolveSteps", "%v", err)
		}
		step := &Step{Name: e.Name, Kind: kind, Reaction: e.Reaction}
		switch kind {
		case Ads:
			if e.Forward != nil || e.Backward != nil {
				return defError(e.Name, "resolveSteps", "ads steps have is and fs, not forward and backward")
			}
			if step.Adsorption, err = N.delta(e.Normalization, e.IS, e.FS, e.Name, "fs"); err != nil {
				return err
			}
		default:
			if e.Forward == nil || e.Backward == nil {
				return defError(e.Name, "resolveSteps", "surf steps need forward and backward blocks")
			}
			if e.IS != nil || e.FS != nil || e.Normalization != nil {
				return defError(e.Name, "resolveSteps", "surf steps have forward and backward blocks, not is, fs or normalization")
			}
			if step.Forward, err = N.delta(e.Forward.Normalization, e.Forward.IS, e.Forward.TS, e.Name+" (forward)", "ts"); err != nil {
				return err
			}
			if step.Backward, err = N.delta(e.Backward.Normalization, e.Backward.IS, e.Backward.TS, e.Name+" (backward)", "ts"); err != nil {
				return err
			}
		}
		N.Steps = append(N.Steps, step)
	}
	return nil
}

func (N *Network) resolvePaths(def *Definition) error {
	seen := make(map[string]bool)
	for i, e := range def.Paths {
		if e.Name == "" {
			return defError(fmt.Sprintf("paths[%d]", i), "resolvePaths", "paths need a name")
		}
		if seen[e.Name] {
			return &DuplicateNameError{Name: e.Name, Namespace: pathNamespace, deco: []string{"resolvePaths"}}
		}
		seen[e.Name] = true
		path := &Path{Name: e.Name, StartLabel: e.StartLabel}
		for _, s := range e.Steps {
			step := N.Step(s.Step)
			if step == nil {
				return &UnresolvedReferenceError{Name: s.Step, Kind: "step", Where: e.Name, deco: []string{"resolvePaths"}}
			}
			factor := 1.0
			if s.Factor != nil {
				factor = *s.Factor
			}
			path.Steps = append(path.Steps, PathStep{Step: step, Factor: factor, Label: s.Label})
		}
		N.Paths = append(N.Paths, path)
	}
	return nil
}

// Step returns the step with the given name, or nil.
func (N *Network) Step(name string) *Step {
	for _, s := range N.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Path returns the path with the given name, or nil.
func (N *Network) Path(name string) *Path {
	for _, p := range N.Paths {
		if p.Name == name {
			return p
		}
	}
	return nil
}

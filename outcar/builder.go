/*
 * builder.go, part of mkmkit.
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
	"fmt"

	mkm "github.com/rmera/mkmkit"
	"go.uber.org/zap"
)

// Options controls how a state document is built from an OUTCAR.
type Options struct {
	Type      string //mkm.Optimization or mkm.Frequency
	Average   bool   //pair-average the modes (frequency calculations only)
	Pairs     PairPolicy
	Modes     ModePolicy
	Keys      []SettingKey //INCAR parameters to record. If nil, DefaultKeys are used.
	Generator mkm.Generator
	Logger    *zap.Logger
}

// DefaultOptions returns the options for the calculation type, with the default mode policy
// and no pair averaging.
func DefaultOptions(calctype string) Options {
	return Options{Type: calctype, Modes: DefaultModePolicy, Keys: DefaultKeys}
}

// Build builds the state document for the calculation in the log. It fails with a
// *MalformedLogError if a section required for the calculation type is absent or
// inconsistent. Build doesn't read the clock, the generation time is taken from opts.
func Build(log *Log, opts Options) (*mkm.State, error) {
	state, err := build(log, opts)
	if err != nil {
		var e *MalformedLogError
		if errors.As(err, &e) && e.File == "" {
			e.File = log.Name
		}
		return nil, mkm.ErrDecorate(err, "Build")
	}
	return state, nil
}

func build(log *Log, opts Options) (*mkm.State, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("file", log.Name))
	if opts.Type != mkm.Optimization && opts.Type != mkm.Frequency {
		return nil, fmt.Errorf("unknown calculation type %q", opts.Type)
	}
	keys := opts.Keys
	if keys == nil {
		keys = DefaultKeys
	}
	step, err := log.SelectStep(opts.Type)
	if err != nil {
		return nil, err
	}
	logger.Debug("selected ionic step", zap.Int("line", step.Line+1), zap.Float64("sigma0", step.Sigma0), zap.Int("runs", len(log.Runs)))
	geo, err := log.Geometry(step.Line)
	if err != nil {
		return nil, err
	}
	direct, err := geo.Direct()
	if err != nil {
		return nil, err
	}
	free := step.Free
	state := &mkm.State{
		Generator: opts.Generator,
		Structure: mkm.Structure{
			Formula: geo.Formula(),
			NAtoms:  geo.NAtoms(),
			Lattice: geo.RoundedLattice(),
			Direct:  direct,
			PBC:     mkm.PBC{true, true, true},
		},
		Calculation: mkm.Calculation{
			Code:    "VASP",
			Version: log.Version(),
			Type:    opts.Type,
			Incar:   log.Settings(keys),
			Potcar:  log.Potcar(),
		},
		Energy: mkm.Energy{Electronic: step.Sigma0, Free: &free},
	}
	if state.Calculation.Potcar == nil {
		state.Calculation.Potcar = []string{}
	}
	if opts.Type == mkm.Optimization {
		return state, nil
	}
	vib, err := vibrations(log, geo.NAtoms(), opts, logger)
	if err != nil {
		return nil, err
	}
	state.Vibrations = vib
	return state, nil
}

// vibrations builds the vibrations block: modes are split into real and imaginary ones,
// pair-averaged if requested, and then the near-zero real modes are removed.
func vibrations(log *Log, natoms int, opts Options, logger *zap.Logger) (*mkm.Vibrations, error) {
	modes, err := log.Modes()
	if err != nil {
		return nil, err
	}
	freqs, imaginary := Split(modes)
	hess, err := log.Hessian(natoms)
	if err != nil {
		return nil, err
	}
	if hess != nil && len(modes) != len(hess.Labels) {
		return nil, malformed(SectionHessian, -1, "vibrations", "%d modes but %d degrees of freedom", len(modes), len(hess.Labels))
	}
	vib := &mkm.Vibrations{PairsAveraged: opts.Average}
	if opts.Average {
		freqs, vib.PairingNote, err = opts.Pairs.AverageModes(freqs, imaginary)
		if err != nil {
			return nil, err
		}
		if vib.PairingNote != "" {
			logger.Warn("dropped unpaired mode", zap.String("section", SectionFrequencies), zap.String("note", vib.PairingNote))
		}
		if hess != nil {
			if hess, err = opts.Pairs.AverageHessian(hess); err != nil {
				return nil, err
			}
		}
	}
	freqs, removed := opts.Modes.Filter(freqs)
	if removed > 0 {
		logger.Debug("removed near-zero modes", zap.Int("removed", removed), zap.Float64("threshold", opts.Modes.NearZero))
	}
	vib.Frequencies = freqs
	vib.Imaginary = imaginary
	if hess != nil {
		vib.Hessian = &mkm.PartialHessian{Labels: hess.Labels}
		for _, row := range hess.Rows() {
			vib.Hessian.Matrix = append(vib.Hessian.Matrix, mkm.FloatList(row))
		}
	}
	logger.Debug("read vibrations", zap.Int("real", len(freqs)), zap.Int("imaginary", len(imaginary)), zap.Bool("hessian", hess != nil))
	return vib, nil
}

// BuildFile reads the OUTCAR in fname, which can be compressed, and builds its state document.
func BuildFile(fname string, opts Options) (*mkm.State, error) {
	log, err := ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Build(log, opts)
}

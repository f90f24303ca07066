/*
 * energy.go, part of mkmkit.
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
	"strings"

	mkm "github.com/rmera/mkmkit"
)

const (
	energyMarker = "FREE ENERGIE OF THE ION-ELECTRON SYSTEM"
	totenMarker  = "TOTEN"
	sigma0Marker = "energy(sigma->0)"
	energyWindow = 10 //lines after the marker where the energies are printed
)

// IonicStep is a completed ionic step: its energy block produced both the free
// energy (TOTEN) and the energy(sigma->0) lines.
type IonicStep struct {
	Line   int     //index of the line with the energy block marker
	Free   float64 //TOTEN
	Sigma0 float64 //energy(sigma->0)
}

// IonicSteps returns the completed ionic steps of the run. Incomplete steps, such as
// the last one of an interrupted calculation, are not included.
func (L *Log) IonicSteps(run Run) ([]IonicStep, error) {
	var steps []IonicStep
	for i := run.Start; i < run.End; i++ {
		if !strings.Contains(L.Lines[i], energyMarker) {
			continue
		}
		step := IonicStep{Line: i}
		var gotFree, gotSigma bool
		for j := i + 1; j < run.End && j <= i+energyWindow && !(gotFree && gotSigma); j++ {
			line := L.Lines[j]
			if strings.Contains(line, energyMarker) {
				break
			}
			var err error
			switch {
			case strings.Contains(line, totenMarker):
				v, ok := valueAfter(line, "=")
				if !ok {
					continue
				}
				if step.Free, err = parseFloat(v); err != nil {
					return nil, malformed(SectionEnergy, j, "IonicSteps", "can't read TOTEN from %q", strings.TrimSpace(line))
				}
				gotFree = true
			case strings.Contains(line, sigma0Marker):
				v, ok := valueAfter(line, "=")
				if !ok {
					continue
				}
				if step.Sigma0, err = parseFloat(v); err != nil {
					return nil, malformed(SectionEnergy, j, "IonicSteps", "can't read energy(sigma->0) from %q", strings.TrimSpace(line))
				}
				gotSigma = true
			}
		}
		if gotFree && gotSigma {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// SelectStep returns the authoritative ionic step for the calculation type. Only the last
// run that completed at least one ionic step is considered. For optimizations, that is the
// last completed step. For frequency calculations it is the first one, the undisplaced
// reference geometry.
func (L *Log) SelectStep(calctype string) (IonicStep, error) {
	for r := len(L.Runs) - 1; r >= 0; r-- {
		steps, err := L.IonicSteps(L.Runs[r])
		if err != nil {
			return IonicStep{}, err
		}
		if len(steps) == 0 {
			continue
		}
		if calctype == mkm.Frequency {
			return steps[0], nil
		}
		return steps[len(steps)-1], nil
	}
	return IonicStep{}, malformed(SectionEnergy, -1, "SelectStep", "no completed ionic step found")
}

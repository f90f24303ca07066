/*
 * builder_test.go, part of mkmkit.
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
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	mkm "github.com/rmera/mkmkit"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func generator() mkm.Generator {
	return mkm.Generator{Version: "test", Generated: time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)}
}

// TestFrequency builds the state for a frequency calculation with pair averaging
// and checks every part of the document.
func TestFrequency(Te *testing.T) {
	opts := DefaultOptions(mkm.Frequency)
	opts.Average = true
	opts.Generator = generator()
	state, err := BuildFile("testdata/OUTCAR_freq", opts)
	if err != nil {
		Te.Fatal(err)
	}
	if state.Structure.Formula != "Ru4C2" {
		Te.Errorf("formula: got %s, want Ru4C2", state.Structure.Formula)
	}
	if state.Structure.NAtoms != 6 {
		Te.Errorf("n_atoms: got %d, want 6", state.Structure.NAtoms)
	}
	wantLat := mkm.Lattice{{2.7, 0, 0}, {-1.35, 2.33826859, 0}, {0, 0, 20}}
	if diff := cmp.Diff(wantLat, state.Structure.Lattice, approx); diff != "" {
		Te.Errorf("lattice (-want +got):\n%s", diff)
	}
	wantDirect := mkm.Coordinates{{0, 0, 0.4}, {0.5, 0, 0.4}, {0, 0, 0.51}, {0.5, 0, 0.51}, {0, 0, 0.325}, {0, 0, 0.585}}
	if diff := cmp.Diff(wantDirect, state.Structure.Direct, approx); diff != "" {
		Te.Errorf("coordinates (-want +got):\n%s", diff)
	}
	if state.Structure.PBC != (mkm.PBC{true, true, true}) {
		Te.Errorf("pbc: got %v", state.Structure.PBC)
	}
	//the undisplaced reference, the first ionic step
	if state.Energy.Electronic != -40.12172839 {
		Te.Errorf("electronic energy: got %v, want -40.12172839", state.Energy.Electronic)
	}
	if state.Energy.Free == nil || *state.Energy.Free != -40.13 {
		Te.Errorf("free energy: got %v, want -40.13", state.Energy.Free)
	}
	if state.Calculation.Code != "VASP" || state.Calculation.Type != mkm.Frequency {
		Te.Errorf("calculation: got %s %s", state.Calculation.Code, state.Calculation.Type)
	}
	if state.Calculation.Version != "vasp.6.3.2" {
		Te.Errorf("code version: got %q, want vasp.6.3.2", state.Calculation.Version)
	}
	wantPot := []string{"PAW_PBE Ru_pv 28Jan2005", "PAW_PBE C 08Apr2002"}
	if diff := cmp.Diff(wantPot, state.Calculation.Potcar); diff != "" {
		Te.Errorf("potcar (-want +got):\n%s", diff)
	}
	vib := state.Vibrations
	if vib == nil {
		Te.Fatal("no vibrations block")
	}
	if !vib.PairsAveraged || vib.PairingNote != "" {
		Te.Errorf("pairs averaged: %v note: %q", vib.PairsAveraged, vib.PairingNote)
	}
	if diff := cmp.Diff(mkm.FloatList{610, 480, 470}, vib.Frequencies, approx); diff != "" {
		Te.Errorf("frequencies (-want +got):\n%s", diff)
	}
	if len(vib.Imaginary) != 0 {
		Te.Errorf("unexpected imaginary modes %v", vib.Imaginary)
	}
	if math.Abs(state.ZPE()-0.0967076748) > 1e-9 {
		Te.Errorf("ZPE: got %v, want 0.0967076748", state.ZPE())
	}
	if vib.Hessian == nil {
		Te.Fatal("no partial Hessian")
	}
	if diff := cmp.Diff([]string{"5X", "5Y", "5Z"}, vib.Hessian.Labels); diff != "" {
		Te.Errorf("Hessian labels (-want +got):\n%s", diff)
	}
	wantH := []mkm.FloatList{{-10.4, 0.1, 0}, {0.1, -10.8, 0}, {0, 0, -25.1}}
	if diff := cmp.Diff(wantH, vib.Hessian.Matrix, approx); diff != "" {
		Te.Errorf("averaged Hessian (-want +got):\n%s", diff)
	}
}

func TestFrequencyNotAveraged(Te *testing.T) {
	state, err := BuildFile("testdata/OUTCAR_freq", DefaultOptions(mkm.Frequency))
	if err != nil {
		Te.Fatal(err)
	}
	vib := state.Vibrations
	if diff := cmp.Diff(mkm.FloatList{610.2, 480.4, 470.6, 609.8, 479.6, 469.4}, vib.Frequencies); diff != "" {
		Te.Errorf("frequencies (-want +got):\n%s", diff)
	}
	if vib.PairsAveraged {
		Te.Errorf("pairs should not be averaged")
	}
	if len(vib.Hessian.Labels) != 6 || len(vib.Hessian.Matrix) != 6 {
		Te.Errorf("expected a 6x6 Hessian, got %d labels and %d rows", len(vib.Hessian.Labels), len(vib.Hessian.Matrix))
	}
	//the row with run-together numbers
	if diff := cmp.Diff(mkm.FloatList{0, 0.3, 0, 0.1, -10.9, 0}, vib.Hessian.Matrix[4]); diff != "" {
		Te.Errorf("Hessian row 6Y (-want +got):\n%s", diff)
	}
}

// TestOptimization uses a log with an appended restart, where the last step of each run was interrupted.
func TestOptimization(Te *testing.T) {
	opts := DefaultOptions(mkm.Optimization)
	opts.Generator = generator()
	state, err := BuildFile("testdata/OUTCAR_opt", opts)
	if err != nil {
		Te.Fatal(err)
	}
	if state.Energy.Electronic != -25.30123456 {
		Te.Errorf("electronic energy: got %v, want -25.30123456", state.Energy.Electronic)
	}
	if state.Vibrations != nil {
		Te.Errorf("optimization states have no vibrations block")
	}
	if state.ZPE() != 0 {
		Te.Errorf("ZPE: got %v, want 0", state.ZPE())
	}
	if state.Structure.Formula != "Ni3C" {
		Te.Errorf("formula: got %s, want Ni3C", state.Structure.Formula)
	}
	wantDirect := mkm.Coordinates{{0, 0, 0.33333333}, {0.5, 0, 0.33333333}, {0, 0.5, 0.33333333}, {0.25, 0.25, 0.41333333}}
	if diff := cmp.Diff(wantDirect, state.Structure.Direct, approx); diff != "" {
		Te.Errorf("coordinates (-want +got):\n%s", diff)
	}
	wantIncar := mkm.Settings{
		{Key: "ENCUT", Value: 450.0},
		{Key: "PREC", Value: "normal"},
		{Key: "EDIFF", Value: 1e-5},
		{Key: "EDIFFG", Value: -0.02},
		{Key: "ISMEAR", Value: 1},
		{Key: "SIGMA", Value: 0.2},
		{Key: "ISPIN", Value: 2},
		{Key: "IBRION", Value: 2},
		{Key: "POTIM", Value: 0.5},
		{Key: "ISIF", Value: 2},
		{Key: "NSW", Value: 100},
		{Key: "LREAL", Value: "Auto"},
		{Key: "GGA", Value: "PE"},
		{Key: "IVDW", Value: 12},
		{Key: "ALGO", Value: "68"},
	}
	if diff := cmp.Diff(wantIncar, state.Calculation.Incar, approx); diff != "" {
		Te.Errorf("incar (-want +got):\n%s", diff)
	}
}

func TestCompressedOutcar(Te *testing.T) {
	raw, err := os.ReadFile("testdata/OUTCAR_opt")
	if err != nil {
		Te.Fatal(err)
	}
	fname := filepath.Join(Te.TempDir(), "OUTCAR.gz")
	err = mkm.WriteFile(fname, func(w io.Writer) error {
		_, err := w.Write(raw)
		return err
	})
	if err != nil {
		Te.Fatal(err)
	}
	state, err := BuildFile(fname, DefaultOptions(mkm.Optimization))
	if err != nil {
		Te.Fatal(err)
	}
	if state.Energy.Electronic != -25.30123456 {
		Te.Errorf("electronic energy: got %v", state.Energy.Electronic)
	}
}

func TestBuildDeterministic(Te *testing.T) {
	opts := DefaultOptions(mkm.Frequency)
	opts.Generator = generator()
	log, err := ReadFile("testdata/OUTCAR_freq")
	if err != nil {
		Te.Fatal(err)
	}
	a, err := Build(log, opts)
	if err != nil {
		Te.Fatal(err)
	}
	b, err := Build(log, opts)
	if err != nil {
		Te.Fatal(err)
	}
	var abuf, bbuf bytes.Buffer
	if err := mkm.EncodeState(&abuf, a); err != nil {
		Te.Fatal(err)
	}
	if err := mkm.EncodeState(&bbuf, b); err != nil {
		Te.Fatal(err)
	}
	if !bytes.Equal(abuf.Bytes(), bbuf.Bytes()) {
		Te.Errorf("two builds encode differently:\n%s\n---\n%s", abuf.String(), bbuf.String())
	}
}

// TestDocumentRoundTrip encodes states built from both logs and decodes them back.
func TestDocumentRoundTrip(Te *testing.T) {
	for _, c := range []struct {
		fname, calctype string
	}{
		{"testdata/OUTCAR_freq", mkm.Frequency},
		{"testdata/OUTCAR_opt", mkm.Optimization},
	} {
		opts := DefaultOptions(c.calctype)
		opts.Average = c.calctype == mkm.Frequency
		opts.Generator = generator()
		want, err := BuildFile(c.fname, opts)
		if err != nil {
			Te.Fatalf("%s: %v", c.fname, err)
		}
		var buf bytes.Buffer
		if err := mkm.EncodeState(&buf, want); err != nil {
			Te.Fatalf("%s: %v", c.fname, err)
		}
		if !bytes.Contains(buf.Bytes(), []byte("version: vasp.6.3.2")) {
			Te.Errorf("%s: code version not in the document", c.fname)
		}
		got, err := mkm.DecodeState(&buf)
		if err != nil {
			Te.Fatalf("%s: %v", c.fname, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			Te.Errorf("%s: round trip mismatch (-want +got):\n%s", c.fname, diff)
		}
	}
}

func TestMissingSections(Te *testing.T) {
	//An optimization log has no frequencies.
	_, err := BuildFile("testdata/OUTCAR_opt", DefaultOptions(mkm.Frequency))
	var e *MalformedLogError
	if !errors.As(err, &e) {
		Te.Fatalf("expected a MalformedLogError, got %v", err)
	}
	if e.Section != SectionFrequencies || e.File != "testdata/OUTCAR_opt" {
		Te.Errorf("got section %s and file %s", e.Section, e.File)
	}
	if len(e.Decorate("")) == 0 {
		Te.Errorf("the error is not decorated")
	}
	_, err = BuildFile("testdata/nothere", DefaultOptions(mkm.Frequency))
	if !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("expected a not-exist error, got %v", err)
	}
}

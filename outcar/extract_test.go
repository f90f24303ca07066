/*
 * extract_test.go, part of mkmkit.
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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	mkm "github.com/rmera/mkmkit"
)

func readString(Te *testing.T, s string) *Log {
	Te.Helper()
	L, err := Read(strings.NewReader(s), "test")
	if err != nil {
		Te.Fatal(err)
	}
	return L
}

func TestSettings(Te *testing.T) {
	L := readString(Te, `   EDIFFG = -.2E-01   stopping-criterion for IOM
   EDIFF  = 0.1E-06   stopping-criterion for ELM
   ISMEAR =     0;   SIGMA  =   0.05  broadening in eV -4-tet -1-fermi 0-gaus
   ENCUT  =  400.0 eV  29.40 Ry
   ENCUT  =  500.0 eV
   NSW    =   many
   PREC   = accurate  normal or accurate
`)
	got := L.Settings(DefaultKeys)
	want := mkm.Settings{
		{Key: "ENCUT", Value: 400.0},
		{Key: "PREC", Value: "accurate"},
		{Key: "EDIFF", Value: 1e-7},
		{Key: "EDIFFG", Value: -0.02},
		{Key: "ISMEAR", Value: 0},
		{Key: "SIGMA", Value: 0.05},
		{Key: "NSW", Value: "many"},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		Te.Errorf("settings (-want +got):\n%s", diff)
	}
	custom := L.Settings(KeysFor([]string{"sigma", "NELM", "EDIFF"}))
	if len(custom) != 2 || custom[0].Key != "SIGMA" || custom[1].Key != "EDIFF" {
		Te.Errorf("custom keys: got %v", custom)
	}
}

func TestKeysFor(Te *testing.T) {
	keys := KeysFor([]string{"encut", " ismear ", "LWAVE"})
	want := []SettingKey{{"ENCUT", FloatKind}, {"ISMEAR", IntKind}, {"LWAVE", StringKind}}
	if diff := cmp.Diff(want, keys); diff != "" {
		Te.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestPotcar(Te *testing.T) {
	L := readString(Te, ` POTCAR:    PAW_PBE Ru_pv 28Jan2005
 POTCAR:    PAW_PBE C 08Apr2002
 POTCAR:    PAW_PBE Ru_pv 28Jan2005
   VRHFIN =Ru: 4p 4d 5s
 POTCAR:    PAW_PBE   C   08Apr2002
`)
	want := []string{"PAW_PBE Ru_pv 28Jan2005", "PAW_PBE C 08Apr2002"}
	if diff := cmp.Diff(want, L.Potcar()); diff != "" {
		Te.Errorf("potcar (-want +got):\n%s", diff)
	}
}

func energyBlock(toten, sigma0 string) string {
	return `  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)
  ---------------------------------------------------
  free  energy   TOTEN  =       ` + toten + ` eV

  energy  without entropy=      -1.00000000  energy(sigma->0) =      ` + sigma0 + `
`
}

func TestIonicSteps(Te *testing.T) {
	log := " vasp.6.3.2 27Jun22\n" +
		energyBlock("-10.1", "-10.5") +
		energyBlock("-11.1", "-11.5") +
		" vasp.6.3.2 27Jun22\n" +
		energyBlock("-12.1", "-12.5") +
		energyBlock("-13.1", "-13.5") +
		"  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)\n  ---------------------------------------------------\n  free  energy   TOTEN  =       -14.1 eV\n"
	L := readString(Te, log)
	if len(L.Runs) != 2 {
		Te.Fatalf("expected 2 runs, got %d", len(L.Runs))
	}
	steps, err := L.IonicSteps(L.Runs[1])
	if err != nil {
		Te.Fatal(err)
	}
	if len(steps) != 2 {
		Te.Fatalf("expected 2 completed steps in the restart, got %d", len(steps))
	}
	opt, err := L.SelectStep(mkm.Optimization)
	if err != nil {
		Te.Fatal(err)
	}
	if opt.Sigma0 != -13.5 || opt.Free != -13.1 {
		Te.Errorf("optimization step: got %+v", opt)
	}
	freq, err := L.SelectStep(mkm.Frequency)
	if err != nil {
		Te.Fatal(err)
	}
	if freq.Sigma0 != -12.5 {
		Te.Errorf("frequency step: got %+v", freq)
	}
	if L.Version() != "vasp.6.3.2" {
		Te.Errorf("version: got %s", L.Version())
	}
}

// A restart that was killed before completing any step leaves the previous run authoritative.
func TestIonicStepsEmptyRestart(Te *testing.T) {
	L := readString(Te, " vasp.6.3.2\n"+energyBlock("-10.1", "-10.5")+" vasp.6.3.2\n  nothing here\n")
	step, err := L.SelectStep(mkm.Optimization)
	if err != nil {
		Te.Fatal(err)
	}
	if step.Sigma0 != -10.5 {
		Te.Errorf("got %v, want -10.5", step.Sigma0)
	}
	L = readString(Te, " vasp.6.3.2\n  nothing here\n")
	_, err = L.SelectStep(mkm.Optimization)
	var e *MalformedLogError
	if !errors.As(err, &e) || e.Section != SectionEnergy {
		Te.Errorf("expected an energy MalformedLogError, got %v", err)
	}
}

func TestFormula(Te *testing.T) {
	cases := []struct {
		species []Species
		want    string
	}{
		{[]Species{{"Ru", 4}, {"C", 2}}, "Ru4C2"},
		{[]Species{{"Ni", 3}, {"C", 1}}, "Ni3C"},
		{[]Species{{"C", 1}, {"O", 1}}, "CO"},
		{[]Species{{"Pt", 9}, {"H", 1}, {"Pt", 3}, {"H", 1}}, "Pt12H2"},
	}
	for _, c := range cases {
		G := &Geometry{Species: c.species}
		if got := G.Formula(); got != c.want {
			Te.Errorf("%v: got %s, want %s", c.species, got, c.want)
		}
	}
}

func TestSpeciesErrors(Te *testing.T) {
	logs := map[string]string{
		"unknown element": "   VRHFIN =Qq: s2\n   ions per type =   1\n",
		"count mismatch":  "   VRHFIN =C: s2p2\n   VRHFIN =O: s2p4\n   ions per type =   1\n",
		"nions":           "   VRHFIN =C: s2p2\n   number of ions     NIONS =      3\n   ions per type =   1\n",
		"no counts":       "   VRHFIN =C: s2p2\n",
		"nothing":         "\n",
	}
	for name, log := range logs {
		_, err := readString(Te, log).Species()
		var e *MalformedLogError
		if !errors.As(err, &e) || e.Section != SectionSpecies {
			Te.Errorf("%s: expected a species MalformedLogError, got %v", name, err)
		}
	}
	//without VRHFIN lines, the symbols come from the POTCAR identifiers
	sp, err := readString(Te, " POTCAR:    PAW_PBE H_h 06May1998\n POTCAR:    PAW_PBE Pt 04Feb2005\n   ions per type =   2  9\n").Species()
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]Species{{"H", 2}, {"Pt", 9}}, sp); diff != "" {
		Te.Errorf("species (-want +got):\n%s", diff)
	}
}

func TestDirectWrapping(Te *testing.T) {
	G := &Geometry{
		Lattice:   mkm.Lattice{{4, 0, 0}, {0, 4, 0}, {0, 0, 10}},
		Cartesian: [][3]float64{{-1, 4, 12}, {2, -0.000000001, 5}, {3.999999999, 0, 0}},
	}
	got, err := G.Direct()
	if err != nil {
		Te.Fatal(err)
	}
	want := mkm.Coordinates{{0.75, 0, 0.2}, {0.5, 0, 0.5}, {0, 0, 0}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		Te.Errorf("direct (-want +got):\n%s", diff)
	}
	for _, row := range got {
		for _, v := range row {
			if v < 0 || v >= 1 {
				Te.Errorf("coordinate %v out of [0,1)", v)
			}
		}
	}
	G.Lattice = mkm.Lattice{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}}
	if _, err := G.Direct(); err == nil {
		Te.Errorf("expected an error for a singular lattice")
	}
}

const modesLog = ` Eigenvectors and eigenvalues of the dynamical matrix
 ----------------------------------------------------


   1 f  =   63.123456 THz   396.6 2PiTHz 2105.600000 cm-1   261.06 meV
             X         Y         Z           dx          dy          dz
      0.000000  0.000000  6.500000            0.000000    0.000000    0.700000

   2 f  =    1.800000 THz    11.3 2PiTHz   60.040000 cm-1     7.44 meV
             X         Y         Z           dx          dy          dz
      0.000000  0.000000  6.500000            0.000000    0.000000    0.700000

   3 f  =    0.060000 THz     0.3 2PiTHz    2.001000 cm-1     0.25 meV
   4 f/i=    9.900000 THz    62.2 2PiTHz  330.230000 cm-1    40.94 meV

 Eigenvectors after division by SQRT(mass)
   1 f  =   63.123456 THz   396.6 2PiTHz 2105.600000 cm-1   261.06 meV
`

func TestModes(Te *testing.T) {
	modes, err := readString(Te, modesLog).Modes()
	if err != nil {
		Te.Fatal(err)
	}
	freqs, imaginary := Split(modes)
	if diff := cmp.Diff([]float64{2105.6, 60.04, 2.001}, freqs); diff != "" {
		Te.Errorf("real modes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{-330.23}, imaginary); diff != "" {
		Te.Errorf("imaginary modes (-want +got):\n%s", diff)
	}
	kept, removed := DefaultModePolicy.Filter(freqs)
	if removed != 1 || len(kept) != 2 {
		Te.Errorf("near-zero filter: kept %v, removed %d", kept, removed)
	}
	//a restarted index also ends the list
	modes, err = readString(Te, strings.Replace(modesLog, " Eigenvectors after division by SQRT(mass)\n", "", 1)).Modes()
	if err != nil {
		Te.Fatal(err)
	}
	if len(modes) != 4 {
		Te.Errorf("expected 4 modes, got %d", len(modes))
	}
}

// TestTransitionState builds a frequency state with one imaginary mode, and checks that it
// is kept apart from the real modes and out of the ZPE.
func TestTransitionState(Te *testing.T) {
	L, err := ReadFile("testdata/OUTCAR_freq")
	if err != nil {
		Te.Fatal(err)
	}
	//turn the last mode into an imaginary one
	for i, line := range L.Lines {
		if strings.HasPrefix(line, "   6 f  =") {
			L.Lines[i] = strings.Replace(line, "   6 f  =", "   6 f/i=", 1)
		}
	}
	state, err := Build(L, DefaultOptions(mkm.Frequency))
	if err != nil {
		Te.Fatal(err)
	}
	vib := state.Vibrations
	if diff := cmp.Diff(mkm.FloatList{-469.4}, vib.Imaginary); diff != "" {
		Te.Errorf("imaginary (-want +got):\n%s", diff)
	}
	if len(vib.Frequencies) != 5 {
		Te.Errorf("expected 5 real modes, got %v", vib.Frequencies)
	}
	if !state.IsTransitionState() {
		Te.Errorf("state should be a transition state")
	}
	want := 0.5 * (610.2 + 480.4 + 470.6 + 609.8 + 479.6) * mkm.EVPerCm1
	if diff := cmp.Diff(want, state.ZPE(), approx); diff != "" {
		Te.Errorf("ZPE (-want +got):\n%s", diff)
	}
	//odd number of real modes: averaging fails unless the TS case is allowed
	opts := DefaultOptions(mkm.Frequency)
	opts.Average = true
	if _, err := Build(L, opts); err == nil {
		Te.Errorf("expected an error averaging 5 real modes")
	}
	opts.Pairs.DropUnpairedTS = true
	//the Hessian has 6 degrees of freedom, which can still be paired
	state, err = Build(L, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(state.Vibrations.PairingNote, "Dropped unpaired real mode (479.600000 cm-1)") {
		Te.Errorf("pairing note: %q", state.Vibrations.PairingNote)
	}
	if len(state.Vibrations.Frequencies) != 2 {
		Te.Errorf("expected 2 averaged modes, got %v", state.Vibrations.Frequencies)
	}
}

func hessianLog(rows ...string) string {
	return " SECOND DERIVATIVES (NOT SYMMETRIZED)\n ------------------------------------\n" +
		"              1X         1Y\n" + strings.Join(rows, "\n") + "\n\n"
}

func TestHessianErrors(Te *testing.T) {
	logs := map[string]string{
		"label mismatch": hessianLog(" 1X   -1.000000   0.100000", " 1Z    0.100000  -1.000000"),
		"short row":      hessianLog(" 1X   -1.000000   0.100000", " 1Y    0.100000"),
		"missing row":    hessianLog(" 1X   -1.000000   0.100000"),
		"extra row":      hessianLog(" 1X   -1.000000   0.100000", " 1Y    0.100000  -1.000000", " 1Z    0.100000  -1.000000"),
		"bad atom":       strings.Replace(hessianLog(" 1X   -1.000000   0.100000", " 3Y    0.100000  -1.000000"), "1Y\n", "3Y\n", 1),
		"bad label":      strings.Replace(hessianLog(" 1X   -1.000000   0.100000", " 1Y    0.100000  -1.000000"), "1Y\n", "1W\n", 1),
	}
	for name, log := range logs {
		_, err := readString(Te, log).Hessian(2)
		var e *MalformedLogError
		if !errors.As(err, &e) || e.Section != SectionHessian {
			Te.Errorf("%s: expected a hessian MalformedLogError, got %v", name, err)
		}
	}
	H, err := readString(Te, hessianLog(" 1X   -1.000000   0.100000", " 1Y    0.100000  -1.000000")).Hessian(2)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([][]float64{{-1, 0.1}, {0.1, -1}}, H.Rows()); diff != "" {
		Te.Errorf("Hessian (-want +got):\n%s", diff)
	}
	H, err = readString(Te, "no Hessian here\n").Hessian(2)
	if H != nil || err != nil {
		Te.Errorf("expected no Hessian and no error, got %v %v", H, err)
	}
}

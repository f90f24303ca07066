/*
 * ped_test.go, part of mkmkit.
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

package ped

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/mkmkit/network"
	"gonum.org/v1/plot/vg"
)

func profile() network.Profile {
	return network.Profile{
		Path: &network.Path{Name: "dissociation"},
		Points: []network.Point{
			{Label: "CO(g) + *"},
			{Label: "CO*", Energy: -1.5, Step: "CO_ads", Kind: network.Ads},
			{Label: "TS", Energy: -0.792, Step: "CO_diss", Kind: network.Surf},
		},
	}
}

func TestRender(Te *testing.T) {
	p, err := Render(profile(), Options{})
	if err != nil {
		Te.Fatal(err)
	}
	if p.Title.Text != "dissociation" {
		Te.Errorf("title: got %q", p.Title.Text)
	}
	if p.Y.Min >= -1.5 || p.Y.Max <= 0 {
		Te.Errorf("y range [%f, %f] does not contain the levels", p.Y.Min, p.Y.Max)
	}
	if p.X.Min != -0.5 || p.X.Max != 2.5 {
		Te.Errorf("x range: got [%f, %f]", p.X.Min, p.X.Max)
	}
	if _, err := Render(network.Profile{}, Options{}); err == nil {
		Te.Errorf("expected an error for an empty profile")
	}
	if got := dashes(network.Ads); got[0] >= dashes(network.Surf)[0] {
		Te.Errorf("ads connectors should be dotted, got %v", got)
	}
}

func TestSave(Te *testing.T) {
	dir := Te.TempDir()
	png := filepath.Join(dir, "ped.png")
	if err := Save(profile(), png, Options{Title: "CO", Width: 8 * vg.Centimeter, Height: 6 * vg.Centimeter}); err != nil {
		Te.Fatal(err)
	}
	data, err := os.ReadFile(png)
	if err != nil {
		Te.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		Te.Errorf("not a PNG file")
	}
	var buf bytes.Buffer
	if err := Write(&buf, "svg", profile(), Options{}); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		Te.Errorf("not an SVG document")
	}
	if err := Save(profile(), filepath.Join(dir, "ped.txt"), Options{}); err == nil {
		Te.Errorf("expected an error for an unsupported format")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		Te.Errorf("expected only the diagram in the directory, got %d entries", len(entries))
	}
}

func TestFormat(Te *testing.T) {
	for name, want := range map[string]string{"a.PNG": "png", "b/c.svg": "svg", "d.pdf": "pdf"} {
		if got, err := Format(name); err != nil || got != want {
			Te.Errorf("%s: got %q %v", name, got, err)
		}
	}
	if _, err := Format("noext"); err == nil {
		Te.Errorf("expected an error for a file without extension")
	}
}

func TestLevelColor(Te *testing.T) {
	first := levelColor(0, 5)
	last := levelColor(4, 5)
	if first == last {
		Te.Errorf("first and last levels have the same color")
	}
	r, _, b, _ := last.RGBA()
	if r <= b {
		Te.Errorf("the last level should be red, got %v", last)
	}
}

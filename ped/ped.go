/*
 * ped.go, part of mkmkit.
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
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	mkm "github.com/rmera/mkmkit"
	"github.com/rmera/mkmkit/network"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Half the width of a level, in x units. Levels are placed at integer x values.
const halfLevel = 0.3

// Options controls the rendering of a diagram. Zero sizes take the defaults.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns a 16x10 cm diagram titled after the path.
func DefaultOptions() Options {
	return Options{Width: 16 * vg.Centimeter, Height: 10 * vg.Centimeter}
}

func (O Options) size() (vg.Length, vg.Length) {
	d := DefaultOptions()
	if O.Width > 0 {
		d.Width = O.Width
	}
	if O.Height > 0 {
		d.Height = O.Height
	}
	return d.Width, d.Height
}

// Formats lists the output formats Save supports, by file extension.
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// Format returns the output format for the file name, or an error if it isn't supported.
func Format(fname string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), "."))
	for _, f := range Formats {
		if ext == f {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported diagram format %q for %s (use one of %s)", ext, fname, strings.Join(Formats, ", "))
}

// Render draws the energy diagram of the profile. Each point is a horizontal level with its energy
// written above it and its label as the x tick. Levels reached through a surf step are joined by
// dashed lines, those reached through an ads step by dotted lines.
func Render(prof network.Profile, O Options) (*plot.Plot, error) {
	if len(prof.Points) == 0 {
		return nil, errors.New("ped: empty profile")
	}
	p := plot.New()
	p.Title.Text = O.Title
	if p.Title.Text == "" && prof.Path != nil {
		p.Title.Text = prof.Path.Name
	}
	p.Y.Label.Text = "Energy (eV)"
	p.Add(plotter.NewGrid())
	labels := make([]string, len(prof.Points))
	annot := plotter.XYLabels{XYs: make(plotter.XYs, len(prof.Points)), Labels: make([]string, len(prof.Points))}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pt := range prof.Points {
		x := float64(i)
		labels[i] = pt.Label
		level, err := plotter.NewLine(plotter.XYs{{X: x - halfLevel, Y: pt.Energy}, {X: x + halfLevel, Y: pt.Energy}})
		if err != nil {
			return nil, fmt.Errorf("ped: level %s: %w", pt.Label, err)
		}
		level.LineStyle.Width = vg.Points(2.5)
		level.LineStyle.Color = levelColor(i, len(prof.Points))
		p.Add(level)
		annot.XYs[i] = plotter.XY{X: x, Y: pt.Energy}
		annot.Labels[i] = fmt.Sprintf("%.2f", pt.Energy)
		lo, hi = math.Min(lo, pt.Energy), math.Max(hi, pt.Energy)
		if i == 0 {
			continue
		}
		prev := prof.Points[i-1]
		conn, err := plotter.NewLine(plotter.XYs{{X: x - 1 + halfLevel, Y: prev.Energy}, {X: x - halfLevel, Y: pt.Energy}})
		if err != nil {
			return nil, fmt.Errorf("ped: connector to %s: %w", pt.Label, err)
		}
		conn.LineStyle.Width = vg.Points(1)
		conn.LineStyle.Color = color.Gray{Y: 80}
		conn.LineStyle.Dashes = dashes(pt.Kind)
		p.Add(conn)
	}
	text, err := plotter.NewLabels(annot)
	if err != nil {
		return nil, fmt.Errorf("ped: annotations: %w", err)
	}
	text.Offset = vg.Point{X: -vg.Points(8), Y: vg.Points(4)}
	p.Add(text)
	p.NominalX(labels...)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	p.Y.Min = lo - 0.1*span
	p.Y.Max = hi + 0.15*span
	p.X.Min = -0.5
	p.X.Max = float64(len(prof.Points)) - 0.5
	return p, nil
}

func dashes(kind network.StepKind) []vg.Length {
	if kind == network.Ads {
		return []vg.Length{vg.Points(1), vg.Points(2)}
	}
	return []vg.Length{vg.Points(5), vg.Points(3)}
}

// Write renders the diagram of the profile to w, in the given format.
func Write(w io.Writer, format string, prof network.Profile, O Options) error {
	p, err := Render(prof, O)
	if err != nil {
		return err
	}
	width, height := O.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("ped: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save renders the diagram of the profile to the file fname, in the format given by its extension.
// The file is replaced only once the diagram has been completely written.
func Save(prof network.Profile, fname string, O Options) error {
	format, err := Format(fname)
	if err != nil {
		return err
	}
	return mkm.WriteFile(fname, func(w io.Writer) error {
		return Write(w, format, prof, O)
	})
}

/*
 * harvest.go, part of mkmkit.
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

package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	mkm "github.com/rmera/mkmkit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	harvestType string
	harvestOut  string
	harvestExt  string
	jobs        int
)

var harvestCmd = &cobra.Command{
	Use:   "harvest DIR...",
	Short: "Convert every OUTCAR under the given directories",
	Long: `Converts every file named OUTCAR* (including compressed ones) found under the
given directories to a state document in OUTDIR. Each document is named after the
directory that contains its OUTCAR, relative to the directory given, with any
suffix of the OUTCAR name appended. Files are converted concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVarP(&harvestType, "type", "t", mkm.Frequency, "Calculation type: frequency (freq) or optimization (opt)")
	harvestCmd.Flags().StringVarP(&harvestOut, "output", "o", "", "Output directory (required)")
	harvestCmd.Flags().StringVar(&harvestExt, "ext", ".yaml", "Extension of the documents written (.yaml, .yaml.gz or .yaml.zst)")
	harvestCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files converted at the same time (default from the configuration)")
	_ = harvestCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(harvestCmd)
}

func calcType(name string) (string, error) {
	switch strings.ToLower(name) {
	case "freq", mkm.Frequency:
		return mkm.Frequency, nil
	case "opt", mkm.Optimization:
		return mkm.Optimization, nil
	}
	return "", fmt.Errorf("unknown calculation type %q (use freq or opt)", name)
}

// harvestJob is an OUTCAR and the document it is converted to.
type harvestJob struct {
	outcar, output string
}

// findOutcars returns the conversion jobs for every OUTCAR under root, sorted by OUTCAR.
func findOutcars(root, outdir, ext string) ([]harvestJob, error) {
	var ret []harvestJob
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), "OUTCAR") {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		name := filepath.Base(root)
		if rel != "." {
			name = strings.ReplaceAll(rel, string(filepath.Separator), "_")
		}
		suffix := strings.Trim(strings.TrimPrefix(mkm.TrimCompression(d.Name()), "OUTCAR"), "._-")
		if suffix != "" {
			name += "_" + suffix
		}
		ret = append(ret, harvestJob{outcar: path, output: filepath.Join(outdir, name+ext)})
		return nil
	})
	sort.Slice(ret, func(i, j int) bool { return ret[i].outcar < ret[j].outcar })
	return ret, err
}

func runHarvest(cmd *cobra.Command, args []string) error {
	calctype, err := calcType(harvestType)
	if err != nil {
		return err
	}
	opts, err := convertOptions(cmd, calctype)
	if err != nil {
		return err
	}
	var todo []harvestJob
	outputs := make(map[string]string)
	for _, dir := range args {
		found, err := findOutcars(dir, harvestOut, harvestExt)
		if err != nil {
			return err
		}
		for _, j := range found {
			if prev, ok := outputs[j.output]; ok {
				return fmt.Errorf("%s and %s would both be written to %s", prev, j.outcar, j.output)
			}
			outputs[j.output] = j.outcar
		}
		todo = append(todo, found...)
	}
	if len(todo) == 0 {
		return fmt.Errorf("no OUTCAR files found in %s", strings.Join(args, ", "))
	}
	n := jobs
	if n <= 0 {
		n = cfg.Jobs
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for _, j := range todo {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			state, err := convert(j.outcar, j.output, opts)
			if err != nil {
				return err
			}
			logger.Info("state document written", zap.String("file", j.outcar), zap.String("output", j.output),
				zap.String("formula", state.Structure.Formula))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d state documents written to %s\n", len(todo), harvestOut)
	return nil
}

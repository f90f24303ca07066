/*
 * convert.go, part of mkmkit.
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
	"fmt"
	"os"
	"path/filepath"
	"time"

	mkm "github.com/rmera/mkmkit"
	"github.com/rmera/mkmkit/outcar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	output         string
	averagePairs   bool
	pairScheme     string
	tsDropUnpaired bool
)

var freqCmd = &cobra.Command{
	Use:   "freq2yaml OUTCAR",
	Short: "Convert a frequency calculation OUTCAR to a state document",
	Long: `Converts the OUTCAR of a VASP frequency calculation to a YAML state document.
The energy is taken from the first ionic step. With --average-pairs, the modes of a
symmetric two-sided slab are averaged in pairs, as is the partial Hessian.

The output is compressed if its name ends in .gz or .zst.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0], mkm.Frequency)
	},
}

var optCmd = &cobra.Command{
	Use:   "opt2yaml OUTCAR",
	Short: "Convert an optimization OUTCAR to a state document",
	Long: `Converts the OUTCAR of a VASP optimization to a YAML state document, using the
last completed ionic step.

The output is compressed if its name ends in .gz or .zst.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0], mkm.Optimization)
	},
}

func init() {
	for _, c := range []*cobra.Command{freqCmd, optCmd} {
		c.Flags().StringVarP(&output, "output", "o", "", "Output YAML file (required)")
		_ = c.MarkFlagRequired("output")
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{freqCmd, harvestCmd} {
		c.Flags().BoolVar(&averagePairs, "average-pairs", false, "Average the modes in pairs. Use for two identical adsorbates on a symmetric slab")
		c.Flags().StringVar(&pairScheme, "pair-scheme", "", "Pairing of modes: halves or sequential (default from the configuration, else halves)")
		c.Flags().BoolVar(&tsDropUnpaired, "ts-drop-unpaired", false, "With one imaginary mode and an odd number of real modes, drop the last real mode before averaging")
	}
}

// convertOptions returns the conversion options from the configuration, with the flags
// of cmd applied over it.
func convertOptions(cmd *cobra.Command, calctype string) (outcar.Options, error) {
	opts, err := cfg.Options(calctype)
	if err != nil {
		return opts, err
	}
	if calctype == mkm.Frequency {
		opts.Average = averagePairs
		if cmd.Flags().Changed("pair-scheme") {
			if opts.Pairs.Scheme, err = outcar.ParsePairScheme(pairScheme); err != nil {
				return opts, err
			}
		}
		if cmd.Flags().Changed("ts-drop-unpaired") {
			opts.Pairs.DropUnpairedTS = tsDropUnpaired
		}
	}
	opts.Generator = mkm.Generator{Version: mkm.Version, Generated: time.Now().UTC().Truncate(time.Second)}
	opts.Logger = logger
	return opts, nil
}

// convert builds the state document for the OUTCAR in fname and writes it to out, creating
// its directory if needed.
func convert(fname, out string, opts outcar.Options) (*mkm.State, error) {
	state, err := outcar.BuildFile(fname, opts)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if err := mkm.WriteState(out, state); err != nil {
		return nil, err
	}
	return state, nil
}

func runConvert(cmd *cobra.Command, fname, calctype string) error {
	opts, err := convertOptions(cmd, calctype)
	if err != nil {
		return err
	}
	state, err := convert(fname, output, opts)
	if err != nil {
		return err
	}
	logger.Info("state document written", zap.String("file", fname), zap.String("output", output),
		zap.String("formula", state.Structure.Formula), zap.Float64("electronic", state.Energy.Electronic))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "YAML written to: %s\n", output)
	if opts.Average {
		fmt.Fprintf(out, "Mode pairs averaged (%s).\n", opts.Pairs.Scheme)
	}
	if v := state.Vibrations; v != nil && v.PairingNote != "" {
		fmt.Fprintln(out, v.PairingNote)
	}
	return nil
}

/*
 * networkcmd.go, part of mkmkit.
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
	"io"
	"strings"

	mkm "github.com/rmera/mkmkit"
	"github.com/rmera/mkmkit/network"
	"github.com/rmera/mkmkit/ped"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	equations bool
	unit      string
)

// energyUnit returns the factor that converts eV into the named unit.
func energyUnit(name string) (float64, error) {
	switch name {
	case "eV":
		return 1, nil
	case "kJ/mol":
		return mkm.EV2KJ, nil
	case "kcal/mol":
		return mkm.EV2Kcal, nil
	}
	return 0, fmt.Errorf("unknown energy unit %q, use eV, kJ/mol or kcal/mol", name)
}

var readNetworkCmd = &cobra.Command{
	Use:   "read_network NETWORK",
	Short: "Print the barriers and adsorption heats of every step of a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scale, err := energyUnit(unit)
		if err != nil {
			return err
		}
		N, err := loadNetwork(args[0])
		if err != nil {
			return err
		}
		printSteps(cmd.OutOrStdout(), N.Evaluate(), equations, scale)
		return nil
	},
}

var evaluatePathsCmd = &cobra.Command{
	Use:   "evaluate_paths NETWORK",
	Short: "Print the total reaction energy of every path of a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scale, err := energyUnit(unit)
		if err != nil {
			return err
		}
		N, err := loadNetwork(args[0])
		if err != nil {
			return err
		}
		totals, err := N.EvaluatePaths()
		if err != nil {
			return err
		}
		for _, t := range totals {
			fmt.Fprintf(cmd.OutOrStdout(), "Path %s: %.6f %s\n", t.Path.Name, t.Total*scale, unit)
		}
		return nil
	},
}

var buildPEDCmd = &cobra.Command{
	Use:   "build_ped NETWORK PATH [OUTPUT]",
	Short: "Build the potential energy diagram of a path",
	Long: `Builds the potential energy diagram of the named path. The format of OUTPUT
is given by its extension (png, svg, pdf, eps, jpg or tif). Without OUTPUT, the
energy profile is printed instead.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		N, err := loadNetwork(args[0])
		if err != nil {
			return err
		}
		prof, err := N.Profile(args[1])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			printProfile(cmd.OutOrStdout(), prof)
			return nil
		}
		if err := ped.Save(prof, args[2], cfg.PEDOptions()); err != nil {
			return err
		}
		logger.Info("diagram written", zap.String("path", args[1]), zap.String("output", args[2]))
		fmt.Fprintf(cmd.OutOrStdout(), "PED written to: %s\n", args[2])
		return nil
	},
}

func init() {
	readNetworkCmd.Flags().BoolVar(&equations, "equations", false, "Also print the equation of each energy and the net reaction energy")
	for _, c := range []*cobra.Command{readNetworkCmd, evaluatePathsCmd} {
		c.Flags().StringVar(&unit, "unit", "eV", "Energy unit of the output: eV, kJ/mol or kcal/mol")
	}
	rootCmd.AddCommand(readNetworkCmd, evaluatePathsCmd, buildPEDCmd)
}

// loadNetwork loads the network in fname. It warns about stable states no step links
// to others, and about networks split in more than one connected part.
func loadNetwork(fname string) (*network.Network, error) {
	N, err := network.LoadOptions{Logger: logger}.Load(fname)
	if err != nil {
		return nil, err
	}
	if comps := N.Components(); len(comps) > 1 {
		parts := make([]string, 0, len(comps))
		for _, c := range comps {
			parts = append(parts, strings.Join(c, ","))
		}
		logger.Warn("network is not connected", zap.String("network", fname), zap.Int("components", len(comps)), zap.Strings("parts", parts))
	}
	for _, name := range N.Islands() {
		logger.Warn("stable state not linked to others by any step", zap.String("state", name), zap.String("network", fname))
	}
	return N, nil
}

// printDirection prints the energies of d, multiplied by scale. Equations are always in eV.
func printDirection(w io.Writer, title string, d *network.Direction, eq bool, scale float64) {
	fmt.Fprintf(w, "  %s: %.6f %s (inc. ZPE-corr: %.6f)\n", title, d.Total*scale, unit, d.ZPE*scale)
	if eq {
		fmt.Fprintf(w, "    %s\n", d.Equation)
	}
}

func printSteps(w io.Writer, results []network.StepResult, eq bool, scale float64) {
	for _, r := range results {
		fmt.Fprintf(w, "Reaction: %s\n", r.Step.Reaction)
		if r.Step.Kind == network.Ads {
			printDirection(w, "Adsorption heat", r.Adsorption, eq, scale)
			continue
		}
		printDirection(w, "Forward barrier", r.Forward, eq, scale)
		printDirection(w, "Reverse barrier", r.Reverse, eq, scale)
		if eq {
			fmt.Fprintf(w, "  Net reaction energy: %.6f %s\n", r.NetEnergy()*scale, unit)
		}
	}
}

func printProfile(w io.Writer, prof network.Profile) {
	fmt.Fprintf(w, "Path %s\n", prof.Path.Name)
	for _, p := range prof.Points {
		step := "-"
		if p.Step != "" {
			step = p.Step + " (" + p.Kind.String() + ")"
		}
		fmt.Fprintf(w, "%-20s %12.6f  %s\n", p.Label, p.Energy, step)
	}
}

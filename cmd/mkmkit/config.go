/*
 * config.go, part of mkmkit.
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
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rmera/mkmkit/outcar"
	"github.com/rmera/mkmkit/ped"
	"gonum.org/v1/plot/vg"
)

// ConfigEnv names the environment variable with the configuration file, used when
// --config is not given. It can also be set in a .env file in the working directory.
const ConfigEnv = "MKMKIT_CONFIG"

// PEDConfig holds the diagram settings. Sizes are in cm.
type PEDConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Title  string  `toml:"title"`
}

// Config holds the settings read from the configuration file.
type Config struct {
	NearZero       float64   `toml:"near_zero_cm"`
	PairScheme     string    `toml:"pair_scheme"`
	TSDropUnpaired bool      `toml:"ts_drop_unpaired"`
	IncarKeys      []string  `toml:"incar_keys"`
	Jobs           int       `toml:"jobs"`
	PED            PEDConfig `toml:"ped"`
}

// DefaultConfig returns the settings used when no configuration file is given.
func DefaultConfig() Config {
	return Config{
		NearZero:   outcar.DefaultModePolicy.NearZero,
		PairScheme: outcar.Halves.String(),
		Jobs:       4,
		PED:        PEDConfig{Width: 16, Height: 10},
	}
}

// LoadConfig reads the configuration file fname over the defaults. If fname is empty, the
// file named by ConfigEnv is used, if any. A .env file is loaded first, without
// overriding variables already set.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}
	if fname == "" {
		fname = os.Getenv(ConfigEnv)
	}
	if fname == "" {
		return cfg, nil
	}
	cont, err := os.ReadFile(fname)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(cont, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", fname, err)
	}
	if _, err := outcar.ParsePairScheme(cfg.PairScheme); err != nil {
		return cfg, fmt.Errorf("config %s: %w", fname, err)
	}
	if cfg.NearZero < 0 {
		return cfg, fmt.Errorf("config %s: near_zero_cm must not be negative", fname)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg, nil
}

// Options returns the conversion options for the calculation type.
func (C Config) Options(calctype string) (outcar.Options, error) {
	opts := outcar.DefaultOptions(calctype)
	opts.Modes = outcar.ModePolicy{NearZero: C.NearZero}
	scheme, err := outcar.ParsePairScheme(C.PairScheme)
	if err != nil {
		return opts, err
	}
	opts.Pairs = outcar.PairPolicy{Scheme: scheme, DropUnpairedTS: C.TSDropUnpaired}
	if len(C.IncarKeys) > 0 {
		opts.Keys = outcar.KeysFor(C.IncarKeys)
	}
	return opts, nil
}

// PEDOptions returns the diagram options.
func (C Config) PEDOptions() ped.Options {
	return ped.Options{
		Title:  C.PED.Title,
		Width:  vg.Length(C.PED.Width) * vg.Centimeter,
		Height: vg.Length(C.PED.Height) * vg.Centimeter,
	}
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads psfreq's optional configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds defaults that command-line flags override.
type Config struct {
	// SysfsRoot is where sysfs is mounted. Tests and containers point
	// it elsewhere.
	SysfsRoot string `json:"sysfsRoot,omitempty"`
	Color     string `json:"color,omitempty"`
	// Verbosity is -1 for quiet, 0 for normal, 1 or more for debug.
	Verbosity int `json:"verbosity,omitempty"`
	// DefaultPlan is applied by "set" when no other setting is given.
	DefaultPlan string `json:"defaultPlan,omitempty"`
}

func Default() *Config {
	return &Config{
		SysfsRoot: "/sys",
		Color:     ColorAuto,
	}
}

// Paths returns the locations searched for a config file, in order.
func Paths() []string {
	paths := []string{"/etc/psfreq.yaml"}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "psfreq.yaml"))
	}
	return paths
}

// Load reads the first of paths that exists, on top of Default. It
// returns the path it used, or "" if none existed.
func Load(paths ...string) (*Config, string, error) {
	cfg := Default()
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, p, errors.Wrap(err, "reading config")
		}
		if err := yaml.Unmarshal(data, cfg, yaml.DisallowUnknownFields); err != nil {
			return nil, p, errors.Wrapf(err, "parsing %s", p)
		}
		if err := cfg.Validate(); err != nil {
			return nil, p, errors.Wrapf(err, "%s", p)
		}
		return cfg, p, nil
	}
	return cfg, "", nil
}

func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.SysfsRoot == "" {
		return errors.New("sysfsRoot must not be empty")
	}
	return nil
}

// UseColor resolves the color mode given whether stdout is a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return terminal
}

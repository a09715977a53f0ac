// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command psfreq reads and sets Linux CPU frequency scaling through
// sysfs.
//
// Typical uses:
//
//	psfreq get                 # configured governor, bounds and turbo
//	psfreq get --real          # current frequency of every CPU
//	sudo psfreq set -p performance
//	sudo psfreq set -g powersave -n 20 -m 80% -t off
//	psfreq export --textfile /var/lib/node_exporter/psfreq.prom
//
// Frequencies are a percentage of the hardware range ("20" or "20%")
// or absolute ("1360MHz", "1360000kHz"). Writes go to every CPU in
// order; if one fails, psfreq reports how many CPUs were already
// changed and does not undo them.
//
// Defaults can be set in /etc/psfreq.yaml or ~/.config/psfreq.yaml:
//
//	sysfsRoot: /sys
//	color: auto        # auto, always or never
//	verbosity: 0       # -1 quiet, 1 debug
//	defaultPlan: auto  # used by a bare "psfreq set"
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aclements/psfreq/internal/config"
	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/aclements/psfreq/internal/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var version = "devel"

func main() {
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background())
	if err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(int(ee))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// exitError is returned by commands that have already reported their
// failure.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type globalFlags struct {
	configPath string
	sysfsRoot  string
	color      string
	debug      int
	quiet      int
}

// env is what every subcommand needs once flags and config are merged.
type env struct {
	cfg    *config.Config
	lg     *zap.SugaredLogger
	acc    *cpupower.Sysfs
	out    *output.Printer
	errOut *output.Printer
	stdout io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "psfreq",
		Short:         "Query and set CPU frequency scaling",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "read defaults from `file` instead of the standard locations")
	pf.StringVar(&g.sysfsRoot, "sysfs-root", "", "sysfs mount `point` (default /sys)")
	pf.StringVar(&g.color, "color", "", "colorize output: auto, always or never")
	pf.CountVarP(&g.debug, "debug", "d", "print debugging messages (repeatable)")
	pf.CountVarP(&g.quiet, "quiet", "q", "suppress non-error output (repeatable)")

	setup := func() (*env, error) {
		return g.env(stdout, stderr)
	}
	root.AddCommand(
		newGetCmd(setup),
		newSetCmd(setup),
		newExportCmd(setup),
		newPlansCmd(stdout),
	)
	return root
}

func (g *globalFlags) env(stdout, stderr io.Writer) (*env, error) {
	paths := config.Paths()
	if g.configPath != "" {
		if _, err := os.Stat(g.configPath); err != nil {
			return nil, errors.Wrap(err, "config")
		}
		paths = []string{g.configPath}
	}
	cfg, used, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	if g.sysfsRoot != "" {
		cfg.SysfsRoot = g.sysfsRoot
	}
	if g.color != "" {
		cfg.Color = g.color
	}
	cfg.Verbosity += g.debug - g.quiet
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	color := cfg.UseColor(term.IsTerminal(int(os.Stdout.Fd())))
	lg, err := newLogger(cfg.Verbosity, color)
	if err != nil {
		return nil, errors.Wrap(err, "logger")
	}
	if used != "" {
		lg.Debugw("Loaded config", "path", used)
	}

	ocfg := output.Config{Color: color, Verbosity: cfg.Verbosity}
	return &env{
		cfg:    cfg,
		lg:     lg,
		acc:    cpupower.NewSysfs(cfg.SysfsRoot),
		out:    output.NewPrinter(stdout, ocfg),
		errOut: output.NewPrinter(stderr, ocfg),
		stdout: stdout,
	}, nil
}

func (e *env) model() (*cpupower.Model, error) {
	m, err := cpupower.New(e.acc, cpupower.WithLogger(e.lg))
	if err != nil {
		return nil, e.fail(err)
	}
	return m, nil
}

// fail reports err on stderr and returns the exit status to use.
func (e *env) fail(err error) error {
	e.lg.Debugw("Command failed", zap.Error(err))
	e.errOut.Result(cpupower.ResultOf(err))
	return exitError(1)
}

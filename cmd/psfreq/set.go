// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/aclements/psfreq/internal/plan"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type setFlags struct {
	plan     string
	governor string
	min, max string
	turbo    string
	delay    time.Duration
}

// request parses the flags. Parse errors are validation failures, so
// nothing has been written when they are reported.
func (f *setFlags) request() (*plan.Request, error) {
	r := &plan.Request{Plan: f.plan, Governor: f.governor}
	var err error
	if f.min != "" {
		if r.Min, err = plan.ParseFreq(f.min); err != nil {
			return nil, errors.Wrap(err, "min")
		}
	}
	if f.max != "" {
		if r.Max, err = plan.ParseFreq(f.max); err != nil {
			return nil, errors.Wrap(err, "max")
		}
	}
	if f.turbo != "" {
		t, err := cpupower.ParseTurbo(f.turbo)
		if err != nil {
			return nil, err
		}
		r.Turbo = &t
	}
	return r, nil
}

func newSetCmd(setup func() (*env, error)) *cobra.Command {
	f := &setFlags{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the governor, frequency bounds, turbo state or a plan (requires root)",
		Long: `Set changes every CPU's scaling settings.

A plan (-p) supplies a governor, bounds and turbo state; any of -g, -n, -m
and -t given alongside it take precedence. Plans: powersave (1),
performance (2), max-performance (3) and auto (0), which picks performance
on AC power and powersave on battery.

The governor is written first, then the bounds, then turbo. If a write
fails, the settings after it are not attempted and CPUs that were already
changed stay changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			req, err := f.request()
			if err != nil {
				return e.fail(err)
			}
			if req.Empty() {
				if e.cfg.DefaultPlan == "" {
					return errors.New("nothing to set; give a plan or a setting")
				}
				req.Plan = e.cfg.DefaultPlan
			}
			if f.delay > 0 {
				e.lg.Infow("Delaying", "delay", f.delay)
				time.Sleep(f.delay)
			}

			m, err := e.model()
			if err != nil {
				return err
			}
			e.lg.Debugw("Applying", "request", req)

			release := holdSignals()
			defer release()
			err = plan.Execute(m, req, hasWritePrivilege(), plan.Resolver(e.acc))
			if err != nil {
				return e.fail(err)
			}

			e.out.Result(cpupower.ResultOf(nil))
			snap, err := m.Snapshot()
			if err != nil {
				return e.fail(err)
			}
			e.out.Current(snap)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.plan, "plan", "p", "", "apply a predefined `plan`")
	fl.StringVarP(&f.governor, "governor", "g", "", "set the scaling `governor`")
	fl.StringVarP(&f.min, "min", "n", "", "set the minimum `frequency` (percent, or with kHz/MHz/GHz)")
	fl.StringVarP(&f.max, "max", "m", "", "set the maximum `frequency` (percent, or with kHz/MHz/GHz)")
	fl.StringVarP(&f.turbo, "turbo", "t", "", "turn turbo boost on or off")
	fl.DurationVar(&f.delay, "delay", 0, "wait this long before changing anything")
	fl.Lookup("delay").NoOptDefVal = "5s"
	return cmd
}

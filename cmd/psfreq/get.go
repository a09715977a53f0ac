// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/aclements/psfreq/internal/output"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGetCmd(setup func() (*env, error)) *cobra.Command {
	var current, realtime bool
	var format string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the configured scaling state or the real-time frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			m, err := e.model()
			if err != nil {
				return err
			}
			if !realtime {
				current = true
			}

			var snap *cpupower.Snapshot
			if current {
				if snap, err = m.Snapshot(); err != nil {
					return e.fail(err)
				}
				if err := m.CheckUniform(); cpupower.IsKind(err, cpupower.Divergent) {
					e.errOut.Warn("%v; showing cpu%d", err, m.CPUs()[0])
				} else if err != nil {
					e.lg.Debugw("Could not compare CPU policies", zap.Error(err))
				}
			}
			var freqs []int
			if realtime {
				freqs = m.RealFrequencies()
			}

			if format != output.FormatText {
				return output.NewReport(snap, m.CPUs(), freqs).Write(e.stdout, format)
			}
			e.out.Header(version, cpuModel(cmd.Context(), e))
			if snap != nil {
				e.out.Current(snap)
			}
			if freqs != nil {
				e.out.Real(m.CPUs(), freqs)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&current, "current", "c", false, "show the configured governor, bounds and turbo state (default)")
	f.BoolVarP(&realtime, "real", "r", false, "show the real-time frequency of every CPU")
	f.StringVarP(&format, "output", "o", output.FormatText, "output format: text, json or yaml")
	return cmd
}

// cpuModel returns the processor model name for the header. It is only
// looked up when debugging, since the header omits it otherwise.
func cpuModel(ctx context.Context, e *env) string {
	if e.cfg.Verbosity < output.Debug {
		return ""
	}
	info, err := cpu.InfoWithContext(ctx)
	if err != nil || len(info) == 0 {
		e.lg.Debugw("No CPU model information", zap.Error(err))
		return ""
	}
	return info[0].ModelName
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/aclements/psfreq/internal/output"
	"github.com/spf13/cobra"
)

func newExportCmd(setup func() (*env, error)) *cobra.Command {
	var textfile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the scaling state as Prometheus metrics",
		Long: `Export writes the scaling state and the real-time frequency of every CPU
in the Prometheus text format, for the node_exporter textfile collector.
The file is replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			m, err := e.model()
			if err != nil {
				return err
			}
			snap, err := m.Snapshot()
			if err != nil {
				return e.fail(err)
			}
			if err := output.WriteTextfile(textfile, snap, m.CPUs(), m.RealFrequencies()); err != nil {
				return err
			}
			e.lg.Debugw("Wrote metrics", "path", textfile)
			return nil
		},
	}
	cmd.Flags().StringVar(&textfile, "textfile", "", "write metrics to `file`")
	cmd.MarkFlagRequired("textfile")
	return cmd
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aclements/psfreq/internal/plan"
	"github.com/spf13/cobra"
)

func newPlansCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the plans accepted by set -p",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGOVERNOR\tMIN\tMAX\tTURBO")
			for _, name := range plan.Names() {
				p, err := plan.Resolve(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d%%\t%d%%\t%s\n", p.Name, p.Governor, p.MinPercent, p.MaxPercent, p.Turbo)
			}
			fmt.Fprintf(tw, "%s\t(performance on AC power, powersave on battery)\n", plan.AutoName)
			return tw.Flush()
		},
	}
}

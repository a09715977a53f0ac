// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output renders CPU frequency state for people.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/morikuni/aec"
)

// Verbosity levels. Quiet suppresses everything but errors.
const (
	Quiet  = -1
	Normal = 0
	Debug  = 1
)

// Config controls presentation. It is passed explicitly to every
// Printer; there is no package-level state.
type Config struct {
	Color     bool
	Verbosity int
}

// Printer writes human-readable reports.
type Printer struct {
	w   io.Writer
	cfg Config
}

func NewPrinter(w io.Writer, cfg Config) *Printer {
	return &Printer{w: w, cfg: cfg}
}

func (p *Printer) paint(c aec.ANSI, s string) string {
	if !p.cfg.Color {
		return s
	}
	return c.Apply(s)
}

func (p *Printer) line(format string, args ...interface{}) {
	if p.cfg.Verbosity <= Quiet {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) field(name, value string) {
	p.line("    %s%s-> %s",
		p.paint(aec.GreenF, "pstate::"),
		p.paint(aec.BlueF, fmt.Sprintf("%-13s", name)),
		p.paint(aec.CyanF, value))
}

// Header prints the program name and version, and the CPU model if
// known.
func (p *Printer) Header(version, model string) {
	p.line("%s", p.paint(aec.BlueF, "psfreq "+version))
	if model != "" && p.cfg.Verbosity >= Debug {
		p.line("    %s", model)
	}
}

// Current prints the configured scaling state.
func (p *Printer) Current(s *cpupower.Snapshot) {
	p.field("CPU_DRIVER", s.Driver)
	p.field("CPU_GOVERNOR", s.Governor)
	p.field("TURBO", s.Turbo.String())
	p.field("CPU_MIN", freq(s.MinPercent, s.ScalingMinKHz))
	p.field("CPU_MAX", freq(s.MaxPercent, s.ScalingMaxKHz))
}

func freq(pct func() (int, error), khz int) string {
	n, err := pct()
	if err != nil {
		return fmt.Sprintf("? [%dKHz]", khz)
	}
	return fmt.Sprintf("%d%% [%dKHz]", n, khz)
}

// Real prints one line per CPU with its current frequency in MHz.
// cpus gives the CPU number for each entry of freqs.
func (p *Printer) Real(cpus, freqs []int) {
	for i, f := range freqs {
		v := "unavailable"
		if f != cpupower.Unavailable {
			v = fmt.Sprintf("%dMHz", f/1000)
		}
		p.line("    %s%s   -> %s",
			p.paint(aec.GreenF, "pstate::"),
			p.paint(aec.BlueF, fmt.Sprintf("CPU[%d]", cpus[i])),
			p.paint(aec.CyanF, v))
	}
}

// Result reports the outcome of a set action. Failures are always
// printed, even when quiet.
func (p *Printer) Result(r cpupower.Result) {
	switch r.Status {
	case cpupower.Success:
		p.line("%s", p.paint(aec.GreenF, "Values successfully set"))
		return
	case cpupower.PartialFailure:
		fmt.Fprintf(p.w, "%s %s: %v\n", p.paint(aec.YellowF, "[partial]"), partial(r), r.Err)
	case cpupower.ValidationFailure:
		fmt.Fprintf(p.w, "%s %s: %v\n", p.paint(aec.RedF, "[invalid]"), r.Kind, r.Err)
	default:
		fmt.Fprintf(p.w, "%s %v\n", p.paint(aec.RedF, "[error]"), r.Err)
	}
}

// partial describes what a partial failure already changed, e.g.
// "governor applied, 2 CPU(s) changed before frequency range failed on
// cpu2".
func partial(r cpupower.Result) string {
	var done []string
	if len(r.Steps) > 0 {
		done = append(done, strings.Join(r.Steps, " and ")+" applied")
	}
	if r.Completed > 0 {
		done = append(done, fmt.Sprintf("%d CPU(s) changed", r.Completed))
	}
	if r.CoreChanged {
		done = append(done, fmt.Sprintf("cpu%d partly changed", r.Core))
	}
	msg := strings.Join(done, ", ") + " before "
	switch {
	case r.Step != "" && r.Core >= 0:
		msg += fmt.Sprintf("%s failed on cpu%d", r.Step, r.Core)
	case r.Step != "":
		msg += r.Step + " failed"
	default:
		msg += fmt.Sprintf("cpu%d failed", r.Core)
	}
	return msg
}

// Warn prints a non-fatal problem unless quiet.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line("%s "+format, append([]interface{}{p.paint(aec.YellowF, "[warning]")}, args...)...)
}

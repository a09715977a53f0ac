// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"fmt"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/pkg/errors"
)

// Request is a set action. Nil fields are left unchanged. If Plan is
// set it supplies every field the request doesn't give explicitly.
type Request struct {
	Plan     string
	Governor string
	Min, Max *FreqValue
	Turbo    *cpupower.TurboState
}

// Empty reports whether r would change nothing.
func (r *Request) Empty() bool {
	return r.Plan == "" && r.Governor == "" && r.Min == nil && r.Max == nil && r.Turbo == nil
}

// Resolved is a request reduced to concrete values. Zero fields (empty
// governor, zero bounds, nil turbo) are left unchanged.
type Resolved struct {
	Governor       string
	MinKHz, MaxKHz int
	Turbo          *cpupower.TurboState
}

// Resolve turns r into concrete values against the current state of m.
// planFor looks up r.Plan by name.
func (r *Request) Resolve(m *cpupower.Model, planFor func(string) (Plan, error)) (*Resolved, error) {
	gov, min, max, turbo := r.Governor, r.Min, r.Max, r.Turbo
	if r.Plan != "" {
		p, err := planFor(r.Plan)
		if err != nil {
			return nil, err
		}
		if gov == "" {
			gov = p.Governor
		}
		if min == nil {
			min = Percent(p.MinPercent)
		}
		if max == nil {
			max = Percent(p.MaxPercent)
		}
		if turbo == nil {
			t := p.Turbo
			turbo = &t
		}
	}

	if turbo != nil && *turbo != cpupower.TurboEnabled && *turbo != cpupower.TurboDisabled {
		return nil, &cpupower.Error{Kind: cpupower.OutOfRange, Msg: "turbo must be on or off"}
	}

	res := &Resolved{Governor: gov, Turbo: turbo}
	if min == nil && max == nil {
		return res, nil
	}

	// One bound alone keeps the other at its current setting.
	lo, hi := m.HardwareRange()
	var cur *cpupower.Snapshot
	if min == nil || max == nil {
		var err error
		if cur, err = m.Snapshot(); err != nil {
			return nil, err
		}
	}
	var err error
	if min != nil {
		if res.MinKHz, err = min.Resolve(lo, hi); err != nil {
			return nil, errors.Wrap(err, "min")
		}
	} else {
		res.MinKHz = cur.ScalingMinKHz
	}
	if max != nil {
		if res.MaxKHz, err = max.Resolve(lo, hi); err != nil {
			return nil, errors.Wrap(err, "max")
		}
	} else {
		res.MaxKHz = cur.ScalingMaxKHz
	}
	if res.MinKHz < lo || res.MinKHz > res.MaxKHz || res.MaxKHz > hi {
		return nil, &cpupower.Error{Kind: cpupower.InvalidBounds,
			Msg: fmt.Sprintf("need %d <= min %d <= max %d <= %d kHz", lo, res.MinKHz, res.MaxKHz, hi)}
	}
	return res, nil
}

// Execute applies r to m. Nothing is written unless privileged is set
// and the whole request validates. Writes go governor, range, turbo and
// stop at the first failure. A failure after some writes landed is a
// *cpupower.StepError naming the steps already applied, so that
// cpupower.ResultOf reports it as a partial failure.
func Execute(m *cpupower.Model, r *Request, privileged bool, planFor func(string) (Plan, error)) error {
	if !privileged {
		return &cpupower.Error{Kind: cpupower.PermissionDenied, Msg: "setting CPU frequencies requires root"}
	}
	if planFor == nil {
		planFor = Resolve
	}
	res, err := r.Resolve(m, planFor)
	if err != nil {
		return err
	}
	return res.apply(m)
}

// Step names reported in *cpupower.StepError.
const (
	StepGovernor = "governor"
	StepRange    = "frequency range"
	StepTurbo    = "turbo"
)

func (res *Resolved) apply(m *cpupower.Model) error {
	// SetGovernor and SetRange validate their own input, but turbo
	// comes last, so find out now whether the host has it.
	if res.Turbo != nil {
		if _, err := m.Turbo(); err != nil {
			return errors.Wrap(err, StepTurbo)
		}
	}

	var done []string
	step := func(name string, set func() error) error {
		if err := set(); err != nil {
			return &cpupower.StepError{Done: done, Step: name, Err: err}
		}
		done = append(done, name)
		return nil
	}
	if res.Governor != "" {
		if err := step(StepGovernor, func() error { return m.SetGovernor(res.Governor) }); err != nil {
			return err
		}
	}
	if res.MinKHz != 0 || res.MaxKHz != 0 {
		if err := step(StepRange, func() error { return m.SetRange(res.MinKHz, res.MaxKHz) }); err != nil {
			return err
		}
	}
	if res.Turbo != nil {
		if err := step(StepTurbo, func() error { return m.SetTurbo(*res.Turbo) }); err != nil {
			return err
		}
	}
	return nil
}

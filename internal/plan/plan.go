// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan implements named frequency presets and set requests on
// top of a cpupower.Model.
package plan

import (
	"sort"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/pkg/errors"
)

// A Plan is a named, fixed scaling configuration. Percentages are
// relative to the hardware frequency range.
type Plan struct {
	Name       string
	Governor   string
	MinPercent int
	MaxPercent int
	Turbo      cpupower.TurboState
}

// AutoName is resolved at apply time from the power supply state. See
// Auto.
const AutoName = "auto"

var builtin = []Plan{
	{Name: "powersave", Governor: "powersave", MinPercent: 0, MaxPercent: 0, Turbo: cpupower.TurboDisabled},
	{Name: "performance", Governor: "powersave", MinPercent: 0, MaxPercent: 100, Turbo: cpupower.TurboEnabled},
	{Name: "max-performance", Governor: "performance", MinPercent: 100, MaxPercent: 100, Turbo: cpupower.TurboEnabled},
}

// Numbered aliases for -p.
var aliases = map[string]string{
	"1": "powersave",
	"2": "performance",
	"3": "max-performance",
}

// Resolve looks up a built-in plan by its case-sensitive name or
// numeric alias.
func Resolve(name string) (Plan, error) {
	if n, ok := aliases[name]; ok {
		name = n
	}
	for _, p := range builtin {
		if p.Name == name {
			return p, nil
		}
	}
	return Plan{}, &cpupower.Error{Kind: cpupower.UnknownPlan, Msg: name}
}

// Names returns the built-in plan names, sorted.
func Names() []string {
	var names []string
	for _, p := range builtin {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the governor, then the frequency range, then turbo,
// stopping at the first failure. Fields after a failure are left as
// they were; see Execute for how failures are reported.
func Apply(m *cpupower.Model, p Plan) error {
	res, err := (&Request{Plan: p.Name}).Resolve(m, func(string) (Plan, error) { return p, nil })
	if err != nil {
		return errors.Wrapf(err, "plan %s", p.Name)
	}
	if err := res.apply(m); err != nil {
		return errors.Wrapf(err, "plan %s", p.Name)
	}
	return nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"path"

	"github.com/aclements/psfreq/internal/cpupower"
)

const powerSupplyDir = "class/power_supply"

// OnMains reports whether any mains power supply is online. ok is false
// if the host has no mains supply to ask, as on most desktops and
// servers.
func OnMains(acc cpupower.Accessor) (online, ok bool, err error) {
	types, err := acc.Glob(path.Join(powerSupplyDir, "*", "type"))
	if err != nil {
		return false, false, err
	}
	for _, t := range types {
		kind, err := acc.ReadString(t)
		if err != nil {
			return false, false, err
		}
		if kind != "Mains" {
			continue
		}
		ok = true
		v, err := acc.ReadInt(path.Join(path.Dir(t), "online"))
		if cpupower.IsKind(err, cpupower.NotFound) {
			continue
		} else if err != nil {
			return false, false, err
		}
		if v != 0 {
			return true, true, nil
		}
	}
	return false, ok, nil
}

// Auto picks performance on mains power and powersave on battery.
// Hosts without a mains supply entry are assumed to be plugged in.
func Auto(acc cpupower.Accessor) (Plan, error) {
	online, ok, err := OnMains(acc)
	if err != nil {
		return Plan{}, err
	}
	if online || !ok {
		return Resolve("performance")
	}
	return Resolve("powersave")
}

// Resolver returns a plan lookup that understands AutoName in addition
// to the built-in plans.
func Resolver(acc cpupower.Accessor) func(string) (Plan, error) {
	return func(name string) (Plan, error) {
		if name == AutoName || name == "0" {
			return Auto(acc)
		}
		return Resolve(name)
	}
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpupower

import "strconv"

// TurboState is the normalized turbo boost setting.
type TurboState int

const (
	// TurboUnsupported means no turbo control was found on this host.
	TurboUnsupported TurboState = iota
	TurboEnabled
	TurboDisabled
)

func (t TurboState) String() string {
	switch t {
	case TurboEnabled:
		return "on"
	case TurboDisabled:
		return "off"
	}
	return "unsupported"
}

// ParseTurbo accepts the spellings a user would type for a turbo
// setting.
func ParseTurbo(s string) (TurboState, error) {
	switch s {
	case "on", "1", "true", "enable", "enabled":
		return TurboEnabled, nil
	case "off", "0", "false", "disable", "disabled":
		return TurboDisabled, nil
	}
	return TurboUnsupported, newError(OutOfRange, "turbo must be on or off, got %q", s)
}

// turboControl is a global turbo attribute. intel_pstate exposes
// no_turbo, where a non-zero value means turbo is disabled;
// acpi-cpufreq exposes boost, where non-zero means enabled.
type turboControl struct {
	path     string
	inverted bool
}

var turboControls = []turboControl{
	{"devices/system/cpu/intel_pstate/no_turbo", true},
	{"devices/system/cpu/cpufreq/boost", false},
}

// decodeTurbo converts a raw attribute value to a TurboState. This and
// encodeTurbo are the only places that know about the raw encoding.
func (c turboControl) decodeTurbo(raw int) (TurboState, error) {
	var set bool
	switch raw {
	case 0:
	case 1:
		set = true
	default:
		return TurboUnsupported, &Error{Kind: MalformedValue, Path: c.path, Msg: "turbo flag " + strconv.Itoa(raw)}
	}
	if set != c.inverted {
		return TurboEnabled, nil
	}
	return TurboDisabled, nil
}

func (c turboControl) encodeTurbo(t TurboState) int {
	enabled := t == TurboEnabled
	if enabled != c.inverted {
		return 1
	}
	return 0
}

// findTurbo returns the first turbo control present on this host.
func findTurbo(acc Accessor) (turboControl, int, error) {
	for _, c := range turboControls {
		raw, err := acc.ReadInt(c.path)
		if err == nil {
			return c, raw, nil
		}
		if !IsKind(err, NotFound) {
			return c, 0, err
		}
	}
	return turboControl{}, 0, newError(NotSupported, "no turbo control found")
}

func (t TurboState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

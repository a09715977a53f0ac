// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclements/psfreq/internal/cpupower"
)

// FreqValue is a frequency bound given either as a percentage of the
// hardware range or as an absolute frequency.
type FreqValue struct {
	Percent  int
	KHz      int
	Absolute bool
}

// Percent returns a percentage FreqValue.
func Percent(p int) *FreqValue { return &FreqValue{Percent: p} }

// KHz returns an absolute FreqValue.
func KHz(khz int) *FreqValue { return &FreqValue{KHz: khz, Absolute: true} }

var freqRe = regexp.MustCompile(`^([0-9]+)\s*(%|khz|mhz|ghz)?$`)

var unitKHz = map[string]int{
	"khz": 1,
	"mhz": 1000,
	"ghz": 1000000,
}

// ParseFreq parses "N" or "N%" as a percentage and "NkHz", "NMHz" or
// "NGHz" as an absolute frequency.
func ParseFreq(s string) (*FreqValue, error) {
	m := freqRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return nil, &cpupower.Error{Kind: cpupower.OutOfRange, Msg: fmt.Sprintf("frequency must be N%%, NkHz, NMHz or NGHz, got %q", s)}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, &cpupower.Error{Kind: cpupower.OutOfRange, Msg: s, Err: err}
	}
	if mult, ok := unitKHz[m[2]]; ok {
		if n > math.MaxInt32/mult {
			return nil, &cpupower.Error{Kind: cpupower.OutOfRange, Msg: fmt.Sprintf("frequency %q too large", s)}
		}
		return KHz(n * mult), nil
	}
	if n > 100 {
		return nil, &cpupower.Error{Kind: cpupower.OutOfRange, Msg: fmt.Sprintf("percent %d not in [0, 100]", n)}
	}
	return Percent(n), nil
}

// Resolve returns v in kHz against the hardware range [lo, hi].
func (v *FreqValue) Resolve(lo, hi int) (int, error) {
	if v.Absolute {
		return v.KHz, nil
	}
	return cpupower.ResolvePercent(v.Percent, lo, hi)
}

func (v *FreqValue) String() string {
	if v.Absolute {
		return fmt.Sprintf("%dkHz", v.KHz)
	}
	return fmt.Sprintf("%d%%", v.Percent)
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpupower

import "math"

// ComputePercent returns where cur lies between lo and hi as a
// percentage, rounded to the nearest integer and clamped to [0, 100].
func ComputePercent(cur, lo, hi int) (int, error) {
	if hi <= lo {
		return 0, newError(InvalidRange, "hardware range [%d, %d] is empty", lo, hi)
	}
	p := int(math.Round(100 * float64(cur-lo) / float64(hi-lo)))
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	return p, nil
}

// ResolvePercent is the inverse of ComputePercent: it returns the
// frequency that lies percent of the way from lo to hi.
func ResolvePercent(percent, lo, hi int) (int, error) {
	if percent < 0 || percent > 100 {
		return 0, newError(OutOfRange, "percent %d not in [0, 100]", percent)
	}
	return lo + int(math.Round(float64(percent)/100*float64(hi-lo))), nil
}

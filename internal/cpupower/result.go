// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpupower

import "github.com/pkg/errors"

// Status is the terminal state of a set operation.
type Status int

const (
	Success Status = iota
	// PartialFailure means some CPUs were changed before a write failed.
	PartialFailure
	// ValidationFailure means the request was rejected before any write.
	ValidationFailure
	// Failure means the operation failed without changing anything.
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case PartialFailure:
		return "partial failure"
	case ValidationFailure:
		return "validation failure"
	}
	return "failure"
}

// Result summarizes the error from a set operation.
type Result struct {
	Status Status
	// Completed is the number of CPUs changed before a partial failure.
	Completed int
	// Core is the CPU whose write failed, or -1 if no per-CPU write
	// failed.
	Core int
	// CoreChanged is set if Core was partly written before it failed.
	CoreChanged bool
	// Steps lists the steps fully applied before Step failed.
	Steps []string
	Step  string
	Kind  Kind
	Err   error
}

// ResultOf classifies err, which is nil or an error returned by one of
// the Model's Set methods or a sequence of them. Any write that landed
// before the failure makes it a PartialFailure.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Status: Success, Core: -1}
	}
	r := Result{Status: Failure, Core: -1, Kind: KindOf(err), Err: err}
	var se *StepError
	if errors.As(err, &se) {
		r.Steps = se.Done
		r.Step = se.Step
	}
	var pe *PartialError
	if errors.As(err, &pe) {
		r.Core = pe.Core
		r.Completed = pe.Completed
		r.CoreChanged = pe.CoreChanged
	}
	switch {
	case len(r.Steps) > 0 || r.Completed > 0 || r.CoreChanged:
		r.Status = PartialFailure
	case pe == nil && r.Kind.Validation():
		r.Status = ValidationFailure
	}
	return r
}

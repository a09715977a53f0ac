// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpupower

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota

	// Sysfs access.
	NotFound
	PermissionDenied
	MalformedValue
	RejectedByKernel

	// Caller input, always checked before any write.
	InvalidBounds
	OutOfRange
	UnsupportedGovernor
	UnknownPlan
	InvalidRange

	NotSupported
	NoCpusFound
	Divergent
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	NotFound:            "not found",
	PermissionDenied:    "permission denied",
	MalformedValue:      "malformed value",
	RejectedByKernel:    "rejected by kernel",
	InvalidBounds:       "invalid bounds",
	OutOfRange:          "out of range",
	UnsupportedGovernor: "unsupported governor",
	UnknownPlan:         "unknown plan",
	InvalidRange:        "invalid range",
	NotSupported:        "not supported",
	NoCpusFound:         "no cpus found",
	Divergent:           "divergent configuration",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Validation reports whether k is a caller input error.
func (k Kind) Validation() bool {
	switch k {
	case InvalidBounds, OutOfRange, UnsupportedGovernor, UnknownPlan, InvalidRange:
		return true
	}
	return false
}

// Error is a classified failure. Path is the sysfs attribute involved,
// if any.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// PartialError reports a multi-core write that stopped at Core after
// Completed cores (0..Completed-1) were already changed. If CoreChanged
// is set, Core itself had some of its attributes written before Attr
// failed, so it is in neither its old nor its new state. There is no
// rollback.
type PartialError struct {
	Completed   int
	Core        int
	CoreChanged bool
	Attr        string
	Err         error
}

func (e *PartialError) Error() string {
	half := ""
	if e.CoreChanged {
		half = " (partly changed)"
	}
	return fmt.Sprintf("partial failure: %d core(s) changed, cpu%d%s %s: %v", e.Completed, e.Core, half, e.Attr, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// StepError reports a change made of several steps, such as governor
// then frequency range then turbo, that failed in Step after every step
// in Done had been applied to all cores.
type StepError struct {
	Done []string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	if len(e.Done) == 0 {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v (already applied: %s)", e.Step, e.Err, strings.Join(e.Done, ", "))
}

func (e *StepError) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

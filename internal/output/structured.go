// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"encoding/json"
	"io"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Report is the machine-readable form of a get action.
type Report struct {
	Current *CurrentReport `json:"current,omitempty"`
	Real    []RealReport   `json:"real,omitempty"`
}

type CurrentReport struct {
	*cpupower.Snapshot
	MinPercent int `json:"minPercent"`
	MaxPercent int `json:"maxPercent"`
}

// RealReport is one CPU's frequency. KHz is nil if it couldn't be read.
type RealReport struct {
	CPU int  `json:"cpu"`
	KHz *int `json:"kHz"`
}

// NewReport builds a Report. Either argument may be nil.
func NewReport(s *cpupower.Snapshot, cpus, freqs []int) *Report {
	r := &Report{}
	if s != nil {
		c := &CurrentReport{Snapshot: s}
		c.MinPercent, _ = s.MinPercent()
		c.MaxPercent, _ = s.MaxPercent()
		r.Current = c
	}
	for i, f := range freqs {
		rr := RealReport{CPU: cpus[i]}
		if f != cpupower.Unavailable {
			f := f
			rr.KHz = &f
		}
		r.Real = append(r.Real, rr)
	}
	return r
}

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes r as JSON or YAML.
func (r *Report) Write(w io.Writer, format string) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(r)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s", format)
	}
	_, err = w.Write(data)
	return err
}

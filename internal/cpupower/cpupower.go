// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpupower reads and manipulates Linux CPU frequency scaling
// settings through sysfs.
//
// A Model is bound to the logical CPUs and hardware frequency bounds
// discovered when it is created. Every other query goes back to sysfs,
// since the kernel changes frequencies continuously.
//
// Writes that touch every CPU are applied one CPU at a time in
// ascending order. sysfs has no multi-file transaction, so a failure
// part way through leaves the earlier CPUs changed; this is reported
// as a *PartialError and never rolled back.
package cpupower

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const cpuDir = "devices/system/cpu"

// Attribute names under cpuN/cpufreq.
const (
	attrDriver     = "scaling_driver"
	attrGovernor   = "scaling_governor"
	attrGovernors  = "scaling_available_governors"
	attrScalingMin = "scaling_min_freq"
	attrScalingMax = "scaling_max_freq"
	attrCur        = "scaling_cur_freq"
	attrHWMin      = "cpuinfo_min_freq"
	attrHWMax      = "cpuinfo_max_freq"
)

// Unavailable marks a CPU whose real-time frequency could not be read.
const Unavailable = -1

var cpuRe = regexp.MustCompile(`cpu(\d+)$`)

// Model is the frequency scaling view of this host.
type Model struct {
	acc          Accessor
	lg           *zap.SugaredLogger
	cpus         []int
	hwMin, hwMax int
}

type Option func(*Model)

// WithLogger makes the model log every sysfs write at debug level.
func WithLogger(lg *zap.SugaredLogger) Option {
	return func(m *Model) {
		m.lg = lg
	}
}

// New discovers the CPUs behind acc and reads their hardware frequency
// bounds.
func New(acc Accessor, opts ...Option) (*Model, error) {
	m := &Model{acc: acc, lg: zap.NewNop().Sugar()}
	for _, op := range opts {
		op(m)
	}

	cpus, err := discoverCPUs(acc)
	if err != nil {
		return nil, err
	}
	m.cpus = cpus

	if m.hwMin, err = acc.ReadInt(attrPath(cpus[0], attrHWMin)); err != nil {
		return nil, err
	}
	if m.hwMax, err = acc.ReadInt(attrPath(cpus[0], attrHWMax)); err != nil {
		return nil, err
	}
	if m.hwMin > m.hwMax {
		return nil, newError(InvalidRange, "hardware minimum %d kHz above maximum %d kHz", m.hwMin, m.hwMax)
	}
	m.lg.Debugw("Discovered CPUs",
		"count", len(cpus),
		"hwMinKHz", m.hwMin,
		"hwMaxKHz", m.hwMax,
	)
	return m, nil
}

// DiscoverCoreCount returns the number of logical CPUs that expose
// cpufreq controls.
func DiscoverCoreCount(acc Accessor) (int, error) {
	cpus, err := discoverCPUs(acc)
	if err != nil {
		return 0, err
	}
	return len(cpus), nil
}

func discoverCPUs(acc Accessor) ([]int, error) {
	dirs, err := acc.Glob(path.Join(cpuDir, "cpu[0-9]*", "cpufreq"))
	if err != nil {
		return nil, err
	}
	var cpus []int
	for _, d := range dirs {
		m := cpuRe.FindStringSubmatch(path.Dir(d))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cpus = append(cpus, n)
	}
	if len(cpus) == 0 {
		return nil, &Error{Kind: NoCpusFound, Path: cpuDir}
	}
	sort.Ints(cpus)
	return cpus, nil
}

func attrPath(cpu int, attr string) string {
	return fmt.Sprintf("%s/cpu%d/cpufreq/%s", cpuDir, cpu, attr)
}

// CPUs returns the logical CPU numbers in ascending order.
func (m *Model) CPUs() []int {
	return append([]int(nil), m.cpus...)
}

// HardwareRange returns the frequency range in kHz this host is
// capable of.
func (m *Model) HardwareRange() (int, int) {
	return m.hwMin, m.hwMax
}

// Snapshot is the scaling configuration at one point in time. The
// configured fields come from the first CPU.
type Snapshot struct {
	CPUCount       int        `json:"cpuCount"`
	Driver         string     `json:"driver"`
	Governor       string     `json:"governor"`
	Turbo          TurboState `json:"turbo"`
	ScalingMinKHz  int        `json:"scalingMinKHz"`
	ScalingMaxKHz  int        `json:"scalingMaxKHz"`
	HardwareMinKHz int        `json:"hardwareMinKHz"`
	HardwareMaxKHz int        `json:"hardwareMaxKHz"`
}

// MinPercent is ScalingMinKHz as a percentage of the hardware range.
func (s *Snapshot) MinPercent() (int, error) {
	return ComputePercent(s.ScalingMinKHz, s.HardwareMinKHz, s.HardwareMaxKHz)
}

// MaxPercent is ScalingMaxKHz as a percentage of the hardware range.
func (s *Snapshot) MaxPercent() (int, error) {
	return ComputePercent(s.ScalingMaxKHz, s.HardwareMinKHz, s.HardwareMaxKHz)
}

// Snapshot reads the current configuration. A host without turbo
// control reports TurboUnsupported rather than failing.
func (m *Model) Snapshot() (*Snapshot, error) {
	cpu := m.cpus[0]
	s := &Snapshot{
		CPUCount:       len(m.cpus),
		HardwareMinKHz: m.hwMin,
		HardwareMaxKHz: m.hwMax,
	}
	var err error
	if s.Driver, err = m.acc.ReadString(attrPath(cpu, attrDriver)); err != nil {
		return nil, err
	}
	if s.Governor, err = m.acc.ReadString(attrPath(cpu, attrGovernor)); err != nil {
		return nil, err
	}
	if s.ScalingMinKHz, err = m.acc.ReadInt(attrPath(cpu, attrScalingMin)); err != nil {
		return nil, err
	}
	if s.ScalingMaxKHz, err = m.acc.ReadInt(attrPath(cpu, attrScalingMax)); err != nil {
		return nil, err
	}
	if s.Turbo, err = m.Turbo(); err != nil && !IsKind(err, NotSupported) {
		return nil, err
	}
	return s, nil
}

// Turbo reads the global turbo boost state.
func (m *Model) Turbo() (TurboState, error) {
	c, raw, err := findTurbo(m.acc)
	if err != nil {
		return TurboUnsupported, err
	}
	return c.decodeTurbo(raw)
}

// RealFrequencies returns the current frequency in kHz of each CPU,
// indexed like CPUs. A CPU that can't be read is Unavailable.
func (m *Model) RealFrequencies() []int {
	freqs := make([]int, len(m.cpus))
	for i, cpu := range m.cpus {
		f, err := m.acc.ReadInt(attrPath(cpu, attrCur))
		if err != nil {
			m.lg.Debugw("Real frequency unavailable", "cpu", cpu, zap.Error(err))
			f = Unavailable
		}
		freqs[i] = f
	}
	return freqs
}

// AvailableGovernors returns the governors the kernel offers, or nil if
// it doesn't say.
func (m *Model) AvailableGovernors() ([]string, error) {
	s, err := m.acc.ReadString(attrPath(m.cpus[0], attrGovernors))
	if IsKind(err, NotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return strings.Fields(s), nil
}

// SetGovernor sets the scaling governor of every CPU.
func (m *Model) SetGovernor(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return newError(UnsupportedGovernor, "%q", name)
	}
	avail, err := m.AvailableGovernors()
	if err != nil {
		return err
	}
	if avail != nil && !contains(avail, name) {
		return newError(UnsupportedGovernor, "%q not in [%s]", name, strings.Join(avail, " "))
	}

	for i, cpu := range m.cpus {
		m.lg.Debugw("Writing governor", "cpu", cpu, "governor", name)
		if err := m.acc.WriteString(attrPath(cpu, attrGovernor), name); err != nil {
			return &PartialError{Completed: i, Core: cpu, Attr: attrGovernor, Err: err}
		}
	}
	return nil
}

// SetRange sets the frequency range in kHz every CPU's governor can
// select between.
func (m *Model) SetRange(minKHz, maxKHz int) error {
	if minKHz < m.hwMin || minKHz > maxKHz || maxKHz > m.hwMax {
		return newError(InvalidBounds, "need %d <= min %d <= max %d <= %d", m.hwMin, minKHz, maxKHz, m.hwMax)
	}

	for i, cpu := range m.cpus {
		// The kernel rejects min > max, so order the two writes so that
		// the intermediate range is never empty.
		curMax, err := m.acc.ReadInt(attrPath(cpu, attrScalingMax))
		if err != nil {
			return &PartialError{Completed: i, Core: cpu, Attr: attrScalingMax, Err: err}
		}
		writes := []struct {
			attr string
			val  int
		}{{attrScalingMin, minKHz}, {attrScalingMax, maxKHz}}
		if maxKHz > curMax {
			writes[0], writes[1] = writes[1], writes[0]
		}
		for j, w := range writes {
			m.lg.Debugw("Writing frequency bound", "cpu", cpu, "attr", w.attr, "kHz", w.val)
			if err := m.acc.WriteInt(attrPath(cpu, w.attr), w.val); err != nil {
				return &PartialError{Completed: i, Core: cpu, CoreChanged: j > 0, Attr: w.attr, Err: err}
			}
		}
	}
	return nil
}

// SetTurbo enables or disables turbo boost. The control is global, so
// this is a single write.
func (m *Model) SetTurbo(t TurboState) error {
	if t != TurboEnabled && t != TurboDisabled {
		return newError(OutOfRange, "turbo state %v", t)
	}
	c, _, err := findTurbo(m.acc)
	if err != nil {
		return err
	}
	m.lg.Debugw("Writing turbo", "path", c.path, "turbo", t)
	return m.acc.WriteInt(c.path, c.encodeTurbo(t))
}

// CheckUniform reports a Divergent error if any CPU's governor or
// frequency range differs from the first CPU's.
func (m *Model) CheckUniform() error {
	type policy struct {
		governor string
		min, max int
	}
	read := func(cpu int) (p policy, err error) {
		if p.governor, err = m.acc.ReadString(attrPath(cpu, attrGovernor)); err != nil {
			return
		}
		if p.min, err = m.acc.ReadInt(attrPath(cpu, attrScalingMin)); err != nil {
			return
		}
		p.max, err = m.acc.ReadInt(attrPath(cpu, attrScalingMax))
		return
	}

	ref, err := read(m.cpus[0])
	if err != nil {
		return err
	}
	var diff []string
	for _, cpu := range m.cpus[1:] {
		p, err := read(cpu)
		if err != nil {
			return err
		}
		if p != ref {
			diff = append(diff, "cpu"+strconv.Itoa(cpu))
		}
	}
	if len(diff) > 0 {
		return newError(Divergent, "%s differ from cpu%d", strings.Join(diff, ","), m.cpus[0])
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

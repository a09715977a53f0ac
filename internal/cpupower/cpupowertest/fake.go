// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpupowertest provides an in-memory cpupower.Accessor for
// tests.
package cpupowertest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/aclements/psfreq/internal/cpupower"
)

const NoTurbo = "devices/system/cpu/intel_pstate/no_turbo"

// Attr returns the path of a cpufreq attribute of cpu.
func Attr(cpu int, attr string) string {
	return fmt.Sprintf("devices/system/cpu/cpu%d/cpufreq/%s", cpu, attr)
}

// Fake is an in-memory sysfs. It records successful writes in order
// and, like the kernel, rejects a write that would make
// scaling_min_freq exceed scaling_max_freq.
type Fake struct {
	Files     map[string]string
	Writes    []string
	ReadErrs  map[string]error
	WriteErrs map[string]error
}

// New returns a Fake with ncpu intel_pstate CPUs at their full hardware
// range, the powersave governor and turbo enabled. CPU n reports a
// real frequency of hwMin+1000*n.
func New(ncpu, hwMin, hwMax int) *Fake {
	f := &Fake{
		Files:     map[string]string{},
		ReadErrs:  map[string]error{},
		WriteErrs: map[string]error{},
	}
	for cpu := 0; cpu < ncpu; cpu++ {
		f.Files[Attr(cpu, "scaling_driver")] = "intel_pstate"
		f.Files[Attr(cpu, "scaling_governor")] = "powersave"
		f.Files[Attr(cpu, "scaling_available_governors")] = "performance powersave"
		f.Files[Attr(cpu, "cpuinfo_min_freq")] = strconv.Itoa(hwMin)
		f.Files[Attr(cpu, "cpuinfo_max_freq")] = strconv.Itoa(hwMax)
		f.Files[Attr(cpu, "scaling_min_freq")] = strconv.Itoa(hwMin)
		f.Files[Attr(cpu, "scaling_max_freq")] = strconv.Itoa(hwMax)
		f.Files[Attr(cpu, "scaling_cur_freq")] = strconv.Itoa(hwMin + 1000*cpu)
	}
	f.Files[NoTurbo] = "0"
	return f
}

// FailWrite makes writes to p fail with a kernel rejection.
func (f *Fake) FailWrite(p string) {
	f.WriteErrs[p] = &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: p, Err: syscall.EIO}
}

// FailRead makes reads of p fail with a kernel error.
func (f *Fake) FailRead(p string) {
	f.ReadErrs[p] = &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: p, Err: syscall.EIO}
}

// Int returns the integer value of p, or -1.
func (f *Fake) Int(p string) int {
	v, err := strconv.Atoi(f.Files[p])
	if err != nil {
		return -1
	}
	return v
}

func (f *Fake) ReadString(p string) (string, error) {
	if err := f.ReadErrs[p]; err != nil {
		return "", err
	}
	v, ok := f.Files[p]
	if !ok {
		return "", &cpupower.Error{Kind: cpupower.NotFound, Path: p, Err: os.ErrNotExist}
	}
	return strings.TrimSpace(v), nil
}

func (f *Fake) ReadInt(p string) (int, error) {
	s, err := f.ReadString(p)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &cpupower.Error{Kind: cpupower.MalformedValue, Path: p, Err: err}
	}
	return v, nil
}

func (f *Fake) WriteString(p, v string) error {
	if err := f.WriteErrs[p]; err != nil {
		return err
	}
	if _, ok := f.Files[p]; !ok {
		return &cpupower.Error{Kind: cpupower.NotFound, Path: p, Err: os.ErrNotExist}
	}
	dir, attr := path.Split(p)
	n, _ := strconv.Atoi(v)
	switch attr {
	case "scaling_min_freq":
		if max, err := strconv.Atoi(f.Files[dir+"scaling_max_freq"]); err == nil && n > max {
			return &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: p, Err: syscall.EINVAL}
		}
	case "scaling_max_freq":
		if min, err := strconv.Atoi(f.Files[dir+"scaling_min_freq"]); err == nil && n < min {
			return &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: p, Err: syscall.EINVAL}
		}
	}
	f.Writes = append(f.Writes, p+"="+v)
	f.Files[p] = v
	return nil
}

func (f *Fake) WriteInt(p string, v int) error {
	return f.WriteString(p, strconv.Itoa(v))
}

// Glob matches pattern against every file and parent directory.
func (f *Fake) Glob(pattern string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for p := range f.Files {
		for d := p; d != "." && d != "/"; d = path.Dir(d) {
			if ok, _ := path.Match(pattern, d); ok && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// WriteTree writes the Fake's files under dir so a real cpupower.Sysfs
// can be pointed at it.
func (f *Fake) WriteTree(dir string) error {
	for p, v := range f.Files {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(v+"\n"), 0644); err != nil {
			return err
		}
	}
	return nil
}

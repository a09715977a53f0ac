// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpupower

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Accessor reads and writes individual sysfs attributes. Paths are
// relative to the sysfs mount point, e.g.
// "devices/system/cpu/cpu0/cpufreq/scaling_governor".
//
// An Accessor does no validation of value semantics. All failures are
// returned as *Error.
type Accessor interface {
	ReadString(path string) (string, error)
	ReadInt(path string) (int, error)
	WriteString(path, val string) error
	WriteInt(path string, val int) error
	Glob(pattern string) ([]string, error)
}

// Sysfs is an Accessor backed by a real (or fake) sysfs tree.
type Sysfs struct {
	root string
}

// DefaultRoot is where sysfs is mounted on Linux.
const DefaultRoot = "/sys"

// NewSysfs returns an Accessor rooted at root. An empty root means
// DefaultRoot.
func NewSysfs(root string) *Sysfs {
	if root == "" {
		root = DefaultRoot
	}
	return &Sysfs{root: root}
}

// Root returns the directory the accessor resolves paths against.
func (s *Sysfs) Root() string { return s.root }

func (s *Sysfs) ReadString(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		return "", translate(path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Sysfs) ReadInt(path string) (int, error) {
	str, err := s.ReadString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, &Error{Kind: MalformedValue, Path: path, Err: err}
	}
	return v, nil
}

// WriteString writes val to an existing attribute. sysfs attributes
// can't be created, so a missing file is NotFound rather than being
// created.
func (s *Sysfs) WriteString(path, val string) error {
	f, err := os.OpenFile(filepath.Join(s.root, path), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return translate(path, err)
	}
	_, err = f.Write([]byte(val))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return translate(path, err)
	}
	return nil
}

func (s *Sysfs) WriteInt(path string, val int) error {
	return s.WriteString(path, strconv.Itoa(val))
}

// Glob returns the paths matching pattern, relative to the root.
func (s *Sysfs) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", pattern)
	}
	for i, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %s", pattern)
		}
		matches[i] = rel
	}
	return matches, nil
}

// translate maps a filesystem error to the error taxonomy. Anything
// that is not a missing file or a permission problem is the kernel
// refusing the operation (EINVAL, EBUSY, EIO from the driver).
func translate(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Kind: NotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission), errors.Is(err, unix.EROFS):
		return &Error{Kind: PermissionDenied, Path: path, Err: err}
	}
	return &Error{Kind: RejectedByKernel, Path: path, Err: err}
}

// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// holdSignals defers SIGINT and SIGQUIT until release is called, so a
// sequence of per-CPU writes is never cut off half way. A signal that
// arrived in the meantime is re-raised by release.
func holdSignals() (release func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGQUIT)
	return func() {
		signal.Stop(c)
		select {
		case sig := <-c:
			unix.Kill(unix.Getpid(), sig.(syscall.Signal))
		default:
		}
	}
}

// hasWritePrivilege reports whether this process can write cpufreq
// attributes.
var hasWritePrivilege = func() bool {
	return unix.Geteuid() == 0
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"strconv"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry builds a Prometheus registry holding the given state.
// Unavailable CPUs are left out of the frequency vector.
func Registry(s *cpupower.Snapshot, cpus, freqs []int) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	cur := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "psfreq",
		Name:      "cpu_frequency_khz",
		Help:      "Current frequency of each logical CPU in kHz.",
	}, []string{"cpu"})
	for i, f := range freqs {
		if f == cpupower.Unavailable {
			continue
		}
		cur.WithLabelValues(strconv.Itoa(cpus[i])).Set(float64(f))
	}
	reg.MustRegister(cur)

	if s == nil {
		return reg
	}
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "psfreq",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"driver": s.Driver, "governor": s.Governor},
		})
		g.Set(v)
		reg.MustRegister(g)
	}
	gauge("scaling_min_khz", "Configured minimum scaling frequency in kHz.", float64(s.ScalingMinKHz))
	gauge("scaling_max_khz", "Configured maximum scaling frequency in kHz.", float64(s.ScalingMaxKHz))
	gauge("hardware_min_khz", "Hardware minimum frequency in kHz.", float64(s.HardwareMinKHz))
	gauge("hardware_max_khz", "Hardware maximum frequency in kHz.", float64(s.HardwareMaxKHz))
	if s.Turbo != cpupower.TurboUnsupported {
		var on float64
		if s.Turbo == cpupower.TurboEnabled {
			on = 1
		}
		gauge("turbo_enabled", "Whether turbo boost is enabled.", on)
	}
	return reg
}

// WriteTextfile writes the state in the node_exporter textfile
// collector format. The file is replaced atomically.
func WriteTextfile(path string, s *cpupower.Snapshot, cpus, freqs []int) error {
	return prometheus.WriteToTextfile(path, Registry(s, cpus, freqs))
}

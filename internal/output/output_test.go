package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/psfreq/internal/cpupower"
	"github.com/aclements/psfreq/internal/output"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() *cpupower.Snapshot {
	return &cpupower.Snapshot{
		CPUCount:       4,
		Driver:         "intel_pstate",
		Governor:       "powersave",
		Turbo:          cpupower.TurboDisabled,
		ScalingMinKHz:  1360000,
		ScalingMaxKHz:  3040000,
		HardwareMinKHz: 800000,
		HardwareMaxKHz: 3600000,
	}
}

func TestCurrent(t *testing.T) {
	var buf bytes.Buffer
	output.NewPrinter(&buf, output.Config{}).Current(snapshot())

	want := `    pstate::CPU_DRIVER   -> intel_pstate
    pstate::CPU_GOVERNOR -> powersave
    pstate::TURBO        -> off
    pstate::CPU_MIN      -> 20% [1360000KHz]
    pstate::CPU_MAX      -> 80% [3040000KHz]
`
	assert.Equal(t, want, buf.String())
}

func TestCurrentColor(t *testing.T) {
	var buf bytes.Buffer
	output.NewPrinter(&buf, output.Config{Color: true}).Current(snapshot())
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "intel_pstate")
}

func TestReal(t *testing.T) {
	var buf bytes.Buffer
	output.NewPrinter(&buf, output.Config{}).Real([]int{0, 1, 2}, []int{800000, cpupower.Unavailable, 3599000})

	want := `    pstate::CPU[0]   -> 800MHz
    pstate::CPU[1]   -> unavailable
    pstate::CPU[2]   -> 3599MHz
`
	assert.Equal(t, want, buf.String())
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewPrinter(&buf, output.Config{Verbosity: output.Quiet})
	p.Header("1.0", "")
	p.Current(snapshot())
	p.Result(cpupower.ResultOf(nil))
	assert.Empty(t, buf.String())

	// Failures are still reported.
	p.Result(cpupower.ResultOf(&cpupower.PartialError{
		Completed: 2, Core: 2, Attr: "scaling_governor",
		Err: &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: "cpu2"},
	}))
	assert.True(t, strings.HasPrefix(buf.String(), "[partial] 2 CPU(s) changed before cpu2 failed"), buf.String())
}

func TestResultPartialSteps(t *testing.T) {
	rejected := &cpupower.Error{Kind: cpupower.RejectedByKernel, Path: "no_turbo"}
	for _, tc := range []struct {
		err  error
		want string
	}{
		{
			&cpupower.StepError{
				Done: []string{"governor"},
				Step: "frequency range",
				Err:  &cpupower.PartialError{Core: 0, Attr: "scaling_min_freq", Err: rejected},
			},
			"[partial] governor applied before frequency range failed on cpu0: ",
		},
		{
			&cpupower.StepError{Done: []string{"governor", "frequency range"}, Step: "turbo", Err: rejected},
			"[partial] governor and frequency range applied before turbo failed: ",
		},
		{
			&cpupower.PartialError{Completed: 1, Core: 1, CoreChanged: true, Attr: "scaling_max_freq", Err: rejected},
			"[partial] 1 CPU(s) changed, cpu1 partly changed before cpu1 failed: ",
		},
	} {
		var buf bytes.Buffer
		output.NewPrinter(&buf, output.Config{}).Result(cpupower.ResultOf(tc.err))
		assert.True(t, strings.HasPrefix(buf.String(), tc.want), buf.String())
	}
}

func TestResultValidation(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewPrinter(&buf, output.Config{})
	p.Result(cpupower.ResultOf(errors.Wrap(&cpupower.Error{Kind: cpupower.InvalidBounds}, "frequency range")))
	assert.Contains(t, buf.String(), "[invalid] invalid bounds")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewReport(snapshot(), []int{0, 1}, []int{900000, cpupower.Unavailable})
	require.NoError(t, r.Write(&buf, output.FormatJSON))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	cur := got["current"].(map[string]interface{})
	assert.Equal(t, "intel_pstate", cur["driver"])
	assert.Equal(t, "off", cur["turbo"])
	assert.Equal(t, float64(20), cur["minPercent"])
	assert.Equal(t, float64(3040000), cur["scalingMaxKHz"])

	reals := got["real"].([]interface{})
	require.Len(t, reals, 2)
	assert.Equal(t, float64(900000), reals[0].(map[string]interface{})["kHz"])
	assert.Nil(t, reals[1].(map[string]interface{})["kHz"])
}

func TestReportYAML(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewReport(snapshot(), nil, nil)
	require.NoError(t, r.Write(&buf, output.FormatYAML))
	assert.Contains(t, buf.String(), "governor: powersave")
	assert.Contains(t, buf.String(), "maxPercent: 80")
	assert.NotContains(t, buf.String(), "real:")

	assert.Error(t, r.Write(&buf, "xml"))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psfreq.prom")
	require.NoError(t, output.WriteTextfile(path, snapshot(), []int{0, 1}, []int{900000, cpupower.Unavailable}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `psfreq_cpu_frequency_khz{cpu="0"} 900000`)
	assert.NotContains(t, s, `cpu="1"`)
	assert.Contains(t, s, `psfreq_turbo_enabled{driver="intel_pstate",governor="powersave"} 0`)
	assert.Contains(t, s, `psfreq_scaling_max_khz{driver="intel_pstate",governor="powersave"} 3.04e+06`)
}

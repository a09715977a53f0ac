package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/psfreq/internal/cpupower/cpupowertest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Command-line tests. Most run the root command in-process against a
// sysfs tree under a temp dir. TestExitStatus re-runs the test binary
// as psfreq itself (GO_TEST_MODE=psfreq) to check what main reports to
// the shell. GO_TEST_PRIVILEGED=1 or 0 decides whether that process
// may write, whatever user the tests run as.
func TestMain(m *testing.M) {
	switch os.Getenv("GO_TEST_MODE") {
	case "":
		os.Exit(m.Run())

	case "psfreq":
		if v, ok := os.LookupEnv("GO_TEST_PRIVILEGED"); ok {
			hasWritePrivilege = func() bool { return v == "1" }
		}
		// Remove the flags registered by the testing package.
		flag.CommandLine = flag.NewFlagSet("psfreq", flag.ExitOnError)
		main()
		os.Exit(0)
	}
}

const (
	hwMin = 800000
	hwMax = 4000000
)

// sysfsTree writes a four-CPU sysfs tree and an empty config file and
// returns the global flags that select them.
func sysfsTree(t *testing.T) (root string, flags []string) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, cpupowertest.New(4, hwMin, hwMax).WriteTree(root))
	conf := filepath.Join(t.TempDir(), "psfreq.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("defaultPlan: powersave\n"), 0644))
	return root, []string{"--config=" + conf, "--sysfs-root=" + root, "--color=never"}
}

func run(t *testing.T, privileged bool, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	saved := hasWritePrivilege
	hasWritePrivilege = func() bool { return privileged }
	defer func() { hasWritePrivilege = saved }()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func readAttr(t *testing.T, root, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, p))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestGet(t *testing.T) {
	_, flags := sysfsTree(t)
	out, _, err := run(t, false, append(flags, "get")...)
	require.NoError(t, err)
	assert.Contains(t, out, "psfreq devel\n")
	assert.Contains(t, out, "    pstate::CPU_DRIVER   -> intel_pstate\n")
	assert.Contains(t, out, "    pstate::CPU_GOVERNOR -> powersave\n")
	assert.Contains(t, out, "    pstate::TURBO        -> on\n")
	assert.Contains(t, out, "    pstate::CPU_MIN      -> 0% [800000KHz]\n")
	assert.Contains(t, out, "    pstate::CPU_MAX      -> 100% [4000000KHz]\n")
	assert.NotContains(t, out, "CPU[0]")
}

func TestGetReal(t *testing.T) {
	_, flags := sysfsTree(t)
	out, _, err := run(t, false, append(flags, "get", "--real")...)
	require.NoError(t, err)
	assert.Contains(t, out, "    pstate::CPU[0]   -> 800MHz\n")
	assert.Contains(t, out, "    pstate::CPU[3]   -> 803MHz\n")
	assert.NotContains(t, out, "CPU_GOVERNOR")
}

func TestGetJSON(t *testing.T) {
	_, flags := sysfsTree(t)
	out, _, err := run(t, false, append(flags, "get", "-c", "-r", "-o", "json")...)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "current")
	assert.Contains(t, got, "real")
}

func TestGetDivergent(t *testing.T) {
	root, flags := sysfsTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, cpupowertest.Attr(2, "scaling_governor")), []byte("performance\n"), 0644))
	out, errOut, err := run(t, false, append(flags, "get")...)
	require.NoError(t, err)
	assert.Contains(t, errOut, "[warning]")
	assert.Contains(t, errOut, "cpu2")
	assert.Contains(t, out, "CPU_GOVERNOR -> powersave")
}

func TestSet(t *testing.T) {
	root, flags := sysfsTree(t)
	out, _, err := run(t, true, append(flags, "set", "-g", "performance", "-n", "50", "-m", "3040MHz", "-t", "off")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Values successfully set")
	assert.Contains(t, out, "CPU_GOVERNOR -> performance")

	for cpu := 0; cpu < 4; cpu++ {
		assert.Equal(t, "performance", readAttr(t, root, cpupowertest.Attr(cpu, "scaling_governor")))
		assert.Equal(t, "2400000", readAttr(t, root, cpupowertest.Attr(cpu, "scaling_min_freq")))
		assert.Equal(t, "3040000", readAttr(t, root, cpupowertest.Attr(cpu, "scaling_max_freq")))
	}
	assert.Equal(t, "1", readAttr(t, root, cpupowertest.NoTurbo))
}

func TestSetDefaultPlan(t *testing.T) {
	root, flags := sysfsTree(t)
	_, _, err := run(t, true, append(flags, "set")...)
	require.NoError(t, err)
	assert.Equal(t, "800000", readAttr(t, root, cpupowertest.Attr(0, "scaling_max_freq")))
	assert.Equal(t, "1", readAttr(t, root, cpupowertest.NoTurbo))
}

func TestSetUnprivileged(t *testing.T) {
	root, flags := sysfsTree(t)
	_, errOut, err := run(t, false, append(flags, "set", "-p", "max-performance")...)
	var ee exitError
	require.True(t, errors.As(err, &ee), "got %v", err)
	assert.Equal(t, exitError(1), ee)
	assert.Contains(t, errOut, "permission denied")
	assert.Equal(t, "powersave", readAttr(t, root, cpupowertest.Attr(0, "scaling_governor")))
}

func TestSetInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-n", "90", "-m", "10"},
		{"-n", "120%"},
		{"-p", "turbo"},
		{"-g", "ondemand"},
		{"-t", "maybe"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			root, flags := sysfsTree(t)
			_, errOut, err := run(t, true, append(append(flags, "set"), args...)...)
			assert.Equal(t, exitError(1), err)
			assert.Contains(t, errOut, "[invalid]")
			assert.Equal(t, "powersave", readAttr(t, root, cpupowertest.Attr(0, "scaling_governor")))
			assert.Equal(t, "4000000", readAttr(t, root, cpupowertest.Attr(3, "scaling_max_freq")))
		})
	}
}

func TestPlans(t *testing.T) {
	out, _, err := run(t, false, "plans")
	require.NoError(t, err)
	for _, want := range []string{"max-performance", "performance", "powersave", "auto"} {
		assert.Contains(t, out, want)
	}
}

func TestExport(t *testing.T) {
	_, flags := sysfsTree(t)
	path := filepath.Join(t.TempDir(), "psfreq.prom")
	_, _, err := run(t, false, append(flags, "export", "--textfile", path)...)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `psfreq_cpu_frequency_khz{cpu="3"`)
}

func TestExitStatus(t *testing.T) {
	_, flags := sysfsTree(t)
	for _, tc := range []struct {
		name       string
		privileged bool
		args       []string
		status     int
	}{
		{"get", false, []string{"get"}, 0},
		{"set", true, []string{"set", "-p", "2"}, 0},
		{"unprivileged", false, []string{"set", "-p", "2"}, 1},
		{"bad flag", false, []string{"get", "--bogus"}, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], append(flags, tc.args...)...)
			priv := "0"
			if tc.privileged {
				priv = "1"
			}
			cmd.Env = append(os.Environ(), "GO_TEST_MODE=psfreq", "GO_TEST_PRIVILEGED="+priv)
			out, err := cmd.CombinedOutput()
			status := 0
			var ee *exec.ExitError
			if errors.As(err, &ee) {
				status = ee.ExitCode()
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.status, status, "output:\n%s", out)
		})
	}
}

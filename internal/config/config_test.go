package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aclements/psfreq/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, used, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", used)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFirstExisting(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(second, []byte("sysfsRoot: /tmp/sys\ncolor: never\nverbosity: 1\ndefaultPlan: auto\n"), 0644))

	cfg, used, err := config.Load(filepath.Join(dir, "first.yaml"), second)
	require.NoError(t, err)
	assert.Equal(t, second, used)
	assert.Equal(t, &config.Config{
		SysfsRoot:   "/tmp/sys",
		Color:       config.ColorNever,
		Verbosity:   1,
		DefaultPlan: "auto",
	}, cfg)
	assert.False(t, cfg.UseColor(true))
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "psfreq.yaml")
	require.NoError(t, os.WriteFile(p, []byte("verbosity: -1\n"), 0644))

	cfg, _, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/sys", cfg.SysfsRoot)
	assert.Equal(t, -1, cfg.Verbosity)
	assert.True(t, cfg.UseColor(true))
	assert.False(t, cfg.UseColor(false))
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"unknown.yaml": "colour: always\n",
		"color.yaml":   "color: sometimes\n",
		"syntax.yaml":  "color: [\n",
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		_, used, err := config.Load(p)
		assert.Error(t, err, name)
		assert.Equal(t, p, used)
	}
}

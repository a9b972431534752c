package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/atxtechbro/mcpdash/internal/config"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNonInteractiveWritesConfig(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Init(InitOptions{
		Server:         "http://metrics.internal:8080",
		Theme:          config.ThemeDark,
		Dir:            dir,
		NonInteractive: true,
	}, &out)
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://metrics.internal:8080", cfg.Server)
	assert.Equal(t, config.ThemeDark, cfg.Theme)
	assert.Equal(t, config.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, config.DefaultFeedCapacity, cfg.FeedCapacity)

	assert.Contains(t, out.String(), "Created "+path)
	assert.Contains(t, out.String(), "mcpdash snapshot")
}

func TestInitNonInteractiveDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(InitOptions{Dir: dir, NonInteractive: true}, &bytes.Buffer{}))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServer, cfg.Server)
	assert.Equal(t, config.ThemeAuto, cfg.Theme)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nserver: http://keep:1\n"), 0o644))

	err := Init(InitOptions{Dir: dir, Server: "http://new:2", NonInteractive: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://keep:1")
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nserver: http://old:1\n"), 0o644))

	err := Init(InitOptions{Dir: dir, Server: "http://new:2", Overwrite: true, NonInteractive: true}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://new:2", cfg.Server)
}

func TestInitRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		opts InitOptions
	}{
		{"bad scheme", InitOptions{Server: "ws://host:1"}},
		{"bad theme", InitOptions{Theme: "sepia"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.opts.Dir = dir
			tt.opts.NonInteractive = true

			err := Init(tt.opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
		})
	}
}

func TestInitCommandUsesServerFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"init", "--non-interactive", "--server", "http://from-flag:3"})
	require.NoError(t, root.Execute())

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:3", cfg.Server)
}

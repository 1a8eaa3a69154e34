package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{ConfigDirPath: dir})
	require.NoError(t, err)

	assert.Equal(t, "p4", cfg.P4Command)
	assert.Equal(t, 0, cfg.PagerHeight)
	assert.Equal(t, 4, cfg.DescribeWorkers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, dir, cfg.Dir)
	assert.Empty(t, cfg.File)
	assert.Equal(t, filepath.Join(dir, TrackedFileName), cfg.TrackedPath())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "p4_command: p4 -p 'ssl:perforce:1666'\npager_height: 30\ndescribe_workers: 0\n")
	t.Setenv("P_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{ConfigDirPath: dir})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 30, cfg.PagerHeight)
	assert.Equal(t, 1, cfg.DescribeWorkers, "worker count is at least one")
	assert.Equal(t, "debug", cfg.LogLevel)

	argv, err := cfg.P4Argv()
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "-p", "ssl:perforce:1666"}, argv)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom", "p.yaml")
	writeFile(t, path, "pager_height: 12\n")

	cfg, err := Load(LoadOptions{ConfigFilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.PagerHeight)
	assert.Equal(t, filepath.Dir(path), cfg.Dir)

	_, err = Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative pager height", "pager_height: -1\n", "pager_height"},
		{"unbalanced quote", "p4_command: p4 -p 'oops\n", "invalid p4_command"},
		{"empty command", "p4_command: \"  \"\n", "p4_command is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ConfigFileName), tt.content)

			_, err := Load(LoadOptions{ConfigDirPath: dir})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/p", dir)
}

func TestTrackedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", TrackedFileName)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tr, err := LoadTracked(path)
	require.NoError(t, err)
	assert.Empty(t, tr.Changes)

	assert.True(t, tr.Add("101", "first", now))
	assert.True(t, tr.Add("102", "", now))
	assert.False(t, tr.Add("101", "again", now))
	require.NoError(t, tr.Save())

	loaded, err := LoadTracked(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, loaded.IDs())
	assert.Equal(t, "first", loaded.Changes[0].Description)
	assert.True(t, loaded.Changes[0].Created.Equal(now))
	assert.True(t, loaded.Contains("102"))

	assert.Equal(t, 1, loaded.Remove("101", "999"))
	assert.False(t, loaded.Contains("101"))
	require.NoError(t, loaded.Save())

	again, err := LoadTracked(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"102"}, again.IDs())
}

func TestLoadTrackedRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), TrackedFileName)
	writeFile(t, path, "changes: [unterminated\n")

	_, err := LoadTracked(path)
	assert.Error(t, err)
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
}

func TestLoadFile_Fields(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/p/roboscan.yaml", "threads: 4\nmax_bytes: 123\nfail_on: high\naudit: true\nextensions: .sol,.vy\n")

	cfg, err := LoadFile(fs, "/p/roboscan.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 4, *cfg.Threads)
	require.NotNil(t, cfg.MaxBytes)
	assert.Equal(t, int64(123), *cfg.MaxBytes)
	require.NotNil(t, cfg.FailOn)
	assert.Equal(t, "high", *cfg.FailOn)
	require.NotNil(t, cfg.Audit)
	assert.True(t, *cfg.Audit)
	require.NotNil(t, cfg.Extensions)
	assert.Equal(t, ".sol,.vy", *cfg.Extensions)
	assert.Nil(t, cfg.Enable, "unset keys stay nil")
}

func TestLoadFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"syntax":    "threads: [nope\n",
		"severity":  "fail_on: urgent\n",
		"threads":   "threads: -2\n",
		"max_bytes": "max_bytes: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			memFile(t, fs, "/p/bad.yml", body)
			_, err := LoadFile(fs, "/p/bad.yml")
			assert.Error(t, err)
		})
	}
}

func TestLoadLocal_LookupOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/p/roboscan.yaml", "threads: 1\n")
	memFile(t, fs, "/p/.roboscan.yaml", "threads: 7\n")

	cfg, err := LoadLocal(fs, "/p")
	require.NoError(t, err)
	assert.Equal(t, 7, *cfg.Threads)
}

func TestLoadLocal_NotFound(t *testing.T) {
	_, err := LoadLocal(afero.NewMemMapFs(), "/empty")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadGlobal_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	fs := afero.NewMemMapFs()
	memFile(t, fs, filepath.Join(dir, "roboscan", "config.yml"), "threads: 9\nno_color: true\n")

	cfg, err := LoadGlobal(fs)
	require.NoError(t, err)
	assert.Equal(t, 9, *cfg.Threads)
	assert.True(t, *cfg.NoColor)
}

func TestLoadGlobal_NoDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	assert.Empty(t, GlobalPath())
	_, err := LoadGlobal(afero.NewMemMapFs())
	assert.ErrorIs(t, err, ErrNotFound)
}

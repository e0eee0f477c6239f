package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mastercactapus/gcbounds/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GCBOUNDS_ADDR", "127.0.0.1:8000")
	t.Setenv("GCBOUNDS_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("GCBOUNDS_TEST_SET", "")
	assert.Equal(t, "", getEnv("GCBOUNDS_TEST_SET", "x"))
	assert.Equal(t, "x", getEnv("GCBOUNDS_TEST_UNSET", "x"))
}

func writeProfile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
shape: polygon
outline:
  - [0, 0]
  - [200, 0]
  - [100, 150]
max_z: 180
`)

	d, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, volume.ShapePolygon, d.Shape)
	assert.Equal(t, [][2]float64{{0, 0}, {200, 0}, {100, 150}}, d.Outline)
	assert.Equal(t, 180.0, d.MaxZ)

	_, err = volume.New(d)
	assert.NoError(t, err)
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadProfile(writeProfile(t, "shape: circle\nradius: 100\ndiameter: 200\n"))
	assert.Error(t, err)
}

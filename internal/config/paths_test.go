package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoot_Precedence(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)

	got, err := ResolveRoot(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, got)

	got, err = ResolveRoot("")
	require.NoError(t, err)
	assert.Equal(t, envDir, got)
}

func TestResolveRoot_UserDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", t.TempDir())

	got, err := ResolveRoot("")
	require.NoError(t, err)
	assert.Equal(t, AppName, filepath.Base(got))
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveRoot_MakesAbsolute(t *testing.T) {
	got, err := ResolveRoot("data")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "data", filepath.Base(got))
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/srv/consultorio")
	assert.Equal(t, filepath.FromSlash("/srv/consultorio/db/historias_clinicas_v5.db"), p.DBPath)
	assert.Equal(t, filepath.FromSlash("/srv/consultorio/PDFs"), p.PDFDir)
	assert.Equal(t, filepath.FromSlash("/srv/consultorio/imagenes/logo.png"), p.LogoPath)
	assert.Equal(t, filepath.FromSlash("/srv/consultorio/settings.yaml"), p.SettingsPath)
	assert.Equal(t, filepath.FromSlash("/srv/consultorio/.env"), p.EnvPath)
}

func TestPrepare_CreatesDirectories(t *testing.T) {
	root := t.TempDir()

	p, err := Prepare(root, nil)
	require.NoError(t, err)

	for _, dir := range []string{p.DBDir, p.PDFDir, p.ImagesDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestPrepare_MovesLegacyDatabase(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, DBFileName)
	require.NoError(t, os.WriteFile(legacy, []byte("legacy"), 0o600))

	p, err := Prepare(root, nil)
	require.NoError(t, err)

	assert.NoFileExists(t, legacy)
	data, err := os.ReadFile(p.DBPath)
	require.NoError(t, err)
	assert.Equal(t, "legacy", string(data))
}

func TestPrepare_KeepsExistingDatabase(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(root)
	require.NoError(t, os.MkdirAll(p.DBDir, 0o755))
	require.NoError(t, os.WriteFile(p.DBPath, []byte("current"), 0o600))
	legacy := filepath.Join(root, DBFileName)
	require.NoError(t, os.WriteFile(legacy, []byte("legacy"), 0o600))

	_, err := Prepare(root, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(p.DBPath)
	require.NoError(t, err)
	assert.Equal(t, "current", string(data))
	assert.FileExists(t, legacy)
}

func TestRelocate_NothingToMove(t *testing.T) {
	dir := t.TempDir()
	moved, err := relocate([]string{filepath.Join(dir, "a.db")}, filepath.Join(dir, "b.db"))
	require.NoError(t, err)
	assert.Empty(t, moved)
}

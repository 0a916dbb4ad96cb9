package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() Settings {
	return Settings{PDFOutputDir: "/data/PDFs", ClinicTitle: AppName}
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"), testDefaults())
	require.NoError(t, err)

	v, err := s.Get(KeyPDFOutputDir)
	require.NoError(t, err)
	assert.Equal(t, "/data/PDFs", v)

	v, err = s.Get(KeyFontPath)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSettings_SetPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := LoadSettings(path, testDefaults())
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyPDFOutputDir, "/home/ana/Documentos"))
	require.NoError(t, s.Set(KeyClinicTitle, "Consultorio Dra. Pérez"))

	reloaded, err := LoadSettings(path, testDefaults())
	require.NoError(t, err)
	assert.Equal(t, Settings{
		PDFOutputDir: "/home/ana/Documentos",
		ClinicTitle:  "Consultorio Dra. Pérez",
	}, reloaded.Effective())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pdf_output_dir: /home/ana/Documentos")
}

func TestSettings_EmptyValueRestoresDefault(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"), testDefaults())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyPDFOutputDir, "/tmp/x"))
	require.NoError(t, s.Set(KeyPDFOutputDir, ""))

	v, err := s.Get(KeyPDFOutputDir)
	require.NoError(t, err)
	assert.Equal(t, "/data/PDFs", v)
}

func TestSettings_UnknownKey(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"), testDefaults())
	require.NoError(t, err)

	_, err = s.Get("password")
	assert.Error(t, err)
	assert.Error(t, s.Set("password", "x"))
}

func TestSettings_SetFailureKeepsPreviousValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "settings.yaml")
	s, err := LoadSettings(path, testDefaults())
	require.NoError(t, err)

	assert.Error(t, s.Set(KeyFontPath, "/fonts/DejaVuSans.ttf"))
	v, _ := s.Get(KeyFontPath)
	assert.Empty(t, v)
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pdf_output_dir: [unclosed"), 0o600))

	_, err := LoadSettings(path, testDefaults())
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{KeyClinicTitle, KeyFontPath, KeyPDFOutputDir}, Keys())
}

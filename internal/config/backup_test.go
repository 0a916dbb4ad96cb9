package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBackupEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvBackupEndpoint, EnvBackupAccessKey, EnvBackupSecretKey,
		EnvBackupBucket, EnvBackupFolder, EnvBackupUseSSL,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadBackupConfig_MissingFile(t *testing.T) {
	clearBackupEnv(t)

	cfg, err := LoadBackupConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.False(t, cfg.Complete())
	assert.Equal(t, DefaultBackupFolder, cfg.Folder)
	assert.True(t, cfg.UseSSL)
}

func TestLoadBackupConfig_FromFile(t *testing.T) {
	clearBackupEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"CONSULTORIO_BACKUP_ENDPOINT=s3.example.com\n"+
			"CONSULTORIO_BACKUP_ACCESS_KEY=ak\n"+
			"CONSULTORIO_BACKUP_SECRET_KEY=sk\n"+
			"CONSULTORIO_BACKUP_BUCKET=consultorio\n"+
			"CONSULTORIO_BACKUP_USE_SSL=false\n"), 0o600))

	cfg, err := LoadBackupConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Complete())
	assert.Equal(t, BackupConfig{
		Endpoint:  "s3.example.com",
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "consultorio",
		Folder:    DefaultBackupFolder,
		UseSSL:    false,
	}, cfg)
}

func TestLoadBackupConfig_EnvironmentOverridesFile(t *testing.T) {
	clearBackupEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONSULTORIO_BACKUP_BUCKET=from-file\n"), 0o600))
	t.Setenv(EnvBackupBucket, "from-env")
	t.Setenv(EnvBackupFolder, "Backups Dra. Pérez")

	cfg, err := LoadBackupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bucket)
	assert.Equal(t, "Backups Dra. Pérez", cfg.Folder)
}

func TestLoadBackupConfig_InvalidSSLFlag(t *testing.T) {
	clearBackupEnv(t)
	t.Setenv(EnvBackupUseSSL, "maybe")

	_, err := LoadBackupConfig(filepath.Join(t.TempDir(), ".env"))
	assert.Error(t, err)
}

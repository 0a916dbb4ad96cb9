package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backup credential variables, read from the .env file in the data root
// and overridden by the process environment.
const (
	EnvBackupEndpoint  = "CONSULTORIO_BACKUP_ENDPOINT"
	EnvBackupAccessKey = "CONSULTORIO_BACKUP_ACCESS_KEY"
	EnvBackupSecretKey = "CONSULTORIO_BACKUP_SECRET_KEY"
	EnvBackupBucket    = "CONSULTORIO_BACKUP_BUCKET"
	EnvBackupFolder    = "CONSULTORIO_BACKUP_FOLDER"
	EnvBackupUseSSL    = "CONSULTORIO_BACKUP_USE_SSL"
)

// DefaultBackupFolder is the remote folder used when none is configured.
const DefaultBackupFolder = "Backups Consultorio"

// BackupConfig holds the object storage credentials for backups.
type BackupConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Folder    string
	UseSSL    bool
}

// Complete reports whether enough is configured to attempt a backup.
func (c BackupConfig) Complete() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// LoadBackupConfig reads envPath, if present, then applies environment
// overrides.
func LoadBackupConfig(envPath string) (BackupConfig, error) {
	vals, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return BackupConfig{}, fmt.Errorf("read %s: %w", envPath, err)
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vals[key]
	}

	cfg := BackupConfig{
		Endpoint:  lookup(EnvBackupEndpoint),
		AccessKey: lookup(EnvBackupAccessKey),
		SecretKey: lookup(EnvBackupSecretKey),
		Bucket:    lookup(EnvBackupBucket),
		Folder:    lookup(EnvBackupFolder),
		UseSSL:    true,
	}
	if cfg.Folder == "" {
		cfg.Folder = DefaultBackupFolder
	}
	if v := lookup(EnvBackupUseSSL); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return BackupConfig{}, fmt.Errorf("%s: %w", EnvBackupUseSSL, err)
		}
		cfg.UseSSL = ssl
	}
	return cfg, nil
}

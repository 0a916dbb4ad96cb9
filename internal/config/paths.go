// Package config resolves where the application keeps its data and loads
// the user settings and backup credentials stored there.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName names the per-user data directory.
	AppName = "Consultorio"

	// DBFileName is the database file inside the db/ directory.
	DBFileName = "historias_clinicas_v5.db"

	// EnvDataDir overrides the data root.
	EnvDataDir = "CONSULTORIO_DATA_DIR"
)

// Paths lists every location the application reads or writes.
type Paths struct {
	Root         string
	DBDir        string
	DBPath       string
	PDFDir       string
	ImagesDir    string
	LogoPath     string
	SettingsPath string
	EnvPath      string
}

// ResolveRoot picks the data root: the flag value, then $CONSULTORIO_DATA_DIR,
// then the per-user application data directory.
func ResolveRoot(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = os.Getenv(EnvDataDir)
	}
	if dir == "" {
		d, err := userDataDir()
		if err != nil {
			return "", fmt.Errorf("resolve data dir: %w", err)
		}
		dir = d
	}
	return filepath.Abs(dir)
}

func userDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		for _, key := range []string{"LOCALAPPDATA", "APPDATA"} {
			if v := os.Getenv(key); v != "" {
				return filepath.Join(v, AppName), nil
			}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, AppName), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName), nil
	}
}

// NewPaths lays out the data directory under root without touching disk.
func NewPaths(root string) Paths {
	p := Paths{
		Root:         root,
		DBDir:        filepath.Join(root, "db"),
		PDFDir:       filepath.Join(root, "PDFs"),
		ImagesDir:    filepath.Join(root, "imagenes"),
		SettingsPath: filepath.Join(root, "settings.yaml"),
		EnvPath:      filepath.Join(root, ".env"),
	}
	p.DBPath = filepath.Join(p.DBDir, DBFileName)
	p.LogoPath = filepath.Join(p.ImagesDir, "logo.png")
	return p
}

// Prepare creates the data directories and moves a database left behind by
// an older layout into db/. A database already present in db/ is never
// replaced.
func Prepare(root string, log *slog.Logger) (Paths, error) {
	if log == nil {
		log = slog.Default()
	}
	p := NewPaths(root)

	for _, dir := range []string{p.DBDir, p.PDFDir, p.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	candidates := []string{filepath.Join(root, DBFileName)}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), DBFileName))
	}
	moved, err := relocate(candidates, p.DBPath)
	if err != nil {
		// The old file stays where it is; a fresh database is created instead.
		log.Warn("legacy database not moved", "error", err)
	} else if moved != "" {
		log.Info("legacy database moved", "from", moved, "to", p.DBPath)
	}
	return p, nil
}

// relocate renames the first existing candidate to target, unless target
// already exists. It returns the moved path, or "" when nothing moved.
func relocate(candidates []string, target string) (string, error) {
	if _, err := os.Stat(target); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	for _, old := range candidates {
		if _, err := os.Stat(old); err != nil {
			continue
		}
		if err := os.Rename(old, target); err != nil {
			return "", fmt.Errorf("move %s: %w", old, err)
		}
		return old, nil
	}
	return "", nil
}

// Package backup uploads a compressed snapshot of the database to remote
// object storage.
//
// A backup is all-or-nothing: it either uploads one complete archive or
// fails with a BACKUP error. Whether backups are possible at all is decided
// once, when the Service is built.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/roach88/consultorio/internal/apperr"
)

// Snapshotter writes a consistent copy of the database to dest.
type Snapshotter interface {
	Snapshot(ctx context.Context, dest string) error
}

// Uploader stores one object remotely.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Service runs backups.
type Service struct {
	snap      Snapshotter
	up        Uploader
	available bool

	folder  string
	dbName  string
	tempDir string
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFolder sets the remote folder archives are stored under.
func WithFolder(folder string) Option {
	return func(s *Service) { s.folder = folder }
}

// WithDBName sets the database file name inside the archive.
func WithDBName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.dbName = name
		}
	}
}

// WithTempDir sets where archives are staged before upload.
func WithTempDir(dir string) Option {
	return func(s *Service) { s.tempDir = dir }
}

// WithClock sets the time source used to name archives.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Service. Backups are available only when both a
// snapshotter and an uploader are given.
func New(snap Snapshotter, up Uploader, opts ...Option) *Service {
	s := &Service{
		snap:    snap,
		up:      up,
		dbName:  "historias.db",
		tempDir: os.TempDir(),
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.available = snap != nil && up != nil
	return s
}

// Available reports whether BackupNow can run.
func (s *Service) Available() bool {
	return s.available
}

// ArchiveName names an archive made at t.
func ArchiveName(t time.Time) string {
	return "Backup_" + t.Format("20060102_150405") + ".zip"
}

// BackupNow snapshots the database, zips it and uploads the archive. It
// returns the remote object key. Staging files are removed either way.
func (s *Service) BackupNow(ctx context.Context) (string, error) {
	if !s.available {
		return "", apperr.Backup("backup is not configured", nil)
	}

	work := filepath.Join(s.tempDir, "consultorio-backup-"+uuid.NewString())
	if err := os.MkdirAll(work, 0o700); err != nil {
		return "", apperr.Backup("failed to create staging directory", err)
	}
	defer os.RemoveAll(work)

	dbCopy := filepath.Join(work, s.dbName)
	if err := s.snap.Snapshot(ctx, dbCopy); err != nil {
		return "", apperr.Backup("failed to snapshot database", err)
	}

	name := ArchiveName(s.now())
	archive := filepath.Join(work, name)
	if err := zipFile(archive, dbCopy, s.dbName, s.now()); err != nil {
		return "", apperr.Backup("failed to compress snapshot", err)
	}

	f, err := os.Open(archive)
	if err != nil {
		return "", apperr.Backup("failed to open archive", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", apperr.Backup("failed to open archive", err)
	}

	key := name
	if s.folder != "" {
		key = s.folder + "/" + name
	}
	if err := s.up.Upload(ctx, key, f, info.Size(), "application/zip"); err != nil {
		return "", apperr.Backup("failed to upload archive", err)
	}

	s.log.Info("backup uploaded", "key", key, "bytes", info.Size())
	return key, nil
}

// zipFile writes an archive at dest holding src under the given name.
func zipFile(dest, src, name string, modified time.Time) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err == nil {
		_, err = io.Copy(w, in)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("zip %s: %w", name, err)
	}
	return nil
}

package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/consultorio/internal/app"
	"github.com/roach88/consultorio/internal/backup"
	"github.com/roach88/consultorio/internal/config"
	"github.com/roach88/consultorio/internal/export"
	"github.com/roach88/consultorio/internal/layout"
	"github.com/roach88/consultorio/internal/store"
)

// session is everything a command needs for one invocation: the resolved
// data directory, the settings, the open store and the actions built on it.
type session struct {
	paths    config.Paths
	settings *config.SettingsStore
	store    *store.Store
	app      *app.App
	out      *OutputFormatter
	log      *slog.Logger
}

// newLogger configures logging based on the verbose flag.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openConfig resolves the data directory and loads the settings without
// opening the database.
func openConfig(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	log := newLogger(opts.Verbose, cmd.ErrOrStderr())

	root, err := config.ResolveRoot(opts.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve data directory", err)
	}
	paths, err := config.Prepare(root, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to prepare data directory", err)
	}
	settings, err := config.LoadSettings(paths.SettingsPath, config.DefaultSettings(paths))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	out := newFormatter(opts, cmd)
	out.VerboseLog("data directory: %s", paths.Root)
	out.VerboseLog("settings: %s", paths.SettingsPath)

	return &session{
		paths:    paths,
		settings: settings,
		out:      out,
		log:      log,
	}, nil
}

// openSession opens the store and wires the actions. The caller must Close it.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	s, err := openConfig(opts, cmd)
	if err != nil {
		return nil, err
	}

	s.out.VerboseLog("database: %s", s.paths.DBPath)
	st, err := store.Open(s.paths.DBPath, store.WithLogger(s.log))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s.store = st

	eff := s.settings.Effective()
	renderer := layout.New(eff.PDFOutputDir,
		layout.WithTitle(eff.ClinicTitle),
		layout.WithLogo(s.paths.LogoPath),
		layout.WithFont(eff.FontPath),
		layout.WithLogger(s.log),
	)

	bcfg, err := config.LoadBackupConfig(s.paths.EnvPath)
	if err != nil {
		s.log.Warn("backup disabled", "error", err)
		bcfg = config.BackupConfig{}
	}
	bk := backup.FromConfig(st, bcfg, backup.WithLogger(s.log))
	s.out.VerboseLog("pdf directory: %s", eff.PDFOutputDir)
	s.out.VerboseLog("backup: %s", availability(bk.Available()))

	s.app = app.New(app.Deps{
		Records:  st,
		Renderer: renderer,
		Exporter: export.New(st, s.log),
		Backup:   bk,
		Logger:   s.log,
	})
	return s, nil
}

// Close releases the database.
func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Error("error closing database", "error", err)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/consultorio/internal/config"
)

// NewConfigCommand creates the config command and its get/set/list subcommands.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change settings",
		Long: fmt.Sprintf(`Read or change settings stored in settings.yaml in the data directory.

Keys: %v`, config.Keys()),
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "get <key>",
		Short:         "Print a setting",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			v, err := s.settings.Get(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid key", err)
			}
			if s.out.Format == "json" {
				return s.out.Success(map[string]string{args[0]: v})
			}
			return s.out.Success(v)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "set <key> <value>",
		Short:         "Change a setting (an empty value restores the default)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := s.settings.Set(args[0], args[1]); err != nil {
				return WrapExitError(ExitCommandError, "failed to save setting", err)
			}
			v, _ := s.settings.Get(args[0])
			s.log.Debug("setting saved", "key", args[0], "value", v)
			if s.out.Format == "json" {
				return s.out.Success(map[string]string{args[0]: v})
			}
			return s.out.Success(fmt.Sprintf("%s = %s", args[0], v))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "Print every setting",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			if s.out.Format == "json" {
				return s.out.Success(s.settings.Effective())
			}
			for _, key := range config.Keys() {
				v, _ := s.settings.Get(key)
				fmt.Fprintf(s.out.Writer, "%s = %s\n", key, v)
			}
			return nil
		},
	})

	return cmd
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and database",
		Long: `Create the data directory layout and an empty database if none exists.

A database left in the data directory root by an older version is moved
into db/.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.store.Count(cmd.Context())
			if err != nil {
				return s.out.Failure(err)
			}
			info := map[string]any{
				"data_dir": s.paths.Root,
				"database": s.paths.DBPath,
				"pdf_dir":  s.settings.Effective().PDFOutputDir,
				"records":  n,
				"backup":   s.app.BackupAvailable(),
			}
			if s.out.Format == "json" {
				return s.out.Success(info)
			}
			fmt.Fprintf(s.out.Writer, "Data directory: %s\n", s.paths.Root)
			fmt.Fprintf(s.out.Writer, "Database:       %s (%d records)\n", s.paths.DBPath, n)
			fmt.Fprintf(s.out.Writer, "PDF directory:  %s\n", info["pdf_dir"])
			fmt.Fprintf(s.out.Writer, "Backup:         %s\n", availability(s.app.BackupAvailable()))
			return nil
		},
	}
	return cmd
}

func availability(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

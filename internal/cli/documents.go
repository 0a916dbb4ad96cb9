package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/consultorio/internal/app"
)

// NewPDFCommand creates the pdf command.
func NewPDFCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Generate the PDF document of a clinical history",
		Long: `Generate the PDF document of a clinical history.

The file is written as Historia_{nombre}_{dni}.pdf in the configured PDF
directory (see "historias config get pdf_output_dir"), replacing any file
with the same name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			selected, err := s.app.Select(cmd.Context(), id)
			if err != nil {
				return s.out.Failure(err)
			}
			path, err := s.app.GeneratePDF(selected)
			if err != nil {
				return s.out.Failure(err)
			}
			return s.out.Notice(app.Info("PDF", "PDF guardado en: "+path), map[string]string{"path": path})
		},
	}
	return cmd
}

// ExportOptions holds flags for the export-csv command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export-csv command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export every clinical history as CSV",
		Long: `Export every clinical history as a semicolon-separated CSV file.

The file is UTF-8 with a byte-order mark. Without --output it is written to
historias_YYYYMMDD_HHMMSS.csv in the current directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			path, n, err := s.app.ExportCSV(cmd.Context(), opts.Output)
			if err != nil {
				return s.out.Failure(err)
			}
			return s.out.Notice(
				app.Info("CSV", fmt.Sprintf("Se exportaron %d filas a: %s", n, path)),
				map[string]any{"path": path, "rows": n},
			)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file")
	return cmd
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a compressed copy of the database",
		Long: `Upload a compressed copy of the database to object storage.

Credentials are read from the .env file in the data directory or from the
environment: CONSULTORIO_BACKUP_ENDPOINT, CONSULTORIO_BACKUP_ACCESS_KEY,
CONSULTORIO_BACKUP_SECRET_KEY, CONSULTORIO_BACKUP_BUCKET, and optionally
CONSULTORIO_BACKUP_FOLDER and CONSULTORIO_BACKUP_USE_SSL.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			key, err := s.app.Backup(cmd.Context())
			if err != nil {
				return s.out.Failure(err)
			}
			return s.out.Notice(app.Info("Backup", app.MsgBackupDone+": "+key), map[string]string{"key": key})
		},
	}
	return cmd
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/consultorio/internal/app"
	"github.com/roach88/consultorio/internal/form"
	"github.com/roach88/consultorio/internal/record"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var fields *fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new clinical history",
		Long: `Save a new clinical history.

Field values come from flags, from a YAML file (--file), or both; flags win.
nombre and dni are required.

Examples:
  historias add --nombre "Juan Perez" --dni 30123456 --edad 70
  historias add --file paciente.yaml --telefono 11-2345-6789`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			f := form.New()
			if err := fields.apply(cmd, f); err != nil {
				return WrapExitError(ExitCommandError, "invalid input", err)
			}
			saved, err := s.app.Save(cmd.Context(), f)
			if err != nil {
				return s.out.Failure(err)
			}
			return s.out.Notice(app.Info("Éxito", fmt.Sprintf("%s (id %d)", app.MsgSaved, saved.ID)), saved)
		},
	}

	fields = bindFieldFlags(cmd)
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var fields *fieldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a clinical history",
		Long: `Update a clinical history.

The stored values are loaded first; only the fields given as flags or in
the YAML file change. Pass an empty value (--email "") to clear a field.

Example:
  historias update 3 --edad 71 --evolucion-seguimiento "Control en 30 días"`,
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

			f := form.New()
			f.Load(*selected)
			if err := fields.apply(cmd, f); err != nil {
				return WrapExitError(ExitCommandError, "invalid input", err)
			}
			updated, err := s.app.Update(cmd.Context(), selected, f)
			if err != nil {
				return s.out.Failure(err)
			}
			return s.out.Notice(app.Info("Éxito", app.MsgUpdated), updated)
		},
	}

	fields = bindFieldFlags(cmd)
	return cmd
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a clinical history",
		Long: `Delete a clinical history permanently.

The command asks for confirmation unless --yes is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			selected, err := s.app.Select(cmd.Context(), id)
			if err != nil {
				return s.out.Failure(err)
			}

			var confirm func(record.Patient) bool
			if !opts.Yes {
				confirm = func(p record.Patient) bool {
					return askYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(),
						fmt.Sprintf("%s (%s, DNI %s)", app.MsgConfirmDelete, p.Nombre, p.DNI))
				}
			}

			deleted, err := s.app.Delete(cmd.Context(), selected, confirm)
			if err != nil {
				return s.out.Failure(err)
			}
			if !deleted {
				return s.out.Notice(app.Info("Borrar", "Cancelado"), map[string]any{"id": id, "deleted": false})
			}
			return s.out.Notice(app.Info("Borrar", app.MsgDeleted), map[string]any{"id": id, "deleted": true})
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "delete without asking")
	return cmd
}

// askYesNo prints question and reads one answer line. Anything other than
// an explicit yes is a no.
func askYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [s/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/consultorio/internal/record"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search string
	By     string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clinical histories",
		Long: `List clinical histories in insertion order.

--search keeps the records whose name (or DNI, with --by dni) contains the
given text. Matching is case-sensitive.

Examples:
  historias list
  historias list --search Perez
  historias list --search 3012 --by dni --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.app.Search(cmd.Context(), opts.Search, opts.By)
			if err != nil {
				return s.out.Failure(err)
			}

			if s.out.Format == "json" {
				return s.out.Success(rows)
			}
			writeTable(s.out.Writer, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "substring to search for")
	cmd.Flags().StringVar(&opts.By, "by", "nombre", "field to search (nombre|dni)")
	return cmd
}

// writeTable prints the id and the list columns, one record per line.
func writeTable(w io.Writer, rows []record.Patient) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No hay historias.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := []string{record.Label(record.ID)}
	for _, col := range record.ListColumns {
		headers = append(headers, record.Label(col))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, p := range rows {
		cells := []string{fmt.Sprint(p.ID)}
		for _, col := range record.ListColumns {
			v, _ := p.Get(col)
			cells = append(cells, oneLine(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// oneLine flattens a value for a table cell.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show every field of a clinical history",
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

			p, err := s.app.Select(cmd.Context(), id)
			if err != nil {
				return s.out.Failure(err)
			}

			if s.out.Format == "json" {
				return s.out.Success(p)
			}
			writeRecord(s.out.Writer, *p)
			return nil
		},
	}
	return cmd
}

// writeRecord prints labelled fields; long fields get their own block.
func writeRecord(w io.Writer, p record.Patient) {
	fmt.Fprintf(w, "%s: %d\n", record.Label(record.ID), p.ID)
	for _, col := range record.DataColumns {
		if record.IsLong(col) {
			continue
		}
		v, _ := p.Get(col)
		fmt.Fprintf(w, "%s: %s\n", record.Label(col), v)
	}
	for _, col := range record.LongFields {
		v, _ := p.Get(col)
		fmt.Fprintf(w, "\n%s:\n", record.Label(col))
		if v == "" {
			continue
		}
		for _, line := range strings.Split(v, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

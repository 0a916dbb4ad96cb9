package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/consultorio/internal/form"
	"github.com/roach88/consultorio/internal/record"
)

// fieldFlags binds one string flag per record field, plus --file.
type fieldFlags struct {
	values map[string]*string
	file   string
}

// flagName turns a field name into its flag name: obra_social -> obra-social.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func bindFieldFlags(cmd *cobra.Command) *fieldFlags {
	ff := &fieldFlags{values: make(map[string]*string, len(record.DataColumns))}
	for _, field := range record.DataColumns {
		ff.values[field] = cmd.Flags().String(flagName(field), "", record.Label(field))
	}
	cmd.Flags().StringVarP(&ff.file, "file", "f", "", "YAML file with record fields")
	return ff
}

// apply merges the YAML file, if any, then every flag given on the command
// line. A flag set to "" clears the field.
func (ff *fieldFlags) apply(cmd *cobra.Command, f *form.Form) error {
	if ff.file != "" {
		p, err := readRecordFile(ff.file)
		if err != nil {
			return err
		}
		f.Merge(p)
	}
	for field, v := range ff.values {
		if cmd.Flags().Changed(flagName(field)) {
			f.Set(field, *v)
		}
	}
	return nil
}

// readRecordFile decodes a YAML mapping of field names to values.
func readRecordFile(path string) (record.Patient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.Patient{}, fmt.Errorf("read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p record.Patient
	if err := dec.Decode(&p); err != nil {
		return record.Patient{}, fmt.Errorf("parse %s: %w", path, err)
	}
	p.ID = 0
	return p, nil
}

// parseID parses a record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid record id %q", arg))
	}
	return id, nil
}

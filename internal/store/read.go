package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/query"
	"github.com/roach88/consultorio/internal/record"
)

var getSQL = fmt.Sprintf("SELECT %s FROM %s WHERE id = ?",
	strings.Join(record.Columns, ", "), query.Table)

// QueryAll returns every record in insertion order.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) QueryAll(ctx context.Context) ([]record.Patient, error) {
	return s.Find(ctx, query.All())
}

// QueryFiltered returns the records whose criterion field contains substring.
// An empty substring returns every record.
func (s *Store) QueryFiltered(ctx context.Context, c query.Criterion, substring string) ([]record.Patient, error) {
	return s.Find(ctx, query.Build(substring, c))
}

// Find runs a query plan and returns the matching records in insertion order.
func (s *Store) Find(ctx context.Context, plan query.Plan) ([]record.Patient, error) {
	sqlText, params, err := query.Compile(plan)
	if err != nil {
		return nil, apperr.InvalidInput("query", err.Error())
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, apperr.Storage("query", err)
	}
	defer rows.Close()

	var records []record.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, apperr.Storage("query", err)
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("query", fmt.Errorf("iterate records: %w", err))
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []record.Patient{}
	}

	return records, nil
}

// Get retrieves a single record by id. The boolean is false when no such row
// exists.
func (s *Store) Get(ctx context.Context, id int64) (record.Patient, bool, error) {
	p, err := scanPatient(s.db.QueryRowContext(ctx, getSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return record.Patient{}, false, nil
	}
	if err != nil {
		return record.Patient{}, false, apperr.Storage("get", err)
	}
	return p, true, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+query.Table).Scan(&n); err != nil {
		return 0, apperr.Storage("count", err)
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPatient scans a row selected with record.Columns.
// Columns are scanned through sql.NullString so that databases created by
// older versions, whose columns allow NULL, read back as empty strings.
func scanPatient(row scanner) (record.Patient, error) {
	var id int64
	cols := make([]sql.NullString, len(record.DataColumns))

	dest := make([]any, 0, len(record.Columns))
	dest = append(dest, &id)
	for i := range cols {
		dest = append(dest, &cols[i])
	}

	if err := row.Scan(dest...); err != nil {
		return record.Patient{}, fmt.Errorf("scan record: %w", err)
	}

	values := make([]string, len(record.Columns))
	values[0] = fmt.Sprint(id)
	for i, c := range cols {
		values[i+1] = c.String
	}

	return record.FromValues(values)
}

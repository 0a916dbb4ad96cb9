package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/query"
	"github.com/roach88/consultorio/internal/record"
)

var (
	insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		query.Table,
		strings.Join(record.DataColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(record.DataColumns)), ", "),
	)

	updateSQL = fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?",
		query.Table,
		strings.Join(record.DataColumns, " = ?, "),
	)

	deleteSQL = fmt.Sprintf("DELETE FROM %s WHERE id = ?", query.Table)
)

// dataArgs returns the record's non-key values as query parameters.
func dataArgs(p record.Patient) []any {
	values := p.DataValues()
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// Insert appends a record and returns the id assigned to it.
// p.ID is ignored. The record is not validated here.
func (s *Store) Insert(ctx context.Context, p record.Patient) (int64, error) {
	result, err := s.db.ExecContext(ctx, insertSQL, dataArgs(p)...)
	if err != nil {
		return 0, apperr.Storage("insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperr.Storage("insert", fmt.Errorf("last insert id: %w", err))
	}

	s.log.Info("record inserted", "id", id)
	return id, nil
}

// Update overwrites every non-key field of the row with the given id.
// Updating an id that does not exist is a silent no-op; callers that need
// to know check with Get first.
func (s *Store) Update(ctx context.Context, id int64, p record.Patient) error {
	args := append(dataArgs(p), id)

	result, err := s.db.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return apperr.Storage("update", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage("update", fmt.Errorf("rows affected: %w", err))
	}

	s.log.Info("record updated", "id", id, "rows", n)
	return nil
}

// Delete removes the row with the given id. Deleting a missing id is a no-op.
// Deletes are hard and irreversible.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, deleteSQL, id)
	if err != nil {
		return apperr.Storage("delete", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage("delete", fmt.Errorf("rows affected: %w", err))
	}

	s.log.Info("record deleted", "id", id, "rows", n)
	return nil
}

// Snapshot writes a consistent copy of the database to dest using
// VACUUM INTO. dest must not exist.
func (s *Store) Snapshot(ctx context.Context, dest string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return apperr.Storage("snapshot", err)
	}
	s.log.Info("database snapshot written", "path", dest)
	return nil
}

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/consultorio/internal/record"
	"github.com/roach88/consultorio/internal/store"
)

// NewStore opens a store on a fresh database file that is closed when the
// test ends.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ValidPatient returns a record that passes validation.
func ValidPatient(nombre, dni string) record.Patient {
	return record.Patient{
		Nombre:         nombre,
		DNI:            dni,
		Edad:           "70",
		Telefono:       "11-2345-6789",
		MotivoConsulta: "Control",
	}
}

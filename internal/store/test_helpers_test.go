package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/consultorio/internal/record"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPatient creates a record with the required fields and a few
// optional ones.
func createTestPatient(nombre, dni string) record.Patient {
	return record.Patient{
		Nombre:                 nombre,
		DNI:                    dni,
		Edad:                   "70",
		Telefono:               "11-2345-6789",
		AntecedentesPersonales: "HTA\nDBT tipo 2",
		MotivoConsulta:         "control",
	}
}

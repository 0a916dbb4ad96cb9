package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/record"
	"github.com/roach88/consultorio/internal/store"
)

func fixtures() []record.Patient {
	return []record.Patient{
		{
			Nombre:   "Juan Perez",
			DNI:      "30123456",
			Edad:     "70",
			Telefono: "11-2345-6789",
		},
		{
			Nombre:                 "María; Pérez",
			DNI:                    "27111222",
			Edad:                   "45",
			Domicilio:              `Calle 1, depto "B"`,
			ObraSocial:             "IOMA",
			Email:                  "maria@example.com",
			AntecedentesPersonales: "línea 1\nlínea 2",
			MotivoConsulta:         "Control",
		},
	}
}

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, p := range fixtures() {
		_, err := s.Insert(context.Background(), p)
		require.NoError(t, err)
	}
	return s
}

type failingSource struct{ err error }

func (f failingSource) QueryAll(context.Context) ([]record.Patient, error) {
	return nil, f.err
}

func TestExportAll_HeadersAndRows(t *testing.T) {
	e := New(createTestStore(t), nil)

	headers, rows, err := e.ExportAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, record.Columns, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "María; Pérez", rows[1][1])
	for _, row := range rows {
		assert.Len(t, row, len(record.Columns))
	}
}

func TestExportAll_EmptyTable(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer s.Close()

	headers, rows, err := New(s, nil).ExportAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.Columns, headers)
	assert.Empty(t, rows)
}

func TestExportAll_PropagatesStorageError(t *testing.T) {
	boom := apperr.Storage("query", errors.New("disk I/O error"))
	_, _, err := New(failingSource{err: boom}, nil).ExportAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsStorage(err))
}

func TestWrite_Golden(t *testing.T) {
	e := New(createTestStore(t), nil)
	headers, rows, err := e.ExportAll(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, headers, rows))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export", buf.Bytes())
}

func TestWrite_StartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, record.Columns, nil))
	assert.True(t, strings.HasPrefix(buf.String(), BOM+"id;nombre;dni;"))
}

// TestRoundTrip checks that reparsing an export yields the stored rows.
func TestRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := New(s, nil).WriteFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	headers, rows, err := Read(f)
	require.NoError(t, err)
	assert.Equal(t, record.Columns, headers)

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(all))
	for i, p := range all {
		got, err := record.FromValues(rows[i])
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestWriteFile_UnwritablePath(t *testing.T) {
	e := New(createTestStore(t), nil)

	_, err := e.WriteFile(context.Background(), filepath.Join(t.TempDir(), "missing", "out.csv"))
	require.Error(t, err)
	assert.True(t, apperr.IsStorage(err))
}

func TestRead_Empty(t *testing.T) {
	_, _, err := Read(strings.NewReader(BOM))
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	ts := time.Date(2024, 3, 5, 9, 7, 1, 0, time.UTC)
	assert.Equal(t, "historias_20240305_090701.csv", DefaultFileName(ts))
}

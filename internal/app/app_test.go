package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/export"
	"github.com/roach88/consultorio/internal/form"
	"github.com/roach88/consultorio/internal/layout"
	"github.com/roach88/consultorio/internal/record"
	"github.com/roach88/consultorio/internal/store"
	"github.com/roach88/consultorio/internal/testutil"
)

type fakeBackup struct {
	available bool
	key       string
	err       error
	calls     int
}

func (f *fakeBackup) Available() bool { return f.available }

func (f *fakeBackup) BackupNow(context.Context) (string, error) {
	f.calls++
	return f.key, f.err
}

type testEnv struct {
	app     *App
	records *store.Store
	pdfDir  string
	backup  *fakeBackup
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	s := testutil.NewStore(t)
	clock := testutil.NewDeterministicClock()
	pdfDir := filepath.Join(t.TempDir(), "PDFs")
	b := &fakeBackup{available: true, key: "Backups Consultorio/Backup_20240305_103000.zip"}

	a := New(Deps{
		Records:  s,
		Renderer: layout.New(pdfDir, layout.WithClock(clock.Now)),
		Exporter: export.New(s, nil),
		Backup:   b,
		Now:      clock.Now,
	})
	return testEnv{app: a, records: s, pdfDir: pdfDir, backup: b}
}

func filledForm(p record.Patient) *form.Form {
	f := form.New()
	f.Load(p)
	return f
}

func TestSave_InsertsAndClearsForm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := filledForm(testutil.ValidPatient("Juan Perez", "30123456"))

	saved, err := env.app.Save(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.True(t, f.Record().IsZero(), "form is cleared after saving")

	all, err := env.app.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved, all[0])
}

func TestSave_ValidationBlocksWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := testutil.ValidPatient("Juan Perez", "123456")
	f := filledForm(p)

	_, err := env.app.Save(ctx, f)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "123456", f.Data()[record.DNI], "form keeps the input for correction")

	all, err := env.app.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSave_TrimsValues(t *testing.T) {
	env := newTestEnv(t)
	f := form.New()
	f.Set(record.Nombre, "  Ana  ")
	f.Set(record.DNI, " 1234567 ")

	saved, err := env.app.Save(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "Ana", saved.Nombre)
	assert.Equal(t, "1234567", saved.DNI)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	saved, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Ana", "1234567")))
	require.NoError(t, err)

	changed := saved
	changed.Edad = "71"
	updated, err := env.app.Update(ctx, &saved, filledForm(changed))
	require.NoError(t, err)
	assert.Equal(t, changed, updated)

	got, err := env.app.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "71", got.Edad)
}

func TestUpdate_KeepsUntouchedFieldsVerbatim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stored := testutil.ValidPatient("Juan  Perez", "30123456")
	stored.Domicilio = "Calle 1\nDepto 2"
	stored.MotivoConsulta = "dolor\nfiebre"
	id, err := env.records.Insert(ctx, stored)
	require.NoError(t, err)
	stored.ID = id

	selected, err := env.app.Select(ctx, id)
	require.NoError(t, err)
	f := filledForm(*selected)
	f.Set(record.Edad, "71")

	_, err = env.app.Update(ctx, selected, f)
	require.NoError(t, err)

	got, err := env.app.Select(ctx, id)
	require.NoError(t, err)
	want := stored
	want.Edad = "71"
	assert.Equal(t, want, *got)
}

func TestUpdate_RequiresSelection(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.Update(context.Background(), nil, form.New())
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, MsgSelectToUpdate, apperr.MessageOf(err))
}

func TestUpdate_MissingRecordIsReported(t *testing.T) {
	env := newTestEnv(t)
	ghost := testutil.ValidPatient("Nadie", "1234567")
	ghost.ID = 404

	_, err := env.app.Update(context.Background(), &ghost, filledForm(ghost))
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, MsgNotFound, apperr.MessageOf(err))
}

func TestUpdate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	saved, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Ana", "1234567")))
	require.NoError(t, err)

	bad := saved
	bad.Edad = "121"
	_, err = env.app.Update(ctx, &saved, filledForm(bad))
	assert.True(t, apperr.IsValidation(err))
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Ana", "1234567")))
	require.NoError(t, err)
	b, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Beto", "7654321")))
	require.NoError(t, err)

	var asked record.Patient
	deleted, err := env.app.Delete(ctx, &a, func(p record.Patient) bool {
		asked = p
		return true
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, a, asked)

	all, err := env.app.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record.Patient{b}, all)
}

func TestDelete_Declined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Ana", "1234567")))
	require.NoError(t, err)

	deleted, err := env.app.Delete(ctx, &a, func(record.Patient) bool { return false })
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := env.app.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDelete_RequiresSelection(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.Delete(context.Background(), nil, nil)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, MsgSelectToDelete, apperr.MessageOf(err))
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, p := range []record.Patient{
		testutil.ValidPatient("Juan Perez", "30123456"),
		testutil.ValidPatient("Pedro Gomez", "27111222"),
	} {
		_, err := env.app.Save(ctx, filledForm(p))
		require.NoError(t, err)
	}

	got, err := env.app.Search(ctx, "  Perez ", "nombre")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Juan Perez", got[0].Nombre)

	got, err = env.app.Search(ctx, "271", "dni")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pedro Gomez", got[0].Nombre)

	got, err = env.app.Search(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = env.app.Search(ctx, "x", "email")
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestSelect_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.Select(context.Background(), 9)
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestGeneratePDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	saved, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Juan Perez", "30123456")))
	require.NoError(t, err)

	path, err := env.app.GeneratePDF(&saved)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.pdfDir, "Historia_Juan Perez_30123456.pdf"), path)
	assert.FileExists(t, path)

	_, err = env.app.GeneratePDF(nil)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, MsgSelectToPDF, apperr.MessageOf(err))
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.app.Save(ctx, filledForm(testutil.ValidPatient("Ana", "1234567")))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	got, n, err := env.app.ExportCSV(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 1, n)
	assert.FileExists(t, path)
}

func TestExportCSV_DefaultName(t *testing.T) {
	env := newTestEnv(t)
	t.Chdir(t.TempDir())

	path, n, err := env.app.ExportCSV(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "historias_20240305_103000.csv", path)
	assert.Equal(t, 0, n)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestBackup(t *testing.T) {
	env := newTestEnv(t)

	assert.True(t, env.app.BackupAvailable())
	key, err := env.app.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, env.backup.key, key)
}

func TestBackup_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.backup.available = false

	assert.False(t, env.app.BackupAvailable())
	_, err := env.app.Backup(context.Background())
	assert.True(t, apperr.IsBackup(err))
	assert.Zero(t, env.backup.calls)

	noBackup := New(Deps{Records: testutil.NewStore(t)})
	assert.False(t, noBackup.BackupAvailable())
}

func TestBackup_FailurePropagates(t *testing.T) {
	env := newTestEnv(t)
	env.backup.err = apperr.Backup("failed to upload archive", errors.New("timeout"))

	_, err := env.app.Backup(context.Background())
	assert.True(t, apperr.IsBackup(err))
}

// TestScenario_SaveListDelete walks the documented end-to-end example.
func TestScenario_SaveListDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := form.New()
	f.Set(record.Nombre, "Juan Perez")
	f.Set(record.DNI, "30123456")
	f.Set(record.Edad, "70")
	f.Set(record.Telefono, "11-2345-6789")

	saved, err := env.app.Save(ctx, f)
	require.NoError(t, err)

	all, err := env.app.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].ID)

	deleted, err := env.app.Delete(ctx, &saved, nil)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err = env.app.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

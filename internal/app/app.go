// Package app holds the user actions of the application.
//
// Every action is a single synchronous call. The currently selected record
// is passed in explicitly; nothing here keeps selection state. Errors are
// returned with an apperr kind so the presentation layer can turn them into
// notifications with Notify.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/export"
	"github.com/roach88/consultorio/internal/form"
	"github.com/roach88/consultorio/internal/layout"
	"github.com/roach88/consultorio/internal/query"
	"github.com/roach88/consultorio/internal/record"
	"github.com/roach88/consultorio/internal/validate"
)

// Records is the persistence the actions need.
type Records interface {
	Insert(ctx context.Context, p record.Patient) (int64, error)
	Update(ctx context.Context, id int64, p record.Patient) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (record.Patient, bool, error)
	Find(ctx context.Context, plan query.Plan) ([]record.Patient, error)
}

// Renderer produces the printable document for one record.
type Renderer interface {
	Render(p *record.Patient) (layout.Result, error)
}

// Exporter writes the whole table to a file and returns the row count.
type Exporter interface {
	WriteFile(ctx context.Context, path string) (int, error)
}

// Backuper is the backup collaborator.
type Backuper interface {
	Available() bool
	BackupNow(ctx context.Context) (string, error)
}

// Deps are the collaborators of an App. Renderer, Exporter and Backup may
// be nil; the matching actions then fail.
type Deps struct {
	Records  Records
	Renderer Renderer
	Exporter Exporter
	Backup   Backuper
	Now      func() time.Time
	Logger   *slog.Logger
}

// App runs user actions.
type App struct {
	records  Records
	renderer Renderer
	exporter Exporter
	backup   Backuper
	now      func() time.Time
	log      *slog.Logger
}

// New creates an App.
func New(d Deps) *App {
	a := &App{
		records:  d.Records,
		renderer: d.Renderer,
		exporter: d.Exporter,
		backup:   d.Backup,
		now:      d.Now,
		log:      d.Logger,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a
}

// Save validates the form and inserts a new record. On success the form is
// cleared and the stored record, with its id, is returned.
func (a *App) Save(ctx context.Context, f *form.Form) (record.Patient, error) {
	if err := validate.Check(f.Data()); err != nil {
		return record.Patient{}, err
	}

	p := f.Record()
	id, err := a.records.Insert(ctx, p)
	if err != nil {
		return record.Patient{}, err
	}
	p.ID = id

	f.Clear()
	a.log.Debug("record saved", "id", id)
	return p, nil
}

// Update overwrites the selected record with the form values. The record
// must still exist.
func (a *App) Update(ctx context.Context, selected *record.Patient, f *form.Form) (record.Patient, error) {
	current, err := a.existing(ctx, "update", selected, MsgSelectToUpdate)
	if err != nil {
		return record.Patient{}, err
	}
	if err := validate.Check(f.Data()); err != nil {
		return record.Patient{}, err
	}

	p := f.Record()
	if err := a.records.Update(ctx, current.ID, p); err != nil {
		return record.Patient{}, err
	}
	p.ID = current.ID

	f.Clear()
	a.log.Debug("record updated", "id", p.ID)
	return p, nil
}

// Delete removes the selected record after confirm approves it. A nil
// confirm deletes without asking. It reports whether a row was removed.
func (a *App) Delete(ctx context.Context, selected *record.Patient, confirm func(record.Patient) bool) (bool, error) {
	current, err := a.existing(ctx, "delete", selected, MsgSelectToDelete)
	if err != nil {
		return false, err
	}
	if confirm != nil && !confirm(current) {
		return false, nil
	}
	if err := a.records.Delete(ctx, current.ID); err != nil {
		return false, err
	}
	a.log.Debug("record deleted", "id", current.ID)
	return true, nil
}

// Select loads the record with the given id.
func (a *App) Select(ctx context.Context, id int64) (*record.Patient, error) {
	p, found, err := a.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.InvalidInput("select", MsgNotFound)
	}
	return &p, nil
}

// Search returns the records whose criterion field contains q. An empty q
// returns every record.
func (a *App) Search(ctx context.Context, q, criterion string) ([]record.Patient, error) {
	c, err := query.ParseCriterion(criterion)
	if err != nil {
		return nil, apperr.InvalidInput("search", err.Error())
	}
	return a.records.Find(ctx, query.Build(q, c))
}

// Refresh returns every record.
func (a *App) Refresh(ctx context.Context) ([]record.Patient, error) {
	return a.records.Find(ctx, query.All())
}

// GeneratePDF renders the selected record and returns the file path.
func (a *App) GeneratePDF(selected *record.Patient) (string, error) {
	if selected == nil {
		return "", apperr.InvalidInput("pdf", MsgSelectToPDF)
	}
	if a.renderer == nil {
		return "", apperr.Render("no document renderer configured", nil)
	}
	res, err := a.renderer.Render(selected)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// ExportCSV writes every record to path, or to a timestamped file in the
// working directory when path is empty. It returns the path and row count.
func (a *App) ExportCSV(ctx context.Context, path string) (string, int, error) {
	if a.exporter == nil {
		return "", 0, apperr.Storage("export", errNoExporter)
	}
	if path == "" {
		path = export.DefaultFileName(a.now())
	}
	n, err := a.exporter.WriteFile(ctx, path)
	if err != nil {
		return "", 0, err
	}
	return path, n, nil
}

// BackupAvailable reports whether the backup trigger should be enabled.
func (a *App) BackupAvailable() bool {
	return a.backup != nil && a.backup.Available()
}

// Backup uploads a snapshot of the database and returns its remote key.
func (a *App) Backup(ctx context.Context) (string, error) {
	if !a.BackupAvailable() {
		return "", apperr.Backup(MsgBackupUnavailable, nil)
	}
	return a.backup.BackupNow(ctx)
}

// existing resolves a selection to the stored record.
func (a *App) existing(ctx context.Context, op string, selected *record.Patient, missing string) (record.Patient, error) {
	if selected == nil {
		return record.Patient{}, apperr.InvalidInput(op, missing)
	}
	current, found, err := a.records.Get(ctx, selected.ID)
	if err != nil {
		return record.Patient{}, err
	}
	if !found {
		return record.Patient{}, apperr.InvalidInput(op, MsgNotFound)
	}
	return current, nil
}

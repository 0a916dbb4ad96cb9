// Package layout renders one patient record into a paginated PDF document.
//
// The page is A4 portrait in millimetres. The engine tracks vertical
// position itself instead of relying on the canvas's automatic page
// breaks, so that a section box is only ever drawn around the lines that
// landed on the current page.
package layout

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/natefinch/atomic"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/record"
)

// Page geometry, in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 18.0
	contentWidth = pageWidth - marginLeft - marginRight
	columnGap    = 10.0
	columnWidth  = (contentWidth - columnGap) / 2
	printBottom  = pageHeight - marginBottom

	lineHeight  = 5.0
	labelHeight = 5.0
	pairGap     = 2.0
	titleHeight = 7.0
	boxPadding  = 2.0
	sectionGap  = 4.0

	logoX     = 10.0
	logoY     = 8.0
	logoWidth = 40.0
)

// DefaultTitle heads every document unless another title is configured.
const DefaultTitle = "Consultorio"

// Block kinds recorded in a Result.
const (
	KindHeader  = "header"
	KindColumn  = "column"
	KindSection = "section"
)

// Block is the placement of one layout element. Top is on Page, Bottom on
// EndPage.
type Block struct {
	Kind    string
	Name    string
	Page    int
	Top     float64
	EndPage int
	Bottom  float64
}

// StartsBelow reports whether b begins at or after the end of other.
func (b Block) StartsBelow(other Block) bool {
	if b.Page != other.EndPage {
		return b.Page > other.EndPage
	}
	return b.Top >= other.Bottom
}

// Result describes a rendered document. Unicode reports whether the
// configured TrueType font was embedded; otherwise text was degraded to
// the core fonts' character set.
type Result struct {
	Path    string
	Pages   int
	Unicode bool
	Blocks  []Block
}

// Block returns the first block with the given name.
func (r Result) Block(name string) (Block, bool) {
	for _, b := range r.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}

// Engine renders documents into an output directory.
type Engine struct {
	outputDir string
	title     string
	logoPath  string
	fontPath  string
	now       func() time.Time
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTitle sets the title line of the header band.
func WithTitle(title string) Option {
	return func(e *Engine) {
		if title != "" {
			e.title = title
		}
	}
}

// WithLogo sets the image drawn top-left. A missing file is skipped.
func WithLogo(path string) Option {
	return func(e *Engine) { e.logoPath = path }
}

// WithFont sets a TrueType font covering the full character set. A font
// that cannot be loaded is skipped and text degrades to the core fonts.
func WithFont(path string) Option {
	return func(e *Engine) { e.fontPath = path }
}

// WithClock sets the time source for the footer timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine writing into outputDir.
func New(outputDir string, opts ...Option) *Engine {
	e := &Engine{
		outputDir: outputDir,
		title:     DefaultTitle,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OutputDir returns the directory documents are written to.
func (e *Engine) OutputDir() string {
	return e.outputDir
}

// Render lays out p and writes it as Historia_{nombre}_{dni}.pdf in the
// output directory, replacing any file of the same name. A nil or empty
// record is an INVALID_INPUT error; any other failure is a RENDER error and
// leaves no file behind.
func (e *Engine) Render(p *record.Patient) (Result, error) {
	if p == nil || p.IsZero() {
		return Result{}, apperr.InvalidInput("render", "no record selected")
	}

	pdf, res, err := e.layout(*p)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Result{}, apperr.Render("failed to produce document", err)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return Result{}, apperr.Render("failed to create output directory", err)
	}

	res.Path = filepath.Join(e.outputDir, FileName(*p))
	if err := atomic.WriteFile(res.Path, &buf); err != nil {
		return Result{}, apperr.Render("failed to write document", err)
	}

	e.log.Info("document rendered", "id", p.ID, "path", res.Path, "pages", res.Pages)
	return res, nil
}

// RenderRow renders a full positional row in record column order.
func (e *Engine) RenderRow(values []string) (Result, error) {
	if len(values) == 0 {
		return Result{}, apperr.InvalidInput("render", "no record selected")
	}
	p, err := record.FromValues(values)
	if err != nil {
		return Result{}, apperr.InvalidInput("render", err.Error())
	}
	return e.Render(&p)
}

// layout draws the document in memory.
func (e *Engine) layout(p record.Patient) (*fpdf.Fpdf, Result, error) {
	d := newDocument()
	if e.fontPath != "" {
		if err := d.embedFont(e.fontPath); err != nil {
			e.log.Warn("font not embedded, using core fonts", "error", err)
		}
	}
	stamp := e.now()
	d.pdf.SetCreationDate(stamp)
	d.pdf.SetModificationDate(stamp)
	d.pdf.SetFooterFunc(d.footer(stamp.Format("2006-01-02 15:04")))

	d.newPage()
	d.header(e.title, p.Nombre, e.logoPath)
	d.columns(p)
	for _, name := range record.LongFields {
		v, _ := p.Get(name)
		d.section(name, v)
	}

	if err := d.pdf.Error(); err != nil {
		return nil, Result{}, apperr.Render("layout failed", err)
	}
	return d.pdf, Result{Pages: d.pdf.PageCount(), Unicode: d.text.Unicode(), Blocks: d.blocks}, nil
}

// FileName returns the document name for p. Characters that are not valid
// in file names are replaced.
func FileName(p record.Patient) string {
	return fmt.Sprintf("Historia_%s_%s.pdf", safeName(p.Nombre), safeName(p.DNI))
}

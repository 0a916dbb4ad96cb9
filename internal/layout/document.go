package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/roach88/consultorio/internal/record"
)

const (
	coreFamily    = "Helvetica"
	unicodeFamily = "Body"
)

// document is the drawing state of one render.
type document struct {
	pdf    *fpdf.Fpdf
	text   TextNormalizer
	family string
	y      float64
	blocks []Block
}

// newDocument starts a document drawn with the core fonts and the Latin-1
// text strategy.
func newDocument() *document {
	return &document{pdf: newCanvas(), text: Latin1Text{}, family: coreFamily}
}

func newCanvas() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCatalogSort(true)
	return pdf
}

// embedFont switches the document to the TrueType font at path and the
// Unicode text strategy. It must run before the first page. On failure the
// document keeps the core fonts and the error says why.
func (d *document) embedFont(path string) error {
	if _, ok := SelectNormalizer(path).(UnicodeText); !ok {
		return fmt.Errorf("font %q: not a TrueType file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}

	pdf := newCanvas()
	if err := addUTF8Font(pdf, data); err != nil {
		return fmt.Errorf("font %q: %w", path, err)
	}
	d.pdf, d.text, d.family = pdf, UnicodeText{}, unicodeFamily
	return nil
}

// addUTF8Font registers data as the regular and bold body font. The parser
// reports a malformed file by leaving the font unregistered, and can panic
// on truncated input.
func addUTF8Font(pdf *fpdf.Fpdf, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse: %v", r)
		}
	}()

	for _, style := range []string{"", "B"} {
		pdf.AddUTF8FontFromBytes(unicodeFamily, style, data)
		if pdf.Err() {
			return pdf.Error()
		}
		if pdf.GetFontDesc(unicodeFamily, style) == (fpdf.FontDescType{}) {
			return errors.New("unreadable TrueType data")
		}
	}
	return nil
}

func (d *document) page() int { return d.pdf.PageNo() }

func (d *document) newPage() {
	d.pdf.AddPage()
	d.y = marginTop
}

// fits reports whether h more millimetres fit on the current page.
func (d *document) fits(h float64) bool {
	return d.y+h <= printBottom
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

// measure returns the width of normalized text in the current font.
func (d *document) measure(s string) float64 {
	return d.pdf.GetStringWidth(d.text.Encode(s))
}

// put draws one line of normalized text.
func (d *document) put(x, y, w, h float64, s, border, align string, fill bool) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, d.text.Encode(s), border, 0, align, fill, 0, "")
}

func (d *document) header(title, nombre, logo string) {
	top := d.y
	if h, ok := d.logo(logo); ok && logoY+h+2 > d.y {
		d.y = logoY + h + 2
	}

	d.font("B", 16)
	d.centered(title, 8)

	d.font("", 12)
	d.centered("Historia Clínica - "+nombre, 7)

	d.pdf.SetLineWidth(0.4)
	d.pdf.Line(marginLeft, d.y+2, pageWidth-marginRight, d.y+2)
	d.y += 6

	d.blocks = append(d.blocks, Block{
		Kind: KindHeader, Name: KindHeader,
		Page: d.page(), Top: top, EndPage: d.page(), Bottom: d.y,
	})
}

// centered draws s wrapped to the content width, one centred line per h.
func (d *document) centered(s string, h float64) {
	for _, line := range Wrap(d.text.Normalize(s), contentWidth, d.measure) {
		d.put(marginLeft, d.y, contentWidth, h, line, "", "C", false)
		d.y += h
	}
}

// logo draws the image if it exists and returns its rendered height.
func (d *document) logo(path string) (float64, bool) {
	if path == "" {
		return 0, false
	}
	if _, err := os.Stat(path); err != nil {
		return 0, false
	}
	opts := fpdf.ImageOptions{ReadDpi: true}
	info := d.pdf.RegisterImageOptions(path, opts)
	if info == nil || d.pdf.Err() {
		// A broken logo must not fail the document.
		d.pdf.ClearError()
		return 0, false
	}
	d.pdf.ImageOptions(path, logoX, logoY, logoWidth, 0, false, opts, 0, "")
	return info.Height() * logoWidth / info.Width(), true
}

// placement is one line of a column, planned before drawing.
type placement struct {
	page int
	y    float64
	bold bool
	text string
}

// column is the planned content and running cursor of one column.
type column struct {
	name  string
	x     float64
	page  int
	y     float64
	lines []placement
}

// advance moves the cursor to a fresh page when h does not fit.
func (c *column) advance(h float64) {
	if c.y+h > printBottom {
		c.page++
		c.y = marginTop
	}
}

func (c *column) add(h float64, bold bool, text string) {
	c.lines = append(c.lines, placement{page: c.page, y: c.y, bold: bold, text: text})
	c.y += h
}

// columns draws the short fields as two independent columns. Each column
// keeps its own cursor; afterwards the shared cursor is the lower of the
// two ends, so nothing drawn next can overlap the taller column.
func (d *document) columns(p record.Patient) {
	start, top := d.page(), d.y
	left := d.planColumn("left", marginLeft, start, p, record.LeftColumn)
	right := d.planColumn("right", marginLeft+columnWidth+columnGap, start, p, record.RightColumn)

	last := max(left.page, right.page)
	for pg := start; pg <= last; pg++ {
		if pg > start {
			d.newPage()
		}
		for _, c := range []*column{left, right} {
			for _, l := range c.lines {
				if l.page != pg {
					continue
				}
				if l.bold {
					d.font("B", 9)
				} else {
					d.font("", 10)
				}
				d.put(c.x, l.y, columnWidth, lineHeight, l.text, "", "L", false)
			}
		}
	}

	for _, c := range []*column{left, right} {
		d.blocks = append(d.blocks, Block{
			Kind: KindColumn, Name: c.name,
			Page: start, Top: top, EndPage: c.page, Bottom: c.y,
		})
	}

	switch {
	case left.page > right.page:
		d.y = left.y
	case right.page > left.page:
		d.y = right.y
	default:
		d.y = max(left.y, right.y)
	}
}

func (d *document) planColumn(name string, x float64, page int, p record.Patient, fields []string) *column {
	c := &column{name: name, x: x, page: page, y: d.y}
	for _, field := range fields {
		value, _ := p.Get(field)

		d.font("", 10)
		lines := Wrap(d.text.Normalize(value), columnWidth, d.measure)

		// Keep a label with the first line of its value.
		c.advance(labelHeight + lineHeight)
		c.add(labelHeight, true, d.text.Normalize(record.Label(field)+":"))
		for _, line := range lines {
			c.advance(lineHeight)
			c.add(lineHeight, false, line)
		}
		c.y += pairGap
	}
	return c
}

// section draws a filled title bar and a bordered box around the wrapped
// body. When the body crosses a page, each page gets its own box around
// the lines drawn there.
func (d *document) section(name, body string) {
	if !d.fits(titleHeight + lineHeight) {
		d.newPage()
	}
	startPage, top := d.page(), d.y

	d.font("B", 11)
	d.pdf.SetFillColor(220, 220, 220)
	d.pdf.SetLineWidth(0.2)
	d.put(marginLeft, d.y, contentWidth, titleHeight, d.text.Normalize(record.Label(name)), "1", "L", true)
	d.y += titleHeight

	d.font("", 10)
	lines := Wrap(d.text.Normalize(body), contentWidth-2*boxPadding, d.measure)

	boxTop := d.y
	for _, line := range lines {
		if !d.fits(lineHeight) {
			d.box(boxTop)
			d.newPage()
			d.font("", 10)
			boxTop = d.y
		}
		d.put(marginLeft+boxPadding, d.y, contentWidth-2*boxPadding, lineHeight, line, "", "L", false)
		d.y += lineHeight
	}
	d.box(boxTop)

	d.blocks = append(d.blocks, Block{
		Kind: KindSection, Name: name,
		Page: startPage, Top: top, EndPage: d.page(), Bottom: d.y,
	})
	d.y += sectionGap
}

// box outlines the lines drawn since top on the current page.
func (d *document) box(top float64) {
	if d.y > top {
		d.pdf.Rect(marginLeft, top, contentWidth, d.y-top, "D")
	}
}

func (d *document) footer(stamp string) func() {
	return func() {
		y := printBottom + 4
		d.pdf.SetDrawColor(160, 160, 160)
		d.pdf.SetLineWidth(0.2)
		d.pdf.Line(marginLeft, y, pageWidth-marginRight, y)
		d.pdf.SetDrawColor(0, 0, 0)

		d.font("", 8)
		text := fmt.Sprintf("Generated: %s · Page %d", stamp, d.page())
		d.put(marginLeft, y+1, contentWidth, 5, d.text.Normalize(text), "", "R", false)
	}
}

// maxNameRunes bounds each part of a document file name, keeping the whole
// name within common file system limits.
const maxNameRunes = 100

// safeName replaces characters that are not allowed in file names and
// truncates the result to maxNameRunes.
func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, s)
	if r := []rune(s); len(r) > maxNameRunes {
		s = string(r[:maxNameRunes])
	}
	return s
}

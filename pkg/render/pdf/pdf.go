// Package pdf renders the yearly report as a printable PDF: one A4 landscape
// overview page followed by A4 portrait listing pages.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
)

// Sentinel errors.
var (
	ErrDocumentClosed = errors.New("document already closed")
	// ErrUnsupportedGlyphs is returned when a title has characters the core
	// font cannot draw. Embedding a TrueType font with WithFont fixes it.
	ErrUnsupportedGlyphs = errors.New("title has characters outside the core PDF font")
)

// Page geometry in millimetres, font sizes in points.
const (
	pageSize = "A4"
	margin   = 10.0
	gap      = 6.0

	gridColumns = 4
	gridRows    = 3
	maxWeeks    = 6

	titleHeight      = 12.0
	monthTitleHeight = 7.0
	listingRowHeight = 6.5
	dateColumnShare  = 0.3

	titleFontSize   = 20
	monthFontSize   = 13
	headerFontSize  = 11
	cellFontSize    = 9
	listingFontSize = 10
)

const (
	coreFamily = "Helvetica"
	fontFamily = "yearcal"
)

// Header row fill.
var headerFill = render.RGB{R: 0xE7, G: 0xE5, B: 0xE4}

// Option configures a Document.
type Option func(*options)

type options struct {
	fontPath string
	creator  string
}

// WithFont embeds the TrueType font at path and uses it for all text. Without
// it the core Helvetica font is used, which only covers Latin-1 titles.
func WithFont(path string) Option {
	return func(o *options) {
		o.fontPath = path
	}
}

// WithCreator sets the PDF creator metadata.
func WithCreator(creator string) Option {
	return func(o *options) {
		o.creator = creator
	}
}

// Document is a PDF document session. Pages are buffered by fpdf and written
// to the output on Close.
type Document struct {
	out    io.Writer
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
	// utf8 is set when an embedded font draws any rune.
	utf8   bool
	failed bool
	closed bool
}

// NewDocument starts a PDF session writing to out. If out is an [io.Closer]
// it is closed by Close.
func NewDocument(out io.Writer, opts ...Option) (*Document, error) {
	o := options{creator: "yearcal"}
	for _, opt := range opts {
		opt(&o)
	}

	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCreator(o.creator, true)

	doc := &Document{out: out, pdf: pdf, family: coreFamily}

	if o.fontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", o.fontPath)
		pdf.AddUTF8Font(fontFamily, "B", o.fontPath)
		doc.family = fontFamily
		doc.tr = func(s string) string { return s }
		doc.utf8 = true
	} else {
		doc.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", o.fontPath, err)
	}

	return doc, nil
}

// Pages returns the number of pages added so far.
func (d *Document) Pages() int {
	return d.pdf.PageCount()
}

// AddOverview draws the twelve month grids on one landscape page, three rows
// of four months under the year title.
func (d *Document) AddOverview(_ context.Context, overview report.Overview) error {
	if d.closed {
		return ErrDocumentClosed
	}

	d.pdf.SetTitle(overview.Title(), true)
	d.pdf.AddPageFormat("L", d.pdf.GetPageSizeStr(pageSize))

	pageW, pageH := d.pdf.GetPageSize()

	d.pdf.SetFont(d.family, "B", titleFontSize)
	d.pdf.SetXY(margin, margin)
	d.pdf.CellFormat(pageW-2*margin, titleHeight, d.tr(overview.Title()), "", 0, "C", false, 0, "")

	top := margin + titleHeight + gap/2
	blockW := (pageW - 2*margin - (gridColumns-1)*gap) / gridColumns
	blockH := (pageH - margin - top - (gridRows-1)*gap) / gridRows

	for i, grid := range overview.Months {
		x := margin + float64(i%gridColumns)*(blockW+gap)
		y := top + float64(i/gridColumns)*(blockH+gap)
		d.drawMonth(grid, x, y, blockW, blockH)
	}

	if err := d.pdf.Error(); err != nil {
		d.failed = true

		return fmt.Errorf("drawing overview: %w", err)
	}

	return nil
}

func (d *Document) drawMonth(grid calendar.MonthGrid, x, y, w, h float64) {
	d.pdf.SetFont(d.family, "B", monthFontSize)
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, monthTitleHeight, grid.Month.String(), "", 0, "C", false, 0, "")

	cellW := w / calendar.DaysPerWeek
	rowH := (h - monthTitleHeight) / (maxWeeks + 1)
	y += monthTitleHeight

	d.pdf.SetFont(d.family, "B", headerFontSize)
	d.pdf.SetFillColor(int(headerFill.R), int(headerFill.G), int(headerFill.B))

	for col, label := range calendar.WeekdayLabels {
		d.pdf.SetXY(x+float64(col)*cellW, y)
		d.pdf.CellFormat(cellW, rowH, label, "1", 0, "C", true, 0, "")
	}

	d.pdf.SetFont(d.family, "", cellFontSize)

	for row, week := range grid.Weeks {
		cy := y + float64(row+1)*rowH

		for col, cell := range week {
			d.pdf.SetXY(x+float64(col)*cellW, cy)

			text := ""
			if cell.Kind != calendar.CellPadding {
				text = strconv.Itoa(cell.Day)
			}

			fill := cell.Kind == calendar.CellEvent
			if fill {
				c := render.Shade(cell.Intensity)
				d.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
			}

			d.pdf.CellFormat(cellW, rowH, text, "1", 0, "C", fill, 0, "")
		}
	}
}

// AddListing draws one listing page on a portrait page: a bold Date/Event
// header followed by one row per event.
func (d *Document) AddListing(_ context.Context, page listing.Page) error {
	if d.closed {
		return ErrDocumentClosed
	}

	if err := d.checkGlyphs(page); err != nil {
		d.failed = true

		return err
	}

	d.pdf.AddPageFormat("P", d.pdf.GetPageSizeStr(pageSize))

	pageW, pageH := d.pdf.GetPageSize()
	tableW := pageW - 2*margin
	dateW := tableW * dateColumnShare
	titleW := tableW - dateW
	rowH := min(listingRowHeight, (pageH-2*margin)/float64(len(page.Rows)+1))

	d.pdf.SetXY(margin, margin)
	d.pdf.SetFont(d.family, "B", listingFontSize)
	d.pdf.SetFillColor(int(headerFill.R), int(headerFill.G), int(headerFill.B))
	d.pdf.CellFormat(dateW, rowH, "Date", "1", 0, "C", true, 0, "")
	d.pdf.CellFormat(titleW, rowH, "Event", "1", 1, "C", true, 0, "")

	d.pdf.SetFont(d.family, "", listingFontSize)

	for _, row := range page.Rows {
		d.pdf.SetX(margin)
		d.pdf.CellFormat(dateW, rowH, row.Date, "1", 0, "C", false, 0, "")
		d.pdf.CellFormat(titleW, rowH, d.tr(row.Title), "1", 1, "C", false, 0, "")
	}

	if err := d.pdf.Error(); err != nil {
		d.failed = true

		return fmt.Errorf("drawing listing page %d: %w", page.Number, err)
	}

	return nil
}

// checkGlyphs reports the first title the core font would draw as dots.
func (d *Document) checkGlyphs(page listing.Page) error {
	if d.utf8 {
		return nil
	}

	for _, row := range page.Rows {
		if r, ok := d.unsupportedRune(row.Title); ok {
			return fmt.Errorf("%w: %q (%s) has %q; embed a TrueType font", ErrUnsupportedGlyphs, row.Title, row.Date, r)
		}
	}

	return nil
}

// unsupportedRune returns the first rune of s the translator replaces with
// a dot.
func (d *Document) unsupportedRune(s string) (rune, bool) {
	for _, r := range s {
		if r < utf8.RuneSelf || r == '.' {
			continue
		}

		if d.tr(string(r)) == "." {
			return r, true
		}
	}

	return 0, false
}

// Close writes the PDF to the output. After a failed page nothing is
// written.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true

	var outErr error
	if !d.failed {
		if err := d.pdf.Output(d.out); err != nil {
			outErr = fmt.Errorf("writing pdf: %w", err)
		}
	}

	var closeErr error
	if c, ok := d.out.(io.Closer); ok {
		closeErr = c.Close()
	}

	return errors.Join(outErr, closeErr)
}

var _ report.Document = (*Document)(nil)

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
)

// ErrDocumentClosed is returned when pages are added after Close.
var ErrDocumentClosed = errors.New("document already closed")

const (
	cellWidth    = 3
	monthWidth   = calendar.DaysPerWeek * cellWidth
	monthGap     = 3
	maxColumns   = 4
	maxWeekRows  = 6
	noColorEvent = "*"
)

// Document writes the report preview to a terminal.
type Document struct {
	out    io.Writer
	cfg    Config
	title  *color.Color
	closed bool
}

// NewDocument starts a preview session writing to out.
func NewDocument(out io.Writer, cfg Config) *Document {
	return &Document{
		out:   out,
		cfg:   cfg,
		title: newColor(cfg, color.Bold),
	}
}

func newColor(cfg Config, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if cfg.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}

	return c
}

// columns returns how many months fit side by side.
func (d *Document) columns() int {
	cols := (d.cfg.Width + monthGap) / (monthWidth + monthGap)

	return min(max(cols, 1), maxColumns)
}

// AddOverview prints the twelve month grids with event days shaded.
func (d *Document) AddOverview(_ context.Context, overview report.Overview) error {
	if d.closed {
		return ErrDocumentClosed
	}

	var sb strings.Builder

	sb.WriteString(d.title.Sprint(overview.Title()))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d events, at most %d on a single day\n\n", overview.TotalEvents, overview.MaxDailyCount)

	cols := d.columns()
	months := overview.Months[:]

	for start := 0; start < len(months); start += cols {
		row := months[start:min(start+cols, len(months))]
		d.writeMonthRow(&sb, row)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(d.out, sb.String())
	if err != nil {
		return fmt.Errorf("writing overview: %w", err)
	}

	return nil
}

func (d *Document) writeMonthRow(sb *strings.Builder, months []calendar.MonthGrid) {
	gap := strings.Repeat(" ", monthGap)
	lines := make([][]string, len(months))

	for i, grid := range months {
		lines[i] = d.monthLines(grid)
	}

	for line := range lines[0] {
		for i := range months {
			if i > 0 {
				sb.WriteString(gap)
			}

			sb.WriteString(lines[i][line])
		}

		sb.WriteString("\n")
	}
}

// monthLines renders one month as fixed-width lines: title, weekday header
// and always six week rows so that neighbouring months line up.
func (d *Document) monthLines(grid calendar.MonthGrid) []string {
	lines := make([]string, 0, maxWeekRows+2)
	lines = append(lines, d.title.Sprint(center(grid.Month.String(), monthWidth)))

	var header strings.Builder
	for _, label := range calendar.WeekdayLabels {
		fmt.Fprintf(&header, "%-*s", cellWidth, label[:2])
	}

	lines = append(lines, d.title.Sprint(header.String()))

	for _, week := range grid.Weeks {
		var sb strings.Builder
		for _, cell := range week {
			sb.WriteString(d.cell(cell))
		}

		lines = append(lines, sb.String())
	}

	for len(lines) < maxWeekRows+2 {
		lines = append(lines, strings.Repeat(" ", monthWidth))
	}

	return lines
}

func (d *Document) cell(cell calendar.DayCell) string {
	switch cell.Kind {
	case calendar.CellPadding:
		return strings.Repeat(" ", cellWidth)
	case calendar.CellEvent:
		if d.cfg.NoColor {
			return fmt.Sprintf("%2d%s", cell.Day, noColorEvent)
		}

		shade := render.Shade(cell.Intensity)
		c := newColor(d.cfg, color.FgBlack)
		c.AddBgRGB(int(shade.R), int(shade.G), int(shade.B))

		return c.Sprintf("%2d", cell.Day) + " "
	default:
		return fmt.Sprintf("%2d ", cell.Day)
	}
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}

	left := pad / 2

	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// AddListing prints one listing page as a table.
func (d *Document) AddListing(_ context.Context, page listing.Page) error {
	if d.closed {
		return ErrDocumentClosed
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetTitle("Events, page %d", page.Number)
	tbl.AppendHeader(table.Row{"Date", "Event"})

	for _, row := range page.Rows {
		tbl.AppendRow(table.Row{row.Date, row.Title})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d events", len(page.Rows))})

	_, err := io.WriteString(d.out, tbl.Render()+"\n\n")
	if err != nil {
		return fmt.Errorf("writing listing page %d: %w", page.Number, err)
	}

	return nil
}

// Close ends the session. The output is left open.
func (d *Document) Close() error {
	d.closed = true

	return nil
}

var _ report.Document = (*Document)(nil)

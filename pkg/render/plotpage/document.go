package plotpage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
)

// ErrDocumentClosed is returned when pages are added after Close.
var ErrDocumentClosed = errors.New("document already closed")

// Listing table headers.
var listingHeaders = []string{"Date", "Event"}

// Document collects report pages into one HTML page and writes it on Close.
type Document struct {
	out    io.Writer
	page   *Page
	closed bool
}

// NewDocument starts an HTML document session writing to out. If out is an
// [io.Closer] it is closed by Close.
func NewDocument(out io.Writer, theme Theme) *Document {
	return &Document{
		out:  out,
		page: NewPage("Calendar", "").WithTheme(theme),
	}
}

// AddOverview adds the month grids and the daily density heatmap.
func (d *Document) AddOverview(_ context.Context, overview report.Overview) error {
	if d.closed {
		return ErrDocumentClosed
	}

	d.page.Title = overview.Title()
	d.page.Description = fmt.Sprintf("%d events, at most %d on a single day", overview.TotalEvents, overview.MaxDailyCount)

	months := overview.Months[:]

	d.page.Add(Section{
		Title: overview.Title(),
		Chart: NewMonthGrids(months, d.page.Theme),
	})

	if overview.TotalEvents > 0 {
		d.page.Add(Section{
			Title:    "Daily density",
			Subtitle: "Events per day, by week of the year",
			Chart:    NewDensityHeatMap(months, overview.MaxDailyCount, d.page.Style, d.page.Theme),
			Hint: Hint{
				Title: "Reading the chart",
				Items: []string{
					"Each column is a Monday-first week; rows are weekdays.",
					"Darker cells hold more events, on the same scale as the month grids.",
				},
			},
		})
	}

	return nil
}

// AddListing adds one page of the chronological listing.
func (d *Document) AddListing(_ context.Context, page listing.Page) error {
	if d.closed {
		return ErrDocumentClosed
	}

	table := NewTable(listingHeaders).WithStriped(true)
	for _, row := range page.Rows {
		table.AddRow(row.Date, row.Title)
	}

	d.page.Add(Section{
		Title: fmt.Sprintf("Events, page %d", page.Number),
		Chart: table,
	})

	return nil
}

// Close renders the collected pages to the output.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true

	renderErr := d.page.Render(d.out)

	var closeErr error
	if c, ok := d.out.(io.Closer); ok {
		closeErr = c.Close()
	}

	return errors.Join(renderErr, closeErr)
}

var _ report.Document = (*Document)(nil)

package pdf_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
	"github.com/Sumatoshi-tech/yearcal/pkg/render/pdf"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
)

func overviewFor(events []calendar.Event, year int) report.Overview {
	store := calendar.NewStore(events, year)

	return report.Overview{
		Year:          year,
		Months:        calendar.BuildYear(store),
		MaxDailyCount: store.MaxDailyCount(),
		TotalEvents:   store.Len(),
	}
}

func TestDocument_OverviewAndListingPages(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	doc, err := pdf.NewDocument(&out)
	require.NoError(t, err)

	ctx := context.Background()
	events := []calendar.Event{
		{Title: "Café meeting", Date: calendar.NewDate(2024, time.March, 5)},
		{Title: "Call", Date: calendar.NewDate(2024, time.March, 5)},
	}

	require.NoError(t, doc.AddOverview(ctx, overviewFor(events, 2024)))
	require.NoError(t, doc.AddListing(ctx, listing.Page{Number: 1, Rows: []listing.Row{
		{Date: "2024-03-05", Title: "Café meeting"},
		{Date: "2024-03-05", Title: "Call"},
	}}))
	require.NoError(t, doc.AddListing(ctx, listing.Page{Number: 2, Rows: []listing.Row{
		{Date: "2024-12-24", Title: "Dinner"},
	}}))

	assert.Equal(t, 3, doc.Pages())

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close())

	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out.String(), "%%EOF")

	err = doc.AddListing(ctx, listing.Page{Number: 3})
	require.ErrorIs(t, err, pdf.ErrDocumentClosed)
}

func TestDocument_EmptyYearIsOverviewOnly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	doc, err := pdf.NewDocument(&out, pdf.WithCreator("test"))
	require.NoError(t, err)

	require.NoError(t, doc.AddOverview(context.Background(), overviewFor(nil, 2023)))
	assert.Equal(t, 1, doc.Pages())
	require.NoError(t, doc.Close())
	assert.NotZero(t, out.Len())
}

func TestDocument_LongPageStillFits(t *testing.T) {
	t.Parallel()

	rows := make([]listing.Row, 120)
	for i := range rows {
		rows[i] = listing.Row{Date: "2024-01-01", Title: "Event"}
	}

	var out bytes.Buffer

	doc, err := pdf.NewDocument(&out)
	require.NoError(t, err)

	require.NoError(t, doc.AddListing(context.Background(), listing.Page{Number: 1, Rows: rows}))
	assert.Equal(t, 1, doc.Pages(), "one listing page is one PDF page")
	require.NoError(t, doc.Close())
}

func TestNewDocument_MissingFont(t *testing.T) {
	t.Parallel()

	_, err := pdf.NewDocument(&bytes.Buffer{}, pdf.WithFont(filepath.Join(t.TempDir(), "missing.ttf")))
	require.Error(t, err)
}

func TestDocument_RejectsTitlesOutsideCoreFont(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	doc, err := pdf.NewDocument(&out)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, doc.AddOverview(ctx, overviewFor(nil, 2024)))

	err = doc.AddListing(ctx, listing.Page{Number: 1, Rows: []listing.Row{
		{Date: "2024-03-05", Title: "Café... Dr. Müller"},
		{Date: "2024-03-06", Title: "会議 meeting"},
	}})
	require.ErrorIs(t, err, pdf.ErrUnsupportedGlyphs)
	assert.Contains(t, err.Error(), "会議 meeting")
	assert.Contains(t, err.Error(), "2024-03-06")

	require.NoError(t, doc.Close())
	assert.Zero(t, out.Len(), "a failed document writes nothing")
}

func TestDocument_LatinTitlesUseCoreFont(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	doc, err := pdf.NewDocument(&out)
	require.NoError(t, err)

	require.NoError(t, doc.AddListing(context.Background(), listing.Page{Number: 1, Rows: []listing.Row{
		{Date: "2024-03-05", Title: "Café meeting, 5 € fee"},
		{Date: "2024-03-06", Title: "Straße... done."},
	}}))
	require.NoError(t, doc.Close())
	assert.NotZero(t, out.Len())
}

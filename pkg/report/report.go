// Package report drives the yearly report: it aggregates events into the
// overview grids, paginates the chronological listing and hands both to a
// document session.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
)

const tracerName = "yearcal/report"

// Overview is the single page holding all twelve month grids of a year.
type Overview struct {
	Year          int
	Months        [12]calendar.MonthGrid
	MaxDailyCount int
	TotalEvents   int
}

// Title returns the overview heading, e.g. "2024 Calendar".
func (o Overview) Title() string {
	return fmt.Sprintf("%d Calendar", o.Year)
}

// Document is a rendering session. Pages are appended in order: the overview
// first, then every listing page. Close flushes the document and must be
// called on every exit path.
type Document interface {
	AddOverview(ctx context.Context, overview Overview) error
	AddListing(ctx context.Context, page listing.Page) error
	Close() error
}

// Opener starts a new document session.
type Opener func(ctx context.Context) (Document, error)

// Result carries everything the driver derived from the input.
type Result struct {
	Store    *calendar.Store
	Overview Overview
	Pages    []listing.Page
	Rows     []listing.Row
}

// Driver orchestrates the report pipeline.
type Driver struct {
	PageSize    int
	TitleLength int
	Logger      *slog.Logger
	Tracer      trace.Tracer
}

// NewDriver returns a driver with the default page size and title length.
func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{
		PageSize:    listing.DefaultPageSize,
		TitleLength: listing.DefaultTitleLength,
		Logger:      logger,
	}
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}

	return d.Logger
}

func (d *Driver) tracer() trace.Tracer {
	if d.Tracer == nil {
		return otel.Tracer(tracerName)
	}

	return d.Tracer
}

// Run filters events to year, renders the overview and listing pages into
// doc and returns the flat export rows. A year without events still gets an
// overview page.
func (d *Driver) Run(ctx context.Context, events []calendar.Event, year int, doc Document) (Result, error) {
	ctx, span := d.tracer().Start(ctx, "report.run", trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()

	if d.PageSize <= 0 {
		err := fmt.Errorf("paginate: %w: %d", listing.ErrInvalidPageSize, d.PageSize)
		span.RecordError(err)

		return Result{}, err
	}

	store := calendar.NewStore(events, year)
	span.SetAttributes(attribute.Int("events.in_year", store.Len()))

	overview := Overview{
		Year:          year,
		Months:        calendar.BuildYear(store),
		MaxDailyCount: store.MaxDailyCount(),
		TotalEvents:   store.Len(),
	}

	overviewErr := d.addOverview(ctx, doc, overview)
	if overviewErr != nil {
		span.RecordError(overviewErr)

		return Result{}, overviewErr
	}

	sorted := listing.SortChronological(store.Events())

	pages, err := listing.Paginate(sorted, d.PageSize, listing.WithTitleLength(d.TitleLength))
	if err != nil {
		span.RecordError(err)

		return Result{}, fmt.Errorf("paginate: %w", err)
	}

	listingErr := d.addListings(ctx, doc, pages)
	if listingErr != nil {
		span.RecordError(listingErr)

		return Result{}, listingErr
	}

	d.logger().InfoContext(ctx, "report rendered",
		"year", year,
		"events", store.Len(),
		"max_daily", overview.MaxDailyCount,
		"listing_pages", len(pages),
	)

	return Result{
		Store:    store,
		Overview: overview,
		Pages:    pages,
		Rows:     listing.Export(sorted),
	}, nil
}

func (d *Driver) addOverview(ctx context.Context, doc Document, overview Overview) error {
	ctx, span := d.tracer().Start(ctx, "report.overview")
	defer span.End()

	err := doc.AddOverview(ctx, overview)
	if err != nil {
		return fmt.Errorf("add overview: %w", err)
	}

	return nil
}

func (d *Driver) addListings(ctx context.Context, doc Document, pages []listing.Page) error {
	ctx, span := d.tracer().Start(ctx, "report.listing", trace.WithAttributes(attribute.Int("pages", len(pages))))
	defer span.End()

	for _, page := range pages {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("listing page %d: %w", page.Number, ctxErr)
		}

		err := doc.AddListing(ctx, page)
		if err != nil {
			return fmt.Errorf("add listing page %d: %w", page.Number, err)
		}

		d.logger().DebugContext(ctx, "listing page added", "page", page.Number, "rows", len(page.Rows))
	}

	return nil
}

// Generate opens a document, runs the driver and closes the document on
// every path. Close errors are joined with run errors.
func (d *Driver) Generate(
	ctx context.Context, open Opener, events []calendar.Event, year int,
) (res Result, err error) {
	doc, err := open(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("open document: %w", err)
	}

	defer func() {
		closeErr := doc.Close()
		if closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close document: %w", closeErr))
		}
	}()

	return d.Run(ctx, events, year, doc)
}

package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricEventsParsed   = "yearcal.events.parsed"
	metricEventsInYear   = "yearcal.events.in_year"
	metricPagesRendered  = "yearcal.pages.rendered"
	metricMaxDailyCount  = "yearcal.max_daily_count"
	metricReportDuration = "yearcal.report.duration.seconds"

	attrYear   = "year"
	attrFormat = "format"
	attrStatus = "status"

	// StatusOK marks a successful run.
	StatusOK = "ok"
	// StatusError marks a failed run.
	StatusError = "error"
)

// durationBucketBoundaries covers 10ms to 60s; a report of a few thousand
// events renders well under a second.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// RunStats describes one report run.
type RunStats struct {
	Year          int
	Format        string
	Status        string
	EventsParsed  int
	EventsInYear  int
	Pages         int
	MaxDailyCount int
	Duration      time.Duration
}

// ReportMetrics holds the OTel instruments recorded once per report run.
type ReportMetrics struct {
	eventsParsed  metric.Int64Counter
	eventsInYear  metric.Int64Counter
	pagesRendered metric.Int64Counter
	maxDailyCount metric.Int64Gauge
	duration      metric.Float64Histogram
}

// NewReportMetrics creates report metric instruments from the given meter.
func NewReportMetrics(mt metric.Meter) (*ReportMetrics, error) {
	parsed, err := mt.Int64Counter(metricEventsParsed,
		metric.WithDescription("Events read from the calendar file"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsParsed, err)
	}

	inYear, err := mt.Int64Counter(metricEventsInYear,
		metric.WithDescription("Events falling in the report year"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsInYear, err)
	}

	pages, err := mt.Int64Counter(metricPagesRendered,
		metric.WithDescription("Document pages rendered, overview included"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPagesRendered, err)
	}

	maxDaily, err := mt.Int64Gauge(metricMaxDailyCount,
		metric.WithDescription("Most events on a single day of the report year"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMaxDailyCount, err)
	}

	duration, err := mt.Float64Histogram(metricReportDuration,
		metric.WithDescription("Report generation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportDuration, err)
	}

	return &ReportMetrics{
		eventsParsed:  parsed,
		eventsInYear:  inYear,
		pagesRendered: pages,
		maxDailyCount: maxDaily,
		duration:      duration,
	}, nil
}

// RecordRun records a finished run.
func (rm *ReportMetrics) RecordRun(ctx context.Context, stats RunStats) {
	year := metric.WithAttributes(attribute.Int(attrYear, stats.Year))

	rm.eventsParsed.Add(ctx, int64(stats.EventsParsed))
	rm.eventsInYear.Add(ctx, int64(stats.EventsInYear), year)
	rm.pagesRendered.Add(ctx, int64(stats.Pages), metric.WithAttributes(
		attribute.Int(attrYear, stats.Year),
		attribute.String(attrFormat, stats.Format),
	))
	rm.maxDailyCount.Record(ctx, int64(stats.MaxDailyCount), year)
	rm.duration.Record(ctx, stats.Duration.Seconds(), metric.WithAttributes(
		attribute.String(attrFormat, stats.Format),
		attribute.String(attrStatus, stats.Status),
	))
}

// Package listing orders events chronologically and splits them into
// fixed-size pages and flat export rows.
package listing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
)

// Listing defaults.
const (
	DefaultPageSize    = 40
	DefaultTitleLength = 30
	Ellipsis           = "..."
)

// ErrInvalidPageSize is returned when the page size is not positive.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Row is one (date, title) line of a listing or export.
type Row struct {
	Date  string `yaml:"date"`
	Title string `yaml:"title"`
}

// Page is one chunk of the chronological listing. Number starts at 1.
type Page struct {
	Number int
	Rows   []Row
}

// Option configures Paginate.
type Option func(*options)

type options struct {
	titleLength int
}

// WithTitleLength sets the maximum title length in characters.
func WithTitleLength(n int) Option {
	return func(o *options) {
		o.titleLength = n
	}
}

// SortChronological returns events ordered by date. Events on the same date
// keep their relative order.
func SortChronological(events []calendar.Event) []calendar.Event {
	sorted := slices.Clone(events)

	slices.SortStableFunc(sorted, func(a, b calendar.Event) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case b.Date.Before(a.Date):
			return 1
		default:
			return 0
		}
	})

	return sorted
}

// Paginate sorts events and splits them into pages of pageSize rows with
// truncated titles. The last page may be shorter.
func Paginate(events []calendar.Event, pageSize int, opts ...Option) ([]Page, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	cfg := options{titleLength: DefaultTitleLength}
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := SortChronological(events)
	pages := make([]Page, 0, (len(sorted)+pageSize-1)/pageSize)

	for chunk := range slices.Chunk(sorted, pageSize) {
		rows := make([]Row, len(chunk))
		for i, ev := range chunk {
			rows[i] = Row{Date: ev.Date.String(), Title: TruncateTitle(ev.Title, cfg.titleLength)}
		}

		pages = append(pages, Page{Number: len(pages) + 1, Rows: rows})
	}

	return pages, nil
}

// TruncateTitle cuts title to maxLength characters and appends Ellipsis when
// it is longer. The cut may fall inside a word.
func TruncateTitle(title string, maxLength int) string {
	runes := []rune(title)
	if len(runes) <= maxLength {
		return title
	}

	return string(runes[:max(maxLength, 0)]) + Ellipsis
}

// Export flattens sorted events into rows with full titles.
func Export(sorted []calendar.Event) []Row {
	rows := make([]Row, len(sorted))
	for i, ev := range sorted {
		rows[i] = Row{Date: ev.Date.String(), Title: ev.Title}
	}

	return rows
}

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Summary is the machine-readable digest of one report run.
type Summary struct {
	RunID         string         `yaml:"run_id"`
	Year          int            `yaml:"year"`
	Events        int            `yaml:"events"`
	MaxDailyCount int            `yaml:"max_daily_count"`
	BusiestDay    string         `yaml:"busiest_day,omitempty"`
	ListingPages  int            `yaml:"listing_pages"`
	Months        []MonthSummary `yaml:"months"`
}

// MonthSummary is the per-month event total.
type MonthSummary struct {
	Month  string `yaml:"month"`
	Events int    `yaml:"events"`
}

// NewRunID returns a fresh identifier for correlating logs and outputs.
func NewRunID() string {
	return uuid.New().String()
}

// Summarize builds the summary of res.
func Summarize(runID string, res Result) Summary {
	sum := Summary{
		RunID:         runID,
		Year:          res.Overview.Year,
		Events:        res.Overview.TotalEvents,
		MaxDailyCount: res.Overview.MaxDailyCount,
		ListingPages:  len(res.Pages),
		Months:        make([]MonthSummary, 0, len(res.Overview.Months)),
	}

	if res.Store != nil {
		if day, ok := res.Store.BusiestDay(); ok {
			sum.BusiestDay = day.String()
		}

		for i, total := range res.Store.MonthTotals() {
			sum.Months = append(sum.Months, MonthSummary{Month: time.Month(i + 1).String(), Events: total})
		}
	}

	return sum
}

// WriteSummary encodes sum as YAML.
func WriteSummary(w io.Writer, sum Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(sum)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}

	return nil
}

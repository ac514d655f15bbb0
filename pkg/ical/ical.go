// Package ical reads iCalendar feeds into dated events.
package ical

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
)

// Sentinel errors.
var (
	ErrMalformedEvent = errors.New("event has no usable start date")
	ErrInputTooLarge  = errors.New("calendar file too large")
)

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

// Parse reads every VEVENT in r. The summary becomes the title and DTSTART,
// date or date-time, is truncated to its calendar date.
func Parse(r io.Reader) ([]calendar.Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	vevents := cal.Events()
	events := make([]calendar.Event, 0, len(vevents))

	for i, vevent := range vevents {
		ev, convErr := convert(vevent)
		if convErr != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i+1, propertyValue(vevent, ics.ComponentPropertyUniqueId), convErr)
		}

		events = append(events, ev)
	}

	return events, nil
}

// ParseFile opens path and parses it. Files larger than maxSize bytes are
// rejected; zero disables the limit.
func ParseFile(path string, maxSize uint64) ([]calendar.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()

	if maxSize > 0 {
		info, statErr := f.Stat()
		if statErr != nil {
			return nil, fmt.Errorf("stat calendar: %w", statErr)
		}

		if size := uint64(max(info.Size(), 0)); size > maxSize {
			return nil, fmt.Errorf("%w: %s exceeds %s", ErrInputTooLarge, humanize.Bytes(size), humanize.Bytes(maxSize))
		}
	}

	return Parse(f)
}

func convert(vevent *ics.VEvent) (calendar.Event, error) {
	start, err := vevent.GetStartAt()
	if err != nil {
		return calendar.Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	title := textUnescaper.Replace(propertyValue(vevent, ics.ComponentPropertySummary))

	return calendar.NewEvent(title, start), nil
}

func propertyValue(vevent *ics.VEvent, prop ics.ComponentProperty) string {
	p := vevent.GetProperty(prop)
	if p == nil {
		return ""
	}

	return p.Value
}

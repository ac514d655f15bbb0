package ical_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/ical"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//yearcal//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:meeting@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240305T140000Z\r\n" +
	"SUMMARY:Meeting\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:call@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240305\r\n" +
	"SUMMARY:Call\\, quick\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:review@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240306T090000Z\r\n" +
	"SUMMARY:Review\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParse(t *testing.T) {
	t.Parallel()

	events, err := ical.Parse(strings.NewReader(sampleICS))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, calendar.Event{Title: "Meeting", Date: calendar.NewDate(2024, time.March, 5)}, events[0])
	assert.Equal(t, calendar.Event{Title: "Call, quick", Date: calendar.NewDate(2024, time.March, 5)}, events[1])
	assert.Equal(t, "2024-03-06", events[2].Date.String())
}

func TestParse_MissingStartIsMalformed(t *testing.T) {
	t.Parallel()

	input := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:broken@test\r\n" +
		"SUMMARY:No start\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	_, err := ical.Parse(strings.NewReader(input))
	require.ErrorIs(t, err, ical.ErrMalformedEvent)
	assert.Contains(t, err.Error(), "broken@test")
}

func TestParse_MissingSummaryIsEmptyTitle(t *testing.T) {
	t.Parallel()

	input := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:untitled@test\r\n" +
		"DTSTART;VALUE=DATE:20241224\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ical.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Title)
	assert.Equal(t, "2024-12-24", events[0].Date.String())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte(sampleICS), 0o600))

	events, err := ical.ParseFile(path, 0)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, err = ical.ParseFile(path, 16)
	require.ErrorIs(t, err, ical.ErrInputTooLarge)

	_, err = ical.ParseFile(filepath.Join(t.TempDir(), "missing.ics"), 0)
	require.Error(t, err)
}

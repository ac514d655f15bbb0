package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
)

func ev(title, date string) calendar.Event {
	d, err := calendar.ParseDate(date)
	if err != nil {
		panic(err)
	}

	return calendar.Event{Title: title, Date: d}
}

func TestNewEvent_TruncatesTimeOfDay(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	got := calendar.NewEvent("Late call", start)

	assert.Equal(t, calendar.Date{Year: 2024, Month: time.March, Day: 5}, got.Date)
	assert.Equal(t, "2024-03-05", got.Date.String())
}

func TestDateBefore(t *testing.T) {
	t.Parallel()

	a := calendar.NewDate(2024, time.March, 5)
	b := calendar.NewDate(2024, time.March, 6)
	c := calendar.NewDate(2025, time.January, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestNewStore_DropsOtherYears(t *testing.T) {
	t.Parallel()

	store := calendar.NewStore([]calendar.Event{
		ev("Old", "2023-12-31"),
		ev("Kept", "2024-01-01"),
		ev("Next", "2025-01-01"),
	}, 2024)

	require.Equal(t, 1, store.Len())
	assert.Equal(t, "Kept", store.Events()[0].Title)
	assert.Equal(t, 2024, store.Year())
}

func TestStore_EventsOnKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	store := calendar.NewStore([]calendar.Event{
		ev("Zulu", "2024-03-05"),
		ev("Other", "2024-03-06"),
		ev("Alpha", "2024-03-05"),
	}, 2024)

	got := store.EventsOn(calendar.NewDate(2024, time.March, 5))
	require.Len(t, got, 2)
	assert.Equal(t, "Zulu", got[0].Title)
	assert.Equal(t, "Alpha", got[1].Title)

	assert.Empty(t, store.EventsOn(calendar.NewDate(2024, time.March, 7)))
}

func TestStore_MaxDailyCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []calendar.Event
		want   int
	}{
		{name: "empty", want: 0},
		{name: "single", events: []calendar.Event{ev("a", "2024-01-01")}, want: 1},
		{
			name: "leap day counts",
			events: []calendar.Event{
				ev("a", "2024-02-29"), ev("b", "2024-02-29"), ev("c", "2024-02-29"),
				ev("d", "2024-12-31"),
			},
			want: 3,
		},
		{
			name:   "other year ignored",
			events: []calendar.Event{ev("a", "2023-05-05"), ev("b", "2023-05-05")},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := calendar.NewStore(tt.events, 2024)
			assert.Equal(t, tt.want, store.MaxDailyCount())
		})
	}
}

func TestStore_BusiestDayAndMonthTotals(t *testing.T) {
	t.Parallel()

	store := calendar.NewStore([]calendar.Event{
		ev("a", "2024-07-01"),
		ev("b", "2024-03-05"),
		ev("c", "2024-03-05"),
		ev("d", "2024-07-01"),
	}, 2024)

	day, ok := store.BusiestDay()
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", day.String())

	totals := store.MonthTotals()
	assert.Equal(t, 2, totals[time.March-1])
	assert.Equal(t, 2, totals[time.July-1])
	assert.Equal(t, 0, totals[time.January-1])

	_, ok = calendar.NewStore(nil, 2024).BusiestDay()
	assert.False(t, ok)
}

func TestDaysIn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 29, calendar.DaysIn(2024, time.February))
	assert.Equal(t, 28, calendar.DaysIn(2023, time.February))
	assert.Equal(t, 28, calendar.DaysIn(1900, time.February))
	assert.Equal(t, 29, calendar.DaysIn(2000, time.February))
	assert.Equal(t, 30, calendar.DaysIn(2024, time.April))
	assert.Equal(t, 31, calendar.DaysIn(2024, time.December))
}

func TestMonthWeeks(t *testing.T) {
	t.Parallel()

	// March 2024 starts on a Friday and spans five week rows.
	weeks := calendar.MonthWeeks(2024, time.March)
	require.Len(t, weeks, 5)
	assert.Equal(t, [7]int{0, 0, 0, 0, 1, 2, 3}, weeks[0])
	assert.Equal(t, [7]int{25, 26, 27, 28, 29, 30, 31}, weeks[4])

	// February 2021 starts on a Monday and fills exactly four rows.
	feb := calendar.MonthWeeks(2021, time.February)
	require.Len(t, feb, 4)
	assert.Equal(t, 1, feb[0][0])
	assert.Equal(t, 28, feb[3][6])

	// September 2024 starts on a Sunday and needs six rows.
	sep := calendar.MonthWeeks(2024, time.September)
	require.Len(t, sep, 6)
	assert.Equal(t, 1, sep[0][6])
	assert.Equal(t, [7]int{30, 0, 0, 0, 0, 0, 0}, sep[5])
}

func TestIntensity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		count    int
		maxCount int
		want     int
	}{
		{name: "no events", count: 0, maxCount: 4, want: 255},
		{name: "half of two", count: 1, maxCount: 2, want: 155},
		{name: "at max", count: 2, maxCount: 2, want: 55},
		{name: "floor of fraction", count: 1, maxCount: 3, want: 188},
		{name: "two of three", count: 2, maxCount: 3, want: 121},
		{name: "above max clamps", count: 9, maxCount: 3, want: 55},
		{name: "zero maximum", count: 1, maxCount: 0, want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, calendar.Intensity(tt.count, tt.maxCount))
		})
	}
}

func TestIntensity_NonIncreasing(t *testing.T) {
	t.Parallel()

	for maxCount := 1; maxCount <= 25; maxCount++ {
		prev := calendar.Intensity(0, maxCount)
		require.Equal(t, calendar.MaxIntensity, prev)

		for count := 1; count <= maxCount; count++ {
			got := calendar.Intensity(count, maxCount)
			require.LessOrEqual(t, got, prev, "count=%d max=%d", count, maxCount)
			require.GreaterOrEqual(t, got, calendar.MinIntensity)

			prev = got
		}
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	assert.True(t, calendar.NewScale(0).Zero())
	assert.True(t, calendar.NewScale(-3).Zero())

	scale := calendar.NewScale(2)
	assert.False(t, scale.Zero())
	assert.Equal(t, 2, scale.Max())
	assert.Equal(t, 155, scale.Intensity(1))
}

func TestBuildMonth_ShapeAndCells(t *testing.T) {
	t.Parallel()

	store := calendar.NewStore([]calendar.Event{
		ev("Meeting", "2024-03-05"),
		ev("Call", "2024-03-05"),
		ev("Review", "2024-03-06"),
	}, 2024)

	grid := calendar.BuildMonth(store, calendar.NewScale(store.MaxDailyCount()), 2024, time.March)

	require.Len(t, grid.Weeks, calendar.Weeks(2024, time.March))
	assert.Equal(t, "March", grid.Title())

	// Leading cells before Friday the 1st are padding.
	for col := range 4 {
		assert.Equal(t, calendar.CellPadding, grid.Weeks[0][col].Kind)
	}

	days := grid.Days()
	require.Len(t, days, 31)

	for _, cell := range days {
		date := calendar.NewDate(2024, time.March, cell.Day)
		count := len(store.EventsOn(date))

		if count == 0 {
			assert.Equal(t, calendar.PlainDay(cell.Day), cell)

			continue
		}

		assert.Equal(t, calendar.CellEvent, cell.Kind)
		assert.Equal(t, count, cell.Count)
	}

	fifth, sixth := days[4], days[5]
	assert.Equal(t, 2, fifth.Count)
	assert.Equal(t, 1, sixth.Count)
	assert.Less(t, fifth.Intensity, sixth.Intensity)
}

func TestBuildYear_ShapeForEveryMonth(t *testing.T) {
	t.Parallel()

	for _, year := range []int{1999, 2000, 2023, 2024, 2100} {
		grids := calendar.BuildYear(calendar.NewStore(nil, year))

		for i, grid := range grids {
			month := time.Month(i + 1)
			require.Equal(t, month, grid.Month)
			require.Len(t, grid.Weeks, calendar.Weeks(year, month), "%d-%02d", year, month)
			require.Len(t, grid.Days(), calendar.DaysIn(year, month))

			for _, cell := range grid.Days() {
				require.Equal(t, calendar.CellPlain, cell.Kind)
			}
		}
	}
}

func TestCellKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "padding", calendar.CellPadding.String())
	assert.Equal(t, "plain", calendar.CellPlain.String())
	assert.Equal(t, "event", calendar.CellEvent.String())
	assert.Equal(t, "unknown", calendar.CellKind(42).String())
}

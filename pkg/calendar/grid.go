package calendar

import "time"

// CellKind tells padding, plain and event cells apart.
type CellKind int

// Cell kinds.
const (
	CellPadding CellKind = iota
	CellPlain
	CellEvent
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellPadding:
		return "padding"
	case CellPlain:
		return "plain"
	case CellEvent:
		return "event"
	default:
		return "unknown"
	}
}

// DayCell is one cell of a month grid. Day is 0 for padding; Count and
// Intensity are set only for CellEvent.
type DayCell struct {
	Kind      CellKind
	Day       int
	Count     int
	Intensity int
}

// PaddingCell returns a cell outside the month.
func PaddingCell() DayCell {
	return DayCell{Kind: CellPadding}
}

// PlainDay returns a cell for a day without events.
func PlainDay(day int) DayCell {
	return DayCell{Kind: CellPlain, Day: day}
}

// EventDay returns a shaded cell for a day with count events.
func EventDay(day, count, intensity int) DayCell {
	return DayCell{Kind: CellEvent, Day: day, Count: count, Intensity: intensity}
}

// MonthGrid is the Monday-first week layout of one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][DaysPerWeek]DayCell
}

// Title returns the month name.
func (g MonthGrid) Title() string {
	return g.Month.String()
}

// Days returns the non-padding cells in day order.
func (g MonthGrid) Days() []DayCell {
	cells := make([]DayCell, 0, DaysIn(g.Year, g.Month))

	for _, week := range g.Weeks {
		for _, cell := range week {
			if cell.Kind != CellPadding {
				cells = append(cells, cell)
			}
		}
	}

	return cells
}

// BuildMonth lays out month of year, shading days that hold events in store.
// When scale is zero every day is plain.
func BuildMonth(store *Store, scale Scale, year int, month time.Month) MonthGrid {
	layout := MonthWeeks(year, month)
	grid := MonthGrid{
		Year:  year,
		Month: month,
		Weeks: make([][DaysPerWeek]DayCell, len(layout)),
	}

	for w, week := range layout {
		for col, day := range week {
			grid.Weeks[w][col] = buildCell(store, scale, Date{Year: year, Month: month, Day: day})
		}
	}

	return grid
}

func buildCell(store *Store, scale Scale, d Date) DayCell {
	if d.Day == 0 {
		return PaddingCell()
	}

	count := store.Count(d)
	if count == 0 || scale.Zero() {
		return PlainDay(d.Day)
	}

	return EventDay(d.Day, count, scale.Intensity(count))
}

// BuildYear lays out all twelve months of the store's year on one scale.
func BuildYear(store *Store) [12]MonthGrid {
	var grids [12]MonthGrid

	scale := NewScale(store.MaxDailyCount())

	for month := time.January; month <= time.December; month++ {
		grids[month-1] = BuildMonth(store, scale, store.Year(), month)
	}

	return grids
}

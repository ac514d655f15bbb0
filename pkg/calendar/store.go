package calendar

import "time"

// Store holds the events of a single year, indexed by date.
// It is read-only after construction and safe for concurrent readers.
type Store struct {
	year   int
	events []Event
	byDate map[Date][]Event
}

// NewStore keeps the events dated in year, in input order. Events of any
// other year are dropped.
func NewStore(events []Event, year int) *Store {
	s := &Store{
		year:   year,
		events: make([]Event, 0, len(events)),
		byDate: make(map[Date][]Event),
	}

	for _, ev := range events {
		if ev.Date.Year != year {
			continue
		}

		s.events = append(s.events, ev)
		s.byDate[ev.Date] = append(s.byDate[ev.Date], ev)
	}

	return s
}

// Year returns the target year.
func (s *Store) Year() int {
	return s.year
}

// Len returns the number of retained events.
func (s *Store) Len() int {
	return len(s.events)
}

// Events returns a copy of the retained events in insertion order.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)

	return out
}

// EventsOn returns the events on d in insertion order.
func (s *Store) EventsOn(d Date) []Event {
	found := s.byDate[d]
	if len(found) == 0 {
		return nil
	}

	out := make([]Event, len(found))
	copy(out, found)

	return out
}

// Count returns the number of events on d.
func (s *Store) Count(d Date) int {
	return len(s.byDate[d])
}

// MaxDailyCount returns the largest per-day event count over every date of
// the year. It is zero when the year has no events.
func (s *Store) MaxDailyCount() int {
	maxCount := 0

	for month := time.January; month <= time.December; month++ {
		days := DaysIn(s.year, month)

		for day := 1; day <= days; day++ {
			maxCount = max(maxCount, s.Count(Date{Year: s.year, Month: month, Day: day}))
		}
	}

	return maxCount
}

// BusiestDay returns the earliest date holding MaxDailyCount events.
// ok is false when the year is empty.
func (s *Store) BusiestDay() (d Date, ok bool) {
	maxCount := s.MaxDailyCount()
	if maxCount == 0 {
		return Date{}, false
	}

	for month := time.January; month <= time.December; month++ {
		for day := 1; day <= DaysIn(s.year, month); day++ {
			candidate := Date{Year: s.year, Month: month, Day: day}
			if s.Count(candidate) == maxCount {
				return candidate, true
			}
		}
	}

	return Date{}, false
}

// MonthTotals returns the number of events per month, January first.
func (s *Store) MonthTotals() [12]int {
	var totals [12]int

	for _, ev := range s.events {
		totals[ev.Date.Month-1]++
	}

	return totals
}

package calendar

import "time"

// DaysPerWeek is the width of every week row.
const DaysPerWeek = 7

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// mondayOffset returns the column of day 1 in a Monday-first week.
func mondayOffset(year int, month time.Month) int {
	weekday := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()

	return (int(weekday) + DaysPerWeek - 1) % DaysPerWeek
}

// Weeks returns the number of Monday-first week rows month spans.
func Weeks(year int, month time.Month) int {
	cells := mondayOffset(year, month) + DaysIn(year, month)

	return (cells + DaysPerWeek - 1) / DaysPerWeek
}

// MonthWeeks returns the Monday-first week rows of month. Each entry is a
// day number, or 0 for cells outside the month.
func MonthWeeks(year int, month time.Month) [][DaysPerWeek]int {
	offset := mondayOffset(year, month)
	days := DaysIn(year, month)
	weeks := make([][DaysPerWeek]int, Weeks(year, month))

	for day := 1; day <= days; day++ {
		cell := offset + day - 1
		weeks[cell/DaysPerWeek][cell%DaysPerWeek] = day
	}

	return weeks
}

// WeekdayLabels are the column headers of a Monday-first grid.
var WeekdayLabels = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

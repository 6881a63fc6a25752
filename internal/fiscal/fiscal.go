// Package fiscal holds the calendar arithmetic for the May 1 - April 30
// fiscal year used by evaluation scheduling and reporting.
package fiscal

import "time"

// Cadence values accepted by evaluation schedules.
const (
	CadenceDaily     = "daily"
	CadenceMonthly   = "monthly"
	CadenceQuarterly = "quarterly"
	CadenceYearly    = "yearly"
)

// Quarter returns the fiscal quarter (1-4) containing t.
// Q1 May-Jul, Q2 Aug-Oct, Q3 Nov-Jan, Q4 Feb-Apr. Q3 crosses the
// calendar-year boundary.
func Quarter(t time.Time) int {
	switch t.Month() {
	case time.May, time.June, time.July:
		return 1
	case time.August, time.September, time.October:
		return 2
	case time.November, time.December, time.January:
		return 3
	default:
		return 4
	}
}

// Year returns the starting calendar year of the fiscal year containing t.
// May onward belongs to the fiscal year labeled with the current calendar
// year; January-April belongs to the previous one.
func Year(t time.Time) int {
	if t.Month() >= time.May {
		return t.Year()
	}
	return t.Year() - 1
}

// YearBounds returns the first and last instant of the fiscal year labeled
// startYear (May 1 startYear through April 30 startYear+1).
func YearBounds(startYear int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(startYear, time.May, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0).Add(-time.Second)
	return start, end
}

// CalendarQuarter returns the calendar quarter (1-4) containing t, with
// Q1 Jan-Mar through Q4 Oct-Dec. This is intentionally distinct from
// Quarter: quarterly period identity uses calendar quarters while reports
// bucket by fiscal quarters.
func CalendarQuarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// PeriodEnd returns the last instant of the period of the given cadence
// containing start. For yearly the period is the twelve months beginning
// at start, not the calendar year. An unrecognized cadence resolves to
// the daily arm; callers validate cadence before scheduling.
func PeriodEnd(cadence string, start time.Time) time.Time {
	loc := start.Location()
	switch cadence {
	case CadenceMonthly:
		firstOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
		return firstOfMonth.AddDate(0, 1, 0).Add(-time.Second)
	case CadenceQuarterly:
		q := CalendarQuarter(start)
		firstOfQuarter := time.Date(start.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc)
		return firstOfQuarter.AddDate(0, 3, 0).Add(-time.Second)
	case CadenceYearly:
		return start.AddDate(1, 0, 0).Add(-time.Second)
	default:
		dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		return dayStart.AddDate(0, 0, 1).Add(-time.Second)
	}
}

package fiscal_test

import (
	"testing"
	"time"

	"go-appraise/internal/fiscal"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuarter(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want int
	}{
		{"may 1 starts q1", date(2024, time.May, 1), 1},
		{"july is q1", date(2024, time.July, 15), 1},
		{"august starts q2", date(2024, time.August, 1), 2},
		{"october is q2", date(2024, time.October, 31), 2},
		{"november starts q3", date(2024, time.November, 1), 3},
		{"december 31 is q3", date(2024, time.December, 31), 3},
		{"january 1 is q3", date(2025, time.January, 1), 3},
		{"february starts q4", date(2025, time.February, 1), 4},
		{"april 30 ends q4", date(2025, time.April, 30), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fiscal.Quarter(tc.in))
		})
	}
}

func TestYear(t *testing.T) {
	assert.Equal(t, 2024, fiscal.Year(date(2024, time.May, 1)))
	assert.Equal(t, 2024, fiscal.Year(date(2024, time.December, 31)))
	assert.Equal(t, 2024, fiscal.Year(date(2025, time.January, 1)))
	assert.Equal(t, 2024, fiscal.Year(date(2025, time.April, 30)))
	assert.Equal(t, 2025, fiscal.Year(date(2025, time.May, 1)))
}

func TestYearBounds(t *testing.T) {
	start, end := fiscal.YearBounds(2024, time.UTC)
	assert.Equal(t, date(2024, time.May, 1), start)
	assert.Equal(t, time.Date(2025, time.April, 30, 23, 59, 59, 0, time.UTC), end)
}

func TestCalendarQuarter(t *testing.T) {
	assert.Equal(t, 1, fiscal.CalendarQuarter(date(2024, time.January, 1)))
	assert.Equal(t, 1, fiscal.CalendarQuarter(date(2024, time.March, 31)))
	assert.Equal(t, 2, fiscal.CalendarQuarter(date(2024, time.April, 1)))
	assert.Equal(t, 3, fiscal.CalendarQuarter(date(2024, time.July, 4)))
	assert.Equal(t, 4, fiscal.CalendarQuarter(date(2024, time.December, 31)))
}

func TestPeriodEnd(t *testing.T) {
	t.Run("daily ends at last second of the day", func(t *testing.T) {
		got := fiscal.PeriodEnd(fiscal.CadenceDaily, time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC), got)
	})

	t.Run("monthly ends at last second of the month", func(t *testing.T) {
		got := fiscal.PeriodEnd(fiscal.CadenceMonthly, date(2024, time.February, 10))
		assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), got)
	})

	t.Run("quarterly ends at last second of the calendar quarter", func(t *testing.T) {
		got := fiscal.PeriodEnd(fiscal.CadenceQuarterly, date(2024, time.February, 10))
		assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), got)
	})

	t.Run("yearly spans twelve months from start, not the calendar year", func(t *testing.T) {
		got := fiscal.PeriodEnd(fiscal.CadenceYearly, date(2024, time.March, 15))
		assert.Equal(t, time.Date(2025, time.March, 14, 23, 59, 59, 0, time.UTC), got)
	})
}

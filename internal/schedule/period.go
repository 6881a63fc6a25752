// Package schedule enumerates the evaluation periods owed between an
// evaluation's anchor date and a caller-supplied "now". It is pure: time is
// always an explicit parameter so the materializer can be tested
// deterministically.
package schedule

import (
	"fmt"
	"time"

	"go-appraise/internal/fiscal"
)

type Cadence string

const (
	Daily     Cadence = fiscal.CadenceDaily
	Monthly   Cadence = fiscal.CadenceMonthly
	Quarterly Cadence = fiscal.CadenceQuarterly
	Yearly    Cadence = fiscal.CadenceYearly
)

func (c Cadence) Valid() bool {
	switch c {
	case Daily, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Period is one generated evaluation window. End is inclusive and is
// clipped to "now" for a period still in progress.
type Period struct {
	Key   string
	Start time.Time
	End   time.Time
}

// Key is the cadence-specific de-duplication identity of the period
// containing t. Quarterly keys use calendar quarters, not the fiscal
// quarters reports bucket by; keys are stored identities, so changing the
// definition would re-materialize historical periods.
func Key(c Cadence, t time.Time) string {
	switch c {
	case Monthly:
		return t.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", t.Year(), fiscal.CalendarQuarter(t))
	case Yearly:
		return fmt.Sprintf("%d", t.Year())
	default:
		return t.Format("2006-01-02")
	}
}

// snap aligns the anchor to the start of its containing period. Yearly
// periods are anniversary-based: they begin at the anchor's own date.
func snap(c Cadence, anchor time.Time) time.Time {
	loc := anchor.Location()
	switch c {
	case Monthly:
		return time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	case Quarterly:
		q := fiscal.CalendarQuarter(anchor)
		return time.Date(anchor.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	default:
		return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	}
}

func next(c Cadence, start time.Time) time.Time {
	switch c {
	case Monthly:
		return start.AddDate(0, 1, 0)
	case Quarterly:
		return start.AddDate(0, 3, 0)
	case Yearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Generate returns, in chronological order, every period of cadence c that
// has begun by now, starting at the period containing anchor, whose key is
// not already present in existing. Period ends never exceed now.
//
// The generator is idempotent: folding the returned keys into existing and
// calling again with the same now yields nothing.
//
// A cadence that fails Valid() degrades to a single period covering the
// anchor's day. Evaluation creation rejects such cadences, so this path is
// only reachable for rows that predate the validation.
func Generate(c Cadence, anchor, now time.Time, existing map[string]struct{}) []Period {
	if now.Before(anchor) {
		return nil
	}

	if !c.Valid() {
		start := snap(Daily, anchor)
		if _, ok := existing[Key(Daily, start)]; ok {
			return nil
		}
		return []Period{clip(Key(Daily, start), start, fiscal.PeriodEnd(string(Daily), start), now)}
	}

	var periods []Period
	for start := snap(c, anchor); !start.After(now); start = next(c, start) {
		key := Key(c, start)
		if _, ok := existing[key]; ok {
			continue
		}
		periods = append(periods, clip(key, start, fiscal.PeriodEnd(string(c), start), now))
	}
	return periods
}

func clip(key string, start, end, now time.Time) Period {
	if end.After(now) {
		end = now
	}
	return Period{Key: key, Start: start, End: end}
}

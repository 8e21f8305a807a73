package agenda

import (
	"time"

	"lifedash/internal/domain"
)

const (
	// dayOccurrences bounds daily and weekly expansion. Both rules share
	// the same counter: weekly steps seven days per iteration, so its
	// occurrences reach much further out than the daily ones.
	dayOccurrences = 180

	// monthOccurrences bounds monthly expansion to six calendar months.
	monthOccurrences = 6
)

// ExpandRecurrence returns the future occurrence dates for an appointment
// anchor under the given rule. The anchor itself is not included; the caller
// always emits it as occurrence zero. Expansion never looks backward.
//
// Monthly carries the anchor's day-of-month forward and silently drops
// months that lack it: an appointment on the 31st skips 30-day months and
// February entirely.
func ExpandRecurrence(anchor time.Time, rule domain.Recurrence) []time.Time {
	switch rule {
	case domain.RecurDaily, domain.RecurWeekly:
		step := 1
		if rule == domain.RecurWeekly {
			step = 7
		}
		out := make([]time.Time, 0, dayOccurrences)
		for i := 1; i <= dayOccurrences; i++ {
			out = append(out, anchor.AddDate(0, 0, i*step))
		}
		return out

	case domain.RecurMonthly:
		var out []time.Time
		for i := 1; i <= monthOccurrences; i++ {
			next := time.Date(anchor.Year(), anchor.Month()+time.Month(i), anchor.Day(),
				0, 0, 0, 0, anchor.Location())
			// time.Date normalizes overflow (Feb 31 -> Mar 3), which is
			// exactly the roll-over the product rejects.
			if next.Day() == anchor.Day() {
				out = append(out, next)
			}
		}
		return out
	}

	return nil
}

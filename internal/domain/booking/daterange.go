package booking

import (
	"math"
	"time"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// DateRange is a rental period at calendar-day granularity. Both ends are
// normalized to UTC midnight and the end day is inclusive: a booking from the
// 1st to the 3rd occupies the vehicle on the 1st, 2nd and 3rd.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a normalized DateRange. The end must fall strictly
// after the start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if !r.End.After(r.Start) {
		return DateRange{}, domain.NewValidationError("end date must be after start date")
	}
	return r, nil
}

// Days returns the billable day count: the difference in days rounded up,
// never less than one.
func (r DateRange) Days() int {
	days := int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps reports whether the two ranges share at least one calendar day.
// Ends are inclusive on both sides: [s1,e1] and [s2,e2] overlap iff
// s1 <= e2 and s2 <= e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether the given day falls inside the range, ends included.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// StartsBefore reports whether the rental begins before the given instant's
// calendar day. Used for the not-in-the-past rule.
func (r DateRange) StartsBefore(now time.Time) bool {
	return r.Start.Before(Day(now))
}

// StartsWithin reports whether the rental begins within d of now.
func (r DateRange) StartsWithin(d time.Duration, now time.Time) bool {
	return r.Start.Sub(now.UTC()) <= d
}

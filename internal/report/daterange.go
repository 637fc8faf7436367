package report

import (
	"time"

	"github.com/enderates/fishub/internal/domain"
)

// DateRange is an inclusive time interval. A zero Start or End leaves that
// side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DayRange covers whole calendar days: from 00:00 on startDay through the
// last instant of endDay, in each argument's location. Zero arguments stay
// unbounded.
func DayRange(startDay, endDay time.Time) DateRange {
	var r DateRange
	if !startDay.IsZero() {
		y, m, d := startDay.Date()
		r.Start = time.Date(y, m, d, 0, 0, 0, 0, startDay.Location())
	}
	if !endDay.IsZero() {
		y, m, d := endDay.Date()
		r.End = time.Date(y, m, d+1, 0, 0, 0, 0, endDay.Location()).Add(-time.Nanosecond)
	}
	return r
}

// ParseDayRange parses YYYY-MM-DD bounds in loc. Empty strings are unbounded.
func ParseDayRange(from, to string, loc *time.Location) (DateRange, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.ParseInLocation(time.DateOnly, from, loc); err != nil {
			return DateRange{}, &domain.InvalidInputError{Field: "from", Value: from, Reason: "expected YYYY-MM-DD"}
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation(time.DateOnly, to, loc); err != nil {
			return DateRange{}, &domain.InvalidInputError{Field: "to", Value: to, Reason: "expected YYYY-MM-DD"}
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return DateRange{}, &domain.InvalidInputError{Field: "to", Value: to, Reason: "before from"}
	}
	return DayRange(start, end), nil
}

// Unbounded reports whether neither side is set.
func (r DateRange) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether start <= t <= end for the bounds that are set.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// FilterByDateRange keeps records captured within r, in input order. An
// unbounded range keeps every record, including ones without a capture time.
func FilterByDateRange(records []domain.EnrichedRecord, r DateRange) []domain.EnrichedRecord {
	out := make([]domain.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		if r.Unbounded() || (!rec.CapturedAt.IsZero() && r.Contains(rec.CapturedAt)) {
			out = append(out, rec)
		}
	}
	return out
}

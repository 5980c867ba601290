// Package interval holds the half-open time interval used by slot
// generation and by the booking re-check. Both must go through Overlaps.
package interval

import (
	"errors"
	"sort"
	"time"
)

var ErrEmpty = errors.New("interval: start must be before end")

// Interval is [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrEmpty
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Contains reports whether o lies entirely inside i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// AnyOverlap returns the first interval in set that overlaps candidate.
func AnyOverlap(candidate Interval, set []Interval) (Interval, bool) {
	for _, b := range set {
		if candidate.Overlaps(b) {
			return b, true
		}
	}
	return Interval{}, false
}

// Sort orders by start, then end. It sorts in place.
func Sort(set []Interval) {
	sort.SliceStable(set, func(a, b int) bool {
		if set[a].Start.Equal(set[b].Start) {
			return set[a].End.Before(set[b].End)
		}
		return set[a].Start.Before(set[b].Start)
	})
}

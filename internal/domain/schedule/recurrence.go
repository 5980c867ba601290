package schedule

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/interval"
)

// MaxExpansionDays caps how far a weekly recurrence is expanded.
const MaxExpansionDays = 365

var (
	ErrInvalidDate       = httperr.New(httperr.KindValidation, "invalid_date")
	ErrInvalidTime       = httperr.New(httperr.KindValidation, "invalid_time")
	ErrInvalidInterval   = httperr.New(httperr.KindValidation, "invalid_interval")
	ErrSpansDays         = httperr.New(httperr.KindValidation, "block_spans_days")
	ErrInvalidRecurrence = httperr.New(httperr.KindValidation, "invalid_recurrence")
	ErrNotEditable       = httperr.New(httperr.KindForbidden, "block_not_editable")
	ErrForbidden         = httperr.New(httperr.KindForbidden, "forbidden")
	ErrStaffNotFound     = httperr.New(httperr.KindNotFound, "staff_not_found")
	ErrBlockNotFound     = httperr.New(httperr.KindNotFound, "block_not_found")
)

type Weekly struct {
	Weekdays []time.Weekday
	// Inclusive last date. Only its calendar date is used.
	Until time.Time
}

// ExpandWeekly turns one block into concrete blocks on every matching
// weekday from the block's date through min(Until, start+365 days).
// With no recurrence the block itself is returned.
func ExpandWeekly(start, end time.Time, rec *Weekly) ([]interval.Interval, error) {
	first, err := interval.New(start, end)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	if !sameDay(start, end) {
		return nil, ErrSpansDays
	}

	if rec == nil || len(rec.Weekdays) == 0 {
		return []interval.Interval{first}, nil
	}

	loc := start.Location()
	firstDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	until := rec.Until.In(loc)
	lastDay := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, loc)
	if lastDay.Before(firstDay) {
		return nil, ErrInvalidRecurrence
	}
	if limit := firstDay.AddDate(0, 0, MaxExpansionDays); lastDay.After(limit) {
		lastDay = limit
	}

	wanted := make(map[time.Weekday]bool, len(rec.Weekdays))
	for _, wd := range rec.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, ErrInvalidRecurrence
		}
		wanted[wd] = true
	}

	length := end.Sub(start)
	var out []interval.Interval
	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		if !wanted[d.Weekday()] {
			continue
		}
		s := time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), start.Second(), 0, loc)
		out = append(out, interval.Interval{Start: s, End: s.Add(length)})
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay == by && am == bm && ad == bd {
		return true
	}
	// A block may end exactly at the next midnight.
	next := time.Date(ay, am, ad, 0, 0, 0, 0, a.Location()).AddDate(0, 0, 1)
	return b.Equal(next)
}

package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/interval"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// ProbeStep is the retry increment after a conflicting candidate.
const ProbeStep = 15 * time.Minute

type SlotRequest struct {
	// Working-hours windows of the target day.
	Windows []interval.Interval
	// Time-off blocks and occupying appointments.
	Blockers []interval.Interval

	Duration time.Duration
	// Travel buffer, only for at-home bookings.
	Buffer time.Duration

	// Candidates starting before NotBefore are skipped. Zero disables it.
	NotBefore time.Time
}

func (r SlotRequest) Footprint() time.Duration {
	if r.Buffer <= 0 {
		return r.Duration
	}
	return r.Duration + r.Buffer
}

// GenerateSlots returns the bookable start times, earliest first.
//
// Each window is scanned from its start. A candidate [cursor, cursor+footprint)
// that clears every blocker is emitted and the cursor jumps a full footprint
// (at least ProbeStep); a conflicting candidate only moves ProbeStep ahead.
// No windows means no slots.
func GenerateSlots(req SlotRequest) ([]time.Time, error) {
	if req.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	footprint := req.Footprint()
	// Footprint, not duration: delivery slots must stay buffer-spaced.
	advance := footprint
	if advance < ProbeStep {
		advance = ProbeStep
	}

	windows := append([]interval.Interval(nil), req.Windows...)
	interval.Sort(windows)

	blockers := append([]interval.Interval(nil), req.Blockers...)
	interval.Sort(blockers)

	slots := []time.Time{}
	for _, w := range windows {
		cursor := w.Start
		for !cursor.Add(footprint).After(w.End) {
			candidate := interval.Interval{Start: cursor, End: cursor.Add(footprint)}

			if !req.NotBefore.IsZero() && cursor.Before(req.NotBefore) {
				cursor = cursor.Add(ProbeStep)
				continue
			}

			if _, hit := interval.AnyOverlap(candidate, blockers); hit {
				cursor = cursor.Add(ProbeStep)
				continue
			}

			slots = append(slots, cursor)
			cursor = cursor.Add(advance)
		}
	}

	return slots, nil
}

// ContainsSlot reports whether start is one of slots.
func ContainsSlot(slots []time.Time, start time.Time) bool {
	for _, s := range slots {
		if s.Equal(start) {
			return true
		}
	}
	return false
}

// FormatSlots renders slots as HH:MM in loc.
func FormatSlots(slots []time.Time, loc *time.Location) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.In(loc).Format("15:04"))
	}
	return out
}

// ===============================
// Model adapters
// ===============================

func WorkingWindows(blocks []models.WorkingHoursBlock) []interval.Interval {
	out := make([]interval.Interval, 0, len(blocks))
	for _, b := range blocks {
		if !b.StartTime.Before(b.EndTime) {
			continue
		}
		out = append(out, interval.Interval{Start: b.StartTime, End: b.EndTime})
	}
	return out
}

func Blockers(timeOff []models.TimeOffBlock, appointments []models.Appointment) []interval.Interval {
	out := make([]interval.Interval, 0, len(timeOff)+len(appointments))
	for _, t := range timeOff {
		out = append(out, interval.Interval{Start: t.StartTime, End: t.EndTime})
	}
	for _, ap := range appointments {
		if !Status(ap.Status).Occupying() {
			continue
		}
		out = append(out, interval.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out
}

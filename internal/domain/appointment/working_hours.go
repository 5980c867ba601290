package appointment

import (
	"github.com/BruksfildServices01/agenda-api/internal/interval"
)

// CheckPlacement is the commit-time guard for a footprint: it must sit
// inside one working window and clear every blocker.
func CheckPlacement(footprint interval.Interval, windows, blockers []interval.Interval) error {
	inside := false
	for _, w := range windows {
		if w.Contains(footprint) {
			inside = true
			break
		}
	}
	if !inside {
		return ErrOutsideWorkingHours
	}

	if _, hit := interval.AnyOverlap(footprint, blockers); hit {
		return ErrSlotConflict
	}
	return nil
}

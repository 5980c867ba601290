package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// endOfDay is accepted as an end time and means the next midnight.
const endOfDay = "24:00"

func location(loc *time.Location) *time.Location {
	if loc != nil {
		return loc
	}
	return timezone.Location(timezone.DefaultTimezone)
}

// parseClock reads HH:MM on date in loc.
func parseClock(loc *time.Location, date, hm string) (time.Time, error) {
	day, err := timezone.ParseDate(loc, date)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	if hm == endOfDay {
		_, next := timezone.DayBounds(day)
		return next, nil
	}
	t, err := timezone.ParseDateTime(loc, date, hm)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	return t, nil
}

func loadStaff(
	ctx context.Context,
	repo domain.Repository,
	businessID, staffID uint,
) (*models.StaffMember, error) {

	sm, found, err := repo.GetStaffMember(ctx, businessID, staffID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrStaffNotFound
	}
	return sm, nil
}

func record(d *audit.Dispatcher, who caller.Caller, action, entity string, id uint, meta any) {
	var userID *uint
	if who.UserID != 0 {
		uid := who.UserID
		userID = &uid
	}
	d.Dispatch(audit.Event{
		BusinessID: who.BusinessID,
		UserID:     userID,
		Action:     action,
		Entity:     entity,
		EntityID:   &id,
		Metadata:   meta,
	})
}

package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// maxListDays bounds one schedule read.
const maxListDays = 62

type Schedule struct {
	StaffID      uint                       `json:"staff_id"`
	WorkingHours []models.WorkingHoursBlock `json:"working_hours"`
	TimeOff      []models.TimeOffBlock      `json:"time_off"`
}

type ListSchedule struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListSchedule(repo domain.Repository, loc *time.Location) *ListSchedule {
	return &ListSchedule{repo: repo, loc: location(loc)}
}

// Execute returns blocks overlapping the dates from..to, both inclusive.
func (uc *ListSchedule) Execute(
	ctx context.Context,
	who caller.Caller,
	staffID uint,
	from, to string,
) (*Schedule, error) {

	if !who.CanAccessStaff(who.BusinessID, staffID) {
		return nil, domain.ErrForbidden
	}
	if _, err := loadStaff(ctx, uc.repo, who.BusinessID, staffID); err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(uc.loc, from)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	last, err := timezone.ParseDate(uc.loc, to)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	end := last.AddDate(0, 0, 1)
	if !start.Before(end) || end.After(start.AddDate(0, 0, maxListDays)) {
		return nil, domain.ErrInvalidInterval
	}

	wh, err := uc.repo.ListWorkingHours(ctx, staffID, start, end)
	if err != nil {
		return nil, err
	}
	off, err := uc.repo.ListTimeOff(ctx, staffID, start, end)
	if err != nil {
		return nil, err
	}

	if wh == nil {
		wh = []models.WorkingHoursBlock{}
	}
	if off == nil {
		off = []models.TimeOffBlock{}
	}
	return &Schedule{StaffID: staffID, WorkingHours: wh, TimeOff: off}, nil
}

package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/dto"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo     domain.Repository
	settings Settings
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	settings Settings,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:     repo,
		settings: settings,
	}
}

// Execute lists one day. staffID 0 means the whole business and is only
// honored for owners; staff always see their own calendar.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	who caller.Caller,
	staffID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, err := uc.settings.parseDay(date)
	if err != nil {
		return nil, err
	}
	start, end := timezone.DayBounds(day)

	return listPeriod(ctx, uc.repo, who, staffID, start, end)
}

func listPeriod(
	ctx context.Context,
	repo domain.Repository,
	who caller.Caller,
	staffID uint,
	start, end time.Time,
) ([]dto.AppointmentListDTO, error) {

	filter, err := scopeFilter(who, staffID)
	if err != nil {
		return nil, err
	}
	filter.From = start
	filter.To = end

	rows, err := repo.ListAppointmentsForPeriod(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AppointmentListDTO{
			ID:            r.ID,
			StaffMemberID: r.StaffMemberID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Status:        r.Status,
			IsDelivery:    r.IsDelivery,
			CustomerName:  r.CustomerName,
			ServiceName:   r.ServiceName,
			StaffName:     r.StaffName,
		})
	}
	return out, nil
}

func scopeFilter(who caller.Caller, staffID uint) (domain.PeriodFilter, error) {
	switch who.Kind {
	case caller.Owner:
		if who.BusinessID == 0 {
			return domain.PeriodFilter{}, domain.ErrForbidden
		}
		return domain.PeriodFilter{BusinessID: who.BusinessID, StaffID: staffID}, nil
	case caller.Staff:
		if staffID != 0 && staffID != who.StaffID {
			return domain.PeriodFilter{}, domain.ErrForbidden
		}
		return domain.PeriodFilter{BusinessID: who.BusinessID, StaffID: who.StaffID}, nil
	default:
		return domain.PeriodFilter{}, domain.ErrForbidden
	}
}

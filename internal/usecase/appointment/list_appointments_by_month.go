package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/dto"
)

type ListAppointmentsByMonth struct {
	repo     domain.Repository
	settings Settings
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	settings Settings,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:     repo,
		settings: settings,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	who caller.Caller,
	staffID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1970 {
		return nil, domain.ErrInvalidDate
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.settings.location())
	end := start.AddDate(0, 1, 0)

	return listPeriod(ctx, uc.repo, who, staffID, start, end)
}

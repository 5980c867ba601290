package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	settings Settings
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	settings Settings,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		settings: settings,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	who caller.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadManaged(ctx, uc.repo, who, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.settings.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	dispatchLifecycle(uc.audit, who, ap, "appointment_canceled")
	return ap, nil
}

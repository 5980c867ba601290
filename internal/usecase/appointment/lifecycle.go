package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// loadManaged fetches an appointment the caller may change.
func loadManaged(
	ctx context.Context,
	repo domain.Repository,
	who caller.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	if !who.CanViewBusiness(who.BusinessID) {
		return nil, domain.ErrForbidden
	}

	ap, found, err := repo.GetAppointment(ctx, who.BusinessID, appointmentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrAppointmentNotFound
	}
	if !who.CanManageAppointment(ap) {
		return nil, domain.ErrForbidden
	}
	return ap, nil
}

func dispatchLifecycle(d *audit.Dispatcher, who caller.Caller, ap *models.Appointment, action string) {
	d.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     callerUserID(who),
		Action:     action,
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
	})
}

package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type RescheduleInput struct {
	BusinessID    uint
	AppointmentID uint
	Date          string
	Time          string
}

// RescheduleAppointment moves an appointment to a freshly validated slot
// of the same staff member and service, keeping its id and status.
type RescheduleAppointment struct {
	repo     domain.Repository
	tx       domain.TxManager
	audit    *audit.Dispatcher
	metrics  *metrics.BookingMetrics
	logger   *zap.Logger
	settings Settings
}

func NewRescheduleAppointment(
	repo domain.Repository,
	tx domain.TxManager,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
	settings Settings,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		tx:       tx,
		audit:    audit,
		metrics:  m,
		logger:   logger,
		settings: settings,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	who caller.Caller,
	in RescheduleInput,
) (*models.Appointment, error) {

	ctx, span := bookingTracer.Start(ctx, "appointment.reschedule")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("agenda.business_id", int64(in.BusinessID)),
		attribute.Int64("agenda.appointment_id", int64(in.AppointmentID)),
	)

	ap, err := uc.execute(ctx, who, in)
	if err != nil {
		span.RecordError(err)
		uc.metrics.ObserveReschedule(resultLabel(err))
		if httperr.IsPersistence(err) {
			uc.logger.Error("reschedule persistence failure",
				zap.Uint("business_id", in.BusinessID),
				zap.Uint("appointment_id", in.AppointmentID),
				zap.Error(err),
			)
		}
		return nil, err
	}
	uc.metrics.ObserveReschedule("success")

	uc.audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     callerUserID(who),
		Action:     "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
		Metadata:   map[string]any{"start_time": ap.StartTime},
	})

	return ap, nil
}

func (uc *RescheduleAppointment) execute(
	ctx context.Context,
	who caller.Caller,
	in RescheduleInput,
) (*models.Appointment, error) {

	if !who.Authenticated() {
		return nil, domain.ErrForbidden
	}

	day, err := uc.settings.parseDay(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := uc.settings.parseStart(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, uc.settings.txTimeout())
	defer cancel()

	var moved *models.Appointment
	err = uc.tx.WithinTx(txCtx, func(repo domain.Repository) error {
		ap, found, err := repo.GetAppointment(txCtx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrAppointmentNotFound
		}
		if err := authorizeReschedule(txCtx, repo, who, ap); err != nil {
			return err
		}

		// Lock order matches ConfirmBooking: staff first, then the row.
		if err := repo.LockStaffMember(txCtx, ap.StaffMemberID); err != nil {
			return err
		}
		ap, found, err = repo.GetAppointmentForUpdate(txCtx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrAppointmentNotFound
		}
		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		biz, svc, err := loadCatalog(txCtx, repo, ap.BusinessID, ap.ServiceID)
		if err != nil {
			return err
		}

		// Re-submitting the current slot is always accepted, provided the
		// placement check below still passes.
		sameSlot := start.Equal(ap.StartTime)

		notBefore := uc.settings.now().Add(biz.MinAdvance())
		if !sameSlot && start.Before(notBefore) {
			return domain.ErrTooSoon
		}

		// Generated without the appointment itself as a blocker.
		slots, err := slotsFor(txCtx, repo, biz, svc, ap.StaffMemberID, day, ap.IsDelivery, ap.ID, notBefore)
		if err != nil {
			return err
		}
		if !sameSlot && !domain.ContainsSlot(slots, start) {
			return domain.ErrSlotConflict
		}

		fp := footprint(biz, svc, ap.IsDelivery)
		if err := verifyPlacement(txCtx, repo, ap.StaffMemberID, start, fp, ap.ID); err != nil {
			return err
		}

		if err := domain.Move(ap, start, start.Add(fp)); err != nil {
			return err
		}
		if err := repo.UpdateAppointment(txCtx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotConflict
			}
			return err
		}

		moved = ap
		return nil
	})
	if err != nil {
		return nil, classify("reschedule appointment", err)
	}

	return moved, nil
}

// authorizeReschedule: owner, assigned staff, or the customer who booked.
func authorizeReschedule(
	ctx context.Context,
	repo domain.Repository,
	who caller.Caller,
	ap *models.Appointment,
) error {

	if who.CanManageAppointment(ap) {
		return nil
	}
	if who.Kind != caller.Customer {
		return domain.ErrForbidden
	}

	cu, found, err := repo.GetCustomer(ctx, ap.BusinessID, ap.CustomerID)
	if err != nil {
		return err
	}
	if !found || !who.OwnsCustomer(cu) {
		return domain.ErrForbidden
	}
	return nil
}

func callerUserID(who caller.Caller) *uint {
	if who.UserID == 0 {
		return nil
	}
	return uintPtr(who.UserID)
}

// RescheduleAvailability lists the slots an appointment could move to on
// a date, its own current slot included.
type RescheduleAvailability struct {
	repo     domain.Repository
	settings Settings
}

func NewRescheduleAvailability(repo domain.Repository, settings Settings) *RescheduleAvailability {
	return &RescheduleAvailability{repo: repo, settings: settings}
}

func (uc *RescheduleAvailability) Execute(
	ctx context.Context,
	who caller.Caller,
	businessID, appointmentID uint,
	date string,
) ([]string, error) {

	if !who.Authenticated() {
		return nil, domain.ErrForbidden
	}

	day, err := uc.settings.parseDay(date)
	if err != nil {
		return nil, err
	}

	ap, found, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrAppointmentNotFound
	}
	if err := authorizeReschedule(ctx, uc.repo, who, ap); err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	biz, svc, err := loadCatalog(ctx, uc.repo, ap.BusinessID, ap.ServiceID)
	if err != nil {
		return nil, err
	}

	notBefore := uc.settings.now().Add(biz.MinAdvance())
	slots, err := slotsFor(ctx, uc.repo, biz, svc, ap.StaffMemberID, day, ap.IsDelivery, ap.ID, notBefore)
	if err != nil {
		return nil, err
	}
	return domain.FormatSlots(slots, uc.settings.location()), nil
}

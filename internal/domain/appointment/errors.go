package appointment

import "github.com/BruksfildServices01/agenda-api/internal/httperr"

var (
	// The caller has to restart the booking flow.
	ErrMissingBookingContext = httperr.New(httperr.KindMissingContext, "missing_booking_context")

	// The authoritative re-check found an overlap.
	ErrSlotConflict = httperr.New(httperr.KindConflict, "time_conflict")
	// The chosen time is not among the generated slots.
	ErrSlotUnavailable = httperr.New(httperr.KindConflict, "slot_unavailable")

	ErrInvalidDuration = httperr.New(httperr.KindConfiguration, "invalid_duration")

	ErrInvalidDate         = httperr.New(httperr.KindValidation, "invalid_date")
	ErrInvalidTime         = httperr.New(httperr.KindValidation, "invalid_time")
	ErrMissingContact      = httperr.New(httperr.KindValidation, "missing_contact")
	ErrInvalidEmail        = httperr.New(httperr.KindValidation, "invalid_email")
	ErrContactTooLong      = httperr.New(httperr.KindValidation, "contact_too_long")
	ErrMissingAddress      = httperr.New(httperr.KindValidation, "missing_address")
	ErrDeliveryNotOffered  = httperr.New(httperr.KindValidation, "delivery_not_offered")
	ErrTooSoon             = httperr.New(httperr.KindValidation, "too_soon")
	ErrStaffNotEligible    = httperr.New(httperr.KindValidation, "staff_not_eligible")
	ErrInvalidState        = httperr.New(httperr.KindValidation, "invalid_state")
	ErrOutsideWorkingHours = httperr.New(httperr.KindConflict, "outside_working_hours")

	ErrBusinessNotFound    = httperr.New(httperr.KindNotFound, "business_not_found")
	ErrServiceNotFound     = httperr.New(httperr.KindNotFound, "service_not_found")
	ErrStaffNotFound       = httperr.New(httperr.KindNotFound, "staff_not_found")
	ErrAppointmentNotFound = httperr.New(httperr.KindNotFound, "appointment_not_found")

	ErrForbidden = httperr.New(httperr.KindForbidden, "forbidden")
)

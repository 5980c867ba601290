package appointment

import (
	"context"
	"time"
)

// Confirmed is published after a booking transaction commits.
type Confirmed struct {
	AppointmentID uint
	BusinessID    uint
	BusinessName  string
	StaffName     string
	ServiceName   string

	CustomerFirstName string
	CustomerPhone     string

	Start      time.Time
	End        time.Time
	IsDelivery bool
	Address    string
}

// PostCommitHook runs outside the booking transaction. Errors are
// logged by the caller and never undo the booking.
type PostCommitHook interface {
	BookingConfirmed(ctx context.Context, ev Confirmed) error
}

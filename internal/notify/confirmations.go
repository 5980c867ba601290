package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// Confirmations sends the WhatsApp confirmation of a committed booking.
type Confirmations struct {
	sender Sender
	region string
	logger *zap.Logger
}

func NewConfirmations(sender Sender, region string, logger *zap.Logger) *Confirmations {
	return &Confirmations{sender: sender, region: region, logger: logger}
}

var _ domain.PostCommitHook = (*Confirmations)(nil)

func (n *Confirmations) BookingConfirmed(ctx context.Context, ev domain.Confirmed) error {
	phone, err := NormalizePhone(ev.CustomerPhone, n.region)
	if err != nil {
		return fmt.Errorf("phone %q: %w", ev.CustomerPhone, err)
	}

	resp, err := n.sender.SendMessage(ctx, phone, ConfirmationMessage(ev))
	if err != nil {
		return err
	}

	n.logger.Info("booking confirmation sent",
		zap.Uint("appointment_id", ev.AppointmentID),
		zap.String("provider", n.sender.ProviderID()),
		zap.Bool("success", resp != nil && resp.Success),
	)
	return nil
}

func ConfirmationMessage(ev domain.Confirmed) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hola %s, tu cita en %s está confirmada.\n", ev.CustomerFirstName, ev.BusinessName)
	fmt.Fprintf(&b, "Servicio: %s\n", ev.ServiceName)
	fmt.Fprintf(&b, "Profesional: %s\n", ev.StaffName)
	fmt.Fprintf(&b, "Fecha: %s a las %s",
		ev.Start.Format(timezone.DateLayout),
		ev.Start.Format(timezone.TimeLayout),
	)
	if ev.IsDelivery && ev.Address != "" {
		fmt.Fprintf(&b, "\nDirección: %s", ev.Address)
	}
	return b.String()
}

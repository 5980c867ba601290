package appointment

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/interval"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

var bookingTracer = otel.Tracer("agenda.usecase.appointment")

// Clock settings shared by the booking use cases.
type Settings struct {
	// Deployment timezone; dates and times from clients are read in it.
	Location      *time.Location
	TxTimeout     time.Duration
	NotifyTimeout time.Duration
	Now           func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(s.location())
	}
	return time.Now().In(s.location())
}

func (s Settings) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return timezone.Location(timezone.DefaultTimezone)
}

func (s Settings) txTimeout() time.Duration {
	if s.TxTimeout > 0 {
		return s.TxTimeout
	}
	return 10 * time.Second
}

func (s Settings) notifyTimeout() time.Duration {
	if s.NotifyTimeout > 0 {
		return s.NotifyTimeout
	}
	return 10 * time.Second
}

func (s Settings) parseDay(date string) (time.Time, error) {
	d, err := timezone.ParseDate(s.location(), date)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return d, nil
}

func (s Settings) parseStart(date, hm string) (time.Time, error) {
	if _, err := s.parseDay(date); err != nil {
		return time.Time{}, err
	}
	t, err := timezone.ParseDateTime(s.location(), date, hm)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	return t, nil
}

// resolveDelivery decides whether a booking happens at the customer's
// address. choice only matters for services offered both ways.
func resolveDelivery(svc *models.Service, choice string) (bool, error) {
	wantsDelivery := isDeliveryChoice(choice)

	switch svc.LocationType {
	case models.LocationDelivery:
		return true, nil
	case models.LocationBoth:
		return wantsDelivery, nil
	default:
		if wantsDelivery {
			return false, domain.ErrDeliveryNotOffered
		}
		return false, nil
	}
}

func isDeliveryChoice(choice string) bool {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "delivery", "domicilio", "home":
		return true
	}
	return false
}

func footprint(biz *models.Business, svc *models.Service, isDelivery bool) time.Duration {
	d := svc.Duration()
	if isDelivery {
		d += biz.TravelBuffer()
	}
	return d
}

// slotsFor runs the slot generator for one staff member and day using repo,
// which may be bound to a transaction.
func slotsFor(
	ctx context.Context,
	repo domain.Repository,
	biz *models.Business,
	svc *models.Service,
	staffID uint,
	day time.Time,
	isDelivery bool,
	excludeID uint,
	notBefore time.Time,
) ([]time.Time, error) {

	if svc.DurationMin <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	dayStart, dayEnd := timezone.DayBounds(day)

	wh, err := repo.ListWorkingHours(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if len(wh) == 0 {
		return []time.Time{}, nil
	}

	windows := clip(domain.WorkingWindows(wh), dayStart, dayEnd)

	blockers, err := loadBlockers(ctx, repo, staffID, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, err
	}

	req := domain.SlotRequest{
		Windows:   windows,
		Blockers:  blockers,
		Duration:  svc.Duration(),
		NotBefore: notBefore,
	}
	if isDelivery {
		req.Buffer = biz.TravelBuffer()
	}
	return domain.GenerateSlots(req)
}

func loadBlockers(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	from, to time.Time,
	excludeID uint,
) ([]interval.Interval, error) {

	timeOff, err := repo.ListTimeOff(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}
	apps, err := repo.ListOccupyingAppointments(ctx, staffID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	return domain.Blockers(timeOff, apps), nil
}

// verifyPlacement is the authoritative re-check for [start, start+fp).
func verifyPlacement(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	start time.Time,
	fp time.Duration,
	excludeID uint,
) error {

	candidate := interval.Interval{Start: start, End: start.Add(fp)}
	dayStart, dayEnd := timezone.DayBounds(start)

	wh, err := repo.ListWorkingHours(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	from, to := dayStart, dayEnd
	if candidate.End.After(to) {
		to = candidate.End
	}
	blockers, err := loadBlockers(ctx, repo, staffID, from, to, excludeID)
	if err != nil {
		return err
	}

	return domain.CheckPlacement(candidate, domain.WorkingWindows(wh), blockers)
}

// clip trims windows to [from, to); blocks are day-scoped but a stored
// block may run past midnight.
func clip(windows []interval.Interval, from, to time.Time) []interval.Interval {
	out := windows[:0]
	for _, w := range windows {
		if w.Start.Before(from) {
			w.Start = from
		}
		if w.End.After(to) {
			w.End = to
		}
		if w.Start.Before(w.End) {
			out = append(out, w)
		}
	}
	return out
}

func uintPtr(v uint) *uint {
	return &v
}

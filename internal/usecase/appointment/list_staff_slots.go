package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
)

type StaffSlots struct {
	StaffID   uint     `json:"staff_id"`
	StaffName string   `json:"staff_name"`
	Slots     []string `json:"slots"`
}

// ListEligibleStaffWithSlots backs the public staff and time selection
// step: every eligible active staff member with at least one slot.
type ListEligibleStaffWithSlots struct {
	repo     domain.Repository
	metrics  *metrics.BookingMetrics
	logger   *zap.Logger
	settings Settings
}

func NewListEligibleStaffWithSlots(
	repo domain.Repository,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
	settings Settings,
) *ListEligibleStaffWithSlots {
	return &ListEligibleStaffWithSlots{repo: repo, metrics: m, logger: logger, settings: settings}
}

func (uc *ListEligibleStaffWithSlots) Execute(
	ctx context.Context,
	businessID, serviceID uint,
	date string,
	locationChoice string,
) ([]StaffSlots, error) {

	day, err := uc.settings.parseDay(date)
	if err != nil {
		return nil, err
	}

	biz, svc, err := loadCatalog(ctx, uc.repo, businessID, serviceID)
	if err != nil {
		return nil, err
	}

	isDelivery, err := resolveDelivery(svc, locationChoice)
	if err != nil {
		return nil, err
	}

	staff, err := uc.repo.ListEligibleStaff(ctx, businessID, serviceID)
	if err != nil {
		return nil, err
	}

	notBefore := uc.settings.now().Add(biz.MinAdvance())

	out := make([]StaffSlots, 0, len(staff))
	for _, sm := range staff {
		slots, err := slotsFor(ctx, uc.repo, biz, svc, sm.ID, day, isDelivery, 0, notBefore)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidDuration) {
				uc.logger.Error("slot generation failed",
					zap.Uint("business_id", businessID),
					zap.Uint("staff_id", sm.ID),
					zap.Error(err),
				)
			}
			return nil, err
		}
		uc.metrics.ObserveSlots(len(slots))

		if len(slots) == 0 {
			continue
		}
		out = append(out, StaffSlots{
			StaffID:   sm.ID,
			StaffName: sm.Name,
			Slots:     domain.FormatSlots(slots, uc.settings.location()),
		})
	}

	return out, nil
}

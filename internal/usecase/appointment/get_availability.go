package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type AvailabilityInput struct {
	BusinessID uint
	ServiceID  uint
	StaffID    uint
	Date       string
	// "delivery" asks for an at-home booking.
	LocationChoice string
}

type Availability struct {
	Date       string      `json:"date"`
	StaffID    uint        `json:"staff_id"`
	ServiceID  uint        `json:"service_id"`
	IsDelivery bool        `json:"is_delivery"`
	Slots      []string    `json:"slots"`
	Starts     []time.Time `json:"-"`
}

type GetAvailability struct {
	repo     domain.Repository
	metrics  *metrics.BookingMetrics
	settings Settings
}

func NewGetAvailability(
	repo domain.Repository,
	m *metrics.BookingMetrics,
	settings Settings,
) *GetAvailability {
	return &GetAvailability{repo: repo, metrics: m, settings: settings}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*Availability, error) {

	day, err := uc.settings.parseDay(in.Date)
	if err != nil {
		return nil, err
	}

	biz, svc, err := loadCatalog(ctx, uc.repo, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if err := checkStaff(ctx, uc.repo, in.BusinessID, in.StaffID, in.ServiceID); err != nil {
		return nil, err
	}

	isDelivery, err := resolveDelivery(svc, in.LocationChoice)
	if err != nil {
		return nil, err
	}

	slots, err := slotsFor(ctx, uc.repo, biz, svc, in.StaffID, day, isDelivery, 0, uc.earliest(biz))
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveSlots(len(slots))

	return &Availability{
		Date:       in.Date,
		StaffID:    in.StaffID,
		ServiceID:  in.ServiceID,
		IsDelivery: isDelivery,
		Slots:      domain.FormatSlots(slots, uc.settings.location()),
		Starts:     slots,
	}, nil
}

func (uc *GetAvailability) earliest(biz *models.Business) time.Time {
	return uc.settings.now().Add(biz.MinAdvance())
}

func loadCatalog(
	ctx context.Context,
	repo domain.Repository,
	businessID, serviceID uint,
) (*models.Business, *models.Service, error) {

	biz, found, err := repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, domain.ErrBusinessNotFound
	}

	svc, found, err := repo.GetService(ctx, businessID, serviceID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, domain.ErrServiceNotFound
	}

	return biz, svc, nil
}

func checkStaff(
	ctx context.Context,
	repo domain.Repository,
	businessID, staffID, serviceID uint,
) error {

	_, found, err := repo.GetStaffMember(ctx, businessID, staffID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrStaffNotFound
	}

	ok, err := repo.IsStaffEligible(ctx, staffID, serviceID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrStaffNotEligible
	}
	return nil
}

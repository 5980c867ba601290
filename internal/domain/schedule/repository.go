package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type Repository interface {
	// -------- Staff --------
	GetStaffMember(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.StaffMember, bool, error)

	// -------- Working hours --------
	CreateWorkingHours(
		ctx context.Context,
		blocks []models.WorkingHoursBlock,
	) error

	GetWorkingHours(
		ctx context.Context,
		businessID uint,
		blockID uint,
	) (*models.WorkingHoursBlock, bool, error)

	UpdateWorkingHours(
		ctx context.Context,
		block *models.WorkingHoursBlock,
	) error

	DeleteWorkingHours(
		ctx context.Context,
		blockID uint,
	) error

	ListWorkingHours(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.WorkingHoursBlock, error)

	// -------- Time off --------
	CreateTimeOff(
		ctx context.Context,
		block *models.TimeOffBlock,
	) error

	GetTimeOff(
		ctx context.Context,
		businessID uint,
		blockID uint,
	) (*models.TimeOffBlock, bool, error)

	DeleteTimeOff(
		ctx context.Context,
		blockID uint,
	) error

	ListTimeOff(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.TimeOffBlock, error)
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetStaffMember(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.StaffMember, bool, error) {
	return getStaffMember(r.db.WithContext(ctx), businessID, staffID)
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateWorkingHours(
	ctx context.Context,
	blocks []models.WorkingHoursBlock,
) error {
	if len(blocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(blocks, 100).Error
}

func (r *ScheduleGormRepository) GetWorkingHours(
	ctx context.Context,
	businessID uint,
	blockID uint,
) (*models.WorkingHoursBlock, bool, error) {

	var b models.WorkingHoursBlock
	found, err := first(r.db.WithContext(ctx).
		Joins("JOIN staff_members sm ON sm.id = working_hours_blocks.staff_member_id").
		Where("working_hours_blocks.id = ? AND sm.business_id = ?", blockID, businessID), &b)
	if !found || err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (r *ScheduleGormRepository) UpdateWorkingHours(
	ctx context.Context,
	block *models.WorkingHoursBlock,
) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *ScheduleGormRepository) DeleteWorkingHours(
	ctx context.Context,
	blockID uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.WorkingHoursBlock{}, blockID).Error
}

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.WorkingHoursBlock, error) {
	return listWorkingHours(r.db.WithContext(ctx), staffID, from, to)
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateTimeOff(
	ctx context.Context,
	block *models.TimeOffBlock,
) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *ScheduleGormRepository) GetTimeOff(
	ctx context.Context,
	businessID uint,
	blockID uint,
) (*models.TimeOffBlock, bool, error) {

	var b models.TimeOffBlock
	found, err := first(r.db.WithContext(ctx).
		Joins("JOIN staff_members sm ON sm.id = time_off_blocks.staff_member_id").
		Where("time_off_blocks.id = ? AND sm.business_id = ?", blockID, businessID), &b)
	if !found || err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (r *ScheduleGormRepository) DeleteTimeOff(
	ctx context.Context,
	blockID uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.TimeOffBlock{}, blockID).Error
}

func (r *ScheduleGormRepository) ListTimeOff(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.TimeOffBlock, error) {
	return listTimeOff(r.db.WithContext(ctx), staffID, from, to)
}

var _ schedule.Repository = (*ScheduleGormRepository)(nil)

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// WithinTx hands fn a repository bound to one transaction.
func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Business / catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, bool, error) {

	var b models.Business
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &b)
	if !found || err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (r *AppointmentGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, bool, error) {

	var b models.Business
	found, err := first(r.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true), &b)
	if !found || err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, bool, error) {

	var s models.Service
	found, err := first(r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND active = ?", serviceID, businessID, true), &s)
	if !found || err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (r *AppointmentGormRepository) ListServices(
	ctx context.Context,
	businessID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetStaffMember(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.StaffMember, bool, error) {
	return getStaffMember(r.db.WithContext(ctx), businessID, staffID)
}

func getStaffMember(db *gorm.DB, businessID, staffID uint) (*models.StaffMember, bool, error) {
	var sm models.StaffMember
	found, err := first(db.Where("id = ? AND business_id = ? AND active = ?", staffID, businessID, true), &sm)
	if !found || err != nil {
		return nil, false, err
	}
	return &sm, true, nil
}

func (r *AppointmentGormRepository) IsStaffEligible(
	ctx context.Context,
	staffID uint,
	serviceID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StaffService{}).
		Where("staff_member_id = ? AND service_id = ?", staffID, serviceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) ListEligibleStaff(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) ([]models.StaffMember, error) {

	var staff []models.StaffMember
	if err := r.db.WithContext(ctx).
		Joins("JOIN staff_services ss ON ss.staff_member_id = staff_members.id").
		Where(
			"staff_members.business_id = ? AND staff_members.active = ? AND ss.service_id = ?",
			businessID, true, serviceID,
		).
		Order("staff_members.name ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *AppointmentGormRepository) LockStaffMember(
	ctx context.Context,
	staffID uint,
) error {

	var sm models.StaffMember
	found, err := first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", staffID), &sm)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrStaffNotFound
	}
	return nil
}

// --------------------------------------------------
// Identity
// --------------------------------------------------

func (r *AppointmentGormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, bool, error) {

	var u models.User
	found, err := first(r.db.WithContext(ctx).Where("email = ?", email), &u)
	if !found || err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (r *AppointmentGormRepository) GetOrCreateUser(
	ctx context.Context,
	defaults models.User,
) (*models.User, bool, error) {

	u := defaults
	u.ID = 0

	// Staff locks do not serialize two first bookings with the same email.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&u)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &u, true, nil
	}

	var existing models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", defaults.Email).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	businessID uint,
	user *models.User,
	defaults models.Customer,
) (*models.Customer, bool, error) {

	c := defaults
	c.ID = 0
	c.BusinessID = businessID
	c.UserID = user.ID

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&c)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &c, true, nil
	}

	var existing models.Customer
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, user.ID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *AppointmentGormRepository) UpdateCustomer(
	ctx context.Context,
	c *models.Customer,
) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
) (*models.Customer, bool, error) {

	var c models.Customer
	found, err := first(r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", customerID, businessID), &c)
	if !found || err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.WorkingHoursBlock, error) {
	return listWorkingHours(r.db.WithContext(ctx), staffID, from, to)
}

func listWorkingHours(db *gorm.DB, staffID uint, from, to time.Time) ([]models.WorkingHoursBlock, error) {
	var blocks []models.WorkingHoursBlock
	if err := db.
		Where("staff_member_id = ? AND start_time < ? AND end_time > ?", staffID, to, from).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AppointmentGormRepository) ListTimeOff(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.TimeOffBlock, error) {
	return listTimeOff(r.db.WithContext(ctx), staffID, from, to)
}

func listTimeOff(db *gorm.DB, staffID uint, from, to time.Time) ([]models.TimeOffBlock, error) {
	var blocks []models.TimeOffBlock
	if err := db.
		Where("staff_member_id = ? AND start_time < ? AND end_time > ?", staffID, to, from).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AppointmentGormRepository) ListOccupyingAppointments(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"staff_member_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffID, domain.OccupyingStatuses, to, from,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, bool, error) {

	var ap models.Appointment
	found, err := first(r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID), &ap)
	if !found || err != nil {
		return nil, false, err
	}
	return &ap, true, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, bool, error) {

	var ap models.Appointment
	found, err := first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND business_id = ?", appointmentID, businessID), &ap)
	if !found || err != nil {
		return nil, false, err
	}
	return &ap, true, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	f domain.PeriodFilter,
) ([]domain.AppointmentSummary, error) {

	q := r.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.id, a.staff_member_id, a.customer_id, a.start_time, a.end_time,
			a.status, a.is_delivery,
			TRIM(c.first_name || ' ' || c.last_name) AS customer_name,
			s.name AS service_name,
			sm.name AS staff_name`).
		Joins("JOIN customers c ON c.id = a.customer_id").
		Joins("JOIN services s ON s.id = a.service_id").
		Joins("JOIN staff_members sm ON sm.id = a.staff_member_id").
		Where("a.business_id = ? AND a.start_time >= ? AND a.start_time < ?", f.BusinessID, f.From, f.To)

	if f.StaffID != 0 {
		q = q.Where("a.staff_member_id = ?", f.StaffID)
	}
	if f.CustomerID != 0 {
		q = q.Where("a.customer_id = ?", f.CustomerID)
	}

	var out []domain.AppointmentSummary
	if err := q.Order("a.start_time ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time checks
var (
	_ domain.Repository = (*AppointmentGormRepository)(nil)
	_ domain.TxManager  = (*AppointmentGormRepository)(nil)
)

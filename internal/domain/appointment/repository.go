package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// Lookups return found=false with a nil error when the row does not exist.
type Repository interface {
	// -------- Business / catalog --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, bool, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, bool, error)

	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, bool, error)

	ListServices(
		ctx context.Context,
		businessID uint,
	) ([]models.Service, error)

	// -------- Staff --------
	GetStaffMember(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.StaffMember, bool, error)

	IsStaffEligible(
		ctx context.Context,
		staffID uint,
		serviceID uint,
	) (bool, error)

	ListEligibleStaff(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) ([]models.StaffMember, error)

	// LockStaffMember serializes writers of one staff member's timeline
	// until the surrounding transaction ends.
	LockStaffMember(
		ctx context.Context,
		staffID uint,
	) error

	// -------- Identity --------
	FindUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, bool, error)

	// GetOrCreateUser inserts defaults unless the email is taken, in which
	// case the stored user is returned with created=false.
	GetOrCreateUser(
		ctx context.Context,
		defaults models.User,
	) (*models.User, bool, error)

	GetOrCreateCustomer(
		ctx context.Context,
		businessID uint,
		user *models.User,
		defaults models.Customer,
	) (*models.Customer, bool, error)

	UpdateCustomer(
		ctx context.Context,
		c *models.Customer,
	) error

	// -------- Calendar (rows overlapping [from, to)) --------
	ListWorkingHours(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.WorkingHoursBlock, error)

	ListTimeOff(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.TimeOffBlock, error)

	// excludeID skips one appointment, 0 skips none.
	ListOccupyingAppointments(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
		excludeID uint,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, bool, error)

	GetAppointmentForUpdate(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, bool, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetCustomer(
		ctx context.Context,
		businessID uint,
		customerID uint,
	) (*models.Customer, bool, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		filter PeriodFilter,
	) ([]AppointmentSummary, error)
}

// TxManager runs fn inside one storage transaction. Any error returned by
// fn rolls back every write made through the repository it receives.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

type PeriodFilter struct {
	BusinessID uint
	// 0 lists every staff member of the business.
	StaffID    uint
	CustomerID uint
	From       time.Time
	To         time.Time
}

type AppointmentSummary struct {
	ID            uint
	StaffMemberID uint
	CustomerID    uint
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	IsDelivery    bool

	CustomerName string
	ServiceName  string
	StaffName    string
}

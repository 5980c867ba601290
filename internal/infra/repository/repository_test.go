package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestGetBusinessByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "businesses" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	b, found, err := NewAppointmentGormRepository(db).GetBusinessByID(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetServiceError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "services"`).WillReturnError(errors.New("connection refused"))

	_, found, err := NewAppointmentGormRepository(db).GetService(context.Background(), 1, 2)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestLockStaffMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "staff_members" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	require.NoError(t, repo.LockStaffMember(context.Background(), 20))

	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	assert.ErrorIs(t, repo.LockStaffMember(context.Background(), 21), domain.ErrStaffNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserInserts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" .*ON CONFLICT \("email"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	u, created, err := NewAppointmentGormRepository(db).GetOrCreateUser(
		context.Background(), models.User{Email: "maria@example.com", PasswordHash: "x"},
	)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(12), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserEmailTaken(t *testing.T) {
	db, mock := newMockDB(t)

	// A concurrent booking inserted the same email first.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" .*ON CONFLICT \("email"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow(4, "maria@example.com", "customer"))

	u, created, err := NewAppointmentGormRepository(db).GetOrCreateUser(
		context.Background(), models.User{Email: "maria@example.com", PasswordHash: "x"},
	)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(4), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateCustomerInserts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers" .*ON CONFLICT .*DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	c, created, err := NewAppointmentGormRepository(db).GetOrCreateCustomer(
		context.Background(), 1, &models.User{ID: 3}, models.Customer{FirstName: "María"},
	)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(7), c.ID)
	assert.Equal(t, uint(1), c.BusinessID)
	assert.Equal(t, uint(3), c.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateCustomerExisting(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers" .*ON CONFLICT .*DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE business_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "user_id", "phone"}).AddRow(5, 1, 3, "0991234567"))

	c, created, err := NewAppointmentGormRepository(db).GetOrCreateCustomer(
		context.Background(), 1, &models.User{ID: 3}, models.Customer{FirstName: "María"},
	)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(5), c.ID)
	assert.Equal(t, "0991234567", c.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOccupyingAppointmentsExcludes(t *testing.T) {
	db, mock := newMockDB(t)
	from := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE \(staff_member_id = \$1 AND status IN \(\$2,\$3\) AND start_time < \$4 AND end_time > \$5\) AND id <> \$6`).
		WithArgs(20, "scheduled", "completed", sqlmock.AnyArg(), sqlmock.AnyArg(), 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "staff_member_id", "status"}).AddRow(11, 20, "scheduled"))

	apps, err := NewAppointmentGormRepository(db).ListOccupyingAppointments(context.Background(), 20, from, to, 9)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, uint(11), apps[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppointmentsForPeriod(t *testing.T) {
	db, mock := newMockDB(t)
	from := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM appointments AS a JOIN customers c .* AND a.staff_member_id = \$4 ORDER BY a.start_time ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "staff_member_id", "status", "customer_name", "service_name", "staff_name"}).
			AddRow(11, 20, "scheduled", "María Pérez", "Corte", "Ana"))

	rows, err := NewAppointmentGormRepository(db).ListAppointmentsForPeriod(context.Background(), domain.PeriodFilter{
		BusinessID: 1, StaffID: 20, From: from, To: from.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "María Pérez", rows[0].CustomerName)
	assert.Equal(t, "Ana", rows[0].StaffName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewAppointmentGormRepository(db).WithinTx(context.Background(), func(domain.Repository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkingHoursBulk(t *testing.T) {
	db, mock := newMockDB(t)
	day := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "working_hours_blocks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	blocks := []models.WorkingHoursBlock{
		{StaffMemberID: 20, StartTime: day, EndTime: day.Add(4 * time.Hour)},
		{StaffMemberID: 20, StartTime: day.AddDate(0, 0, 2), EndTime: day.AddDate(0, 0, 2).Add(4 * time.Hour)},
	}
	require.NoError(t, NewScheduleGormRepository(db).CreateWorkingHours(context.Background(), blocks))
	assert.Equal(t, uint(1), blocks[0].ID)
	assert.Equal(t, uint(2), blocks[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkingHoursEmptyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	require.NoError(t, NewScheduleGormRepository(db).CreateWorkingHours(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkingHoursScopedToBusiness(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM "working_hours_blocks" JOIN staff_members sm ON sm.id = working_hours_blocks.staff_member_id WHERE working_hours_blocks.id = \$1 AND sm.business_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, found, err := NewScheduleGormRepository(db).GetWorkingHours(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/interval"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// memStore is an in-memory stand-in for Postgres. Transactions are fully
// serialized and rolled back by restoring a snapshot.
type memStore struct {
	mu sync.Mutex

	businesses   map[uint]models.Business
	services     map[uint]models.Service
	staff        map[uint]models.StaffMember
	eligible     map[[2]uint]bool
	users        map[uint]models.User
	customers    map[uint]models.Customer
	workingHours []models.WorkingHoursBlock
	timeOff      []models.TimeOffBlock
	appointments map[uint]models.Appointment
	nextID       uint

	failCreateAppointment error
	failWorkingHours      map[uint]error
}

func newMemStore() *memStore {
	return &memStore{
		businesses:   map[uint]models.Business{},
		services:     map[uint]models.Service{},
		staff:        map[uint]models.StaffMember{},
		eligible:     map[[2]uint]bool{},
		users:        map[uint]models.User{},
		customers:    map[uint]models.Customer{},
		appointments: map[uint]models.Appointment{},
		nextID:       1000,
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	users        map[uint]models.User
	customers    map[uint]models.Customer
	appointments map[uint]models.Appointment
	nextID       uint
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		users:        make(map[uint]models.User, len(s.users)),
		customers:    make(map[uint]models.Customer, len(s.customers)),
		appointments: make(map[uint]models.Appointment, len(s.appointments)),
		nextID:       s.nextID,
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.appointments {
		snap.appointments[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = snap.users
	s.customers = snap.customers
	s.appointments = snap.appointments
	s.nextID = snap.nextID
}

type memRepo struct {
	s    *memStore
	inTx bool
}

func (r *memRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	if err := fn(&memRepo{s: r.s, inTx: true}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *memRepo) GetBusinessByID(_ context.Context, id uint) (*models.Business, bool, error) {
	defer r.lock()()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, false, nil
	}
	return &b, true, nil
}

func (r *memRepo) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, bool, error) {
	defer r.lock()()
	for _, b := range r.s.businesses {
		if b.Slug == slug && b.Active {
			b := b
			return &b, true, nil
		}
	}
	return nil, false, nil
}

func (r *memRepo) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, bool, error) {
	defer r.lock()()
	s, ok := r.s.services[serviceID]
	if !ok || s.BusinessID != businessID || !s.Active {
		return nil, false, nil
	}
	return &s, true, nil
}

func (r *memRepo) ListServices(_ context.Context, businessID uint) ([]models.Service, error) {
	defer r.lock()()
	var out []models.Service
	for _, s := range r.s.services {
		if s.BusinessID == businessID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) GetStaffMember(_ context.Context, businessID, staffID uint) (*models.StaffMember, bool, error) {
	defer r.lock()()
	sm, ok := r.s.staff[staffID]
	if !ok || sm.BusinessID != businessID || !sm.Active {
		return nil, false, nil
	}
	return &sm, true, nil
}

func (r *memRepo) IsStaffEligible(_ context.Context, staffID, serviceID uint) (bool, error) {
	defer r.lock()()
	return r.s.eligible[[2]uint{staffID, serviceID}], nil
}

func (r *memRepo) ListEligibleStaff(_ context.Context, businessID, serviceID uint) ([]models.StaffMember, error) {
	defer r.lock()()
	var out []models.StaffMember
	for _, sm := range r.s.staff {
		if sm.BusinessID == businessID && sm.Active && r.s.eligible[[2]uint{sm.ID, serviceID}] {
			out = append(out, sm)
		}
	}
	return out, nil
}

func (r *memRepo) LockStaffMember(_ context.Context, staffID uint) error {
	defer r.lock()()
	if _, ok := r.s.staff[staffID]; !ok {
		return domain.ErrStaffNotFound
	}
	return nil
}

func (r *memRepo) FindUserByEmail(_ context.Context, email string) (*models.User, bool, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, true, nil
		}
	}
	return nil, false, nil
}

func (r *memRepo) GetOrCreateUser(_ context.Context, defaults models.User) (*models.User, bool, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if u.Email == defaults.Email {
			u := u
			return &u, false, nil
		}
	}
	u := defaults
	u.ID = r.s.id()
	r.s.users[u.ID] = u
	return &u, true, nil
}

func (r *memRepo) GetOrCreateCustomer(
	_ context.Context,
	businessID uint,
	user *models.User,
	defaults models.Customer,
) (*models.Customer, bool, error) {
	defer r.lock()()
	for _, c := range r.s.customers {
		if c.BusinessID == businessID && c.UserID == user.ID {
			c := c
			return &c, false, nil
		}
	}
	c := defaults
	c.ID = r.s.id()
	c.BusinessID = businessID
	c.UserID = user.ID
	r.s.customers[c.ID] = c
	return &c, true, nil
}

func (r *memRepo) UpdateCustomer(_ context.Context, c *models.Customer) error {
	defer r.lock()()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *memRepo) GetCustomer(_ context.Context, businessID, customerID uint) (*models.Customer, bool, error) {
	defer r.lock()()
	c, ok := r.s.customers[customerID]
	if !ok || c.BusinessID != businessID {
		return nil, false, nil
	}
	return &c, true, nil
}

func (r *memRepo) ListWorkingHours(_ context.Context, staffID uint, from, to time.Time) ([]models.WorkingHoursBlock, error) {
	defer r.lock()()
	if err := r.s.failWorkingHours[staffID]; err != nil {
		return nil, err
	}
	var out []models.WorkingHoursBlock
	for _, b := range r.s.workingHours {
		if b.StaffMemberID == staffID && interval.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memRepo) ListTimeOff(_ context.Context, staffID uint, from, to time.Time) ([]models.TimeOffBlock, error) {
	defer r.lock()()
	var out []models.TimeOffBlock
	for _, b := range r.s.timeOff {
		if b.StaffMemberID == staffID && interval.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memRepo) ListOccupyingAppointments(
	_ context.Context,
	staffID uint,
	from, to time.Time,
	excludeID uint,
) ([]models.Appointment, error) {
	defer r.lock()()
	return r.s.occupying(staffID, from, to, excludeID), nil
}

func (s *memStore) occupying(staffID uint, from, to time.Time, excludeID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.StaffMemberID != staffID || ap.ID == excludeID {
			continue
		}
		if !domain.Status(ap.Status).Occupying() {
			continue
		}
		if interval.Overlaps(ap.StartTime, ap.EndTime, from, to) {
			out = append(out, ap)
		}
	}
	return out
}

// exclusionViolation mimics the appointments_no_overlap constraint.
func (s *memStore) exclusionViolation(ap *models.Appointment) error {
	if !domain.Status(ap.Status).Occupying() {
		return nil
	}
	if len(s.occupying(ap.StaffMemberID, ap.StartTime, ap.EndTime, ap.ID)) > 0 {
		return &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
	}
	return nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	if r.s.failCreateAppointment != nil {
		return r.s.failCreateAppointment
	}
	if err := r.s.exclusionViolation(ap); err != nil {
		return err
	}
	ap.ID = r.s.id()
	r.s.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, businessID, appointmentID uint) (*models.Appointment, bool, error) {
	defer r.lock()()
	ap, ok := r.s.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID {
		return nil, false, nil
	}
	return &ap, true, nil
}

func (r *memRepo) GetAppointmentForUpdate(ctx context.Context, businessID, appointmentID uint) (*models.Appointment, bool, error) {
	return r.GetAppointment(ctx, businessID, appointmentID)
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	if _, ok := r.s.appointments[ap.ID]; !ok {
		return errors.New("record not found")
	}
	if err := r.s.exclusionViolation(ap); err != nil {
		return err
	}
	r.s.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, f domain.PeriodFilter) ([]domain.AppointmentSummary, error) {
	defer r.lock()()
	var out []domain.AppointmentSummary
	for _, ap := range r.s.appointments {
		if ap.BusinessID != f.BusinessID || ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		if f.StaffID != 0 && ap.StaffMemberID != f.StaffID {
			continue
		}
		if f.CustomerID != 0 && ap.CustomerID != f.CustomerID {
			continue
		}
		c := r.s.customers[ap.CustomerID]
		out = append(out, domain.AppointmentSummary{
			ID:            ap.ID,
			StaffMemberID: ap.StaffMemberID,
			CustomerID:    ap.CustomerID,
			StartTime:     ap.StartTime,
			EndTime:       ap.EndTime,
			Status:        ap.Status,
			IsDelivery:    ap.IsDelivery,
			CustomerName:  c.FirstName + " " + c.LastName,
			ServiceName:   r.s.services[ap.ServiceID].Name,
			StaffName:     r.s.staff[ap.StaffMemberID].Name,
		})
	}
	return out, nil
}

var (
	_ domain.Repository = (*memRepo)(nil)
	_ domain.TxManager  = (*memRepo)(nil)
)

// memReplay is a ReplayGuard backed by a map.
type memReplay struct {
	mu   sync.Mutex
	used map[string]bool
}

func newMemReplay() *memReplay {
	return &memReplay{used: map[string]bool{}}
}

func (g *memReplay) IsUsed(_ context.Context, id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used[id], nil
}

func (g *memReplay) MarkUsed(_ context.Context, id string, _ time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used[id] = true
	return nil
}

type recordingHook struct {
	mu     sync.Mutex
	events []domain.Confirmed
	err    error
	panics bool
}

func (h *recordingHook) BookingConfirmed(_ context.Context, ev domain.Confirmed) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	if h.panics {
		panic("provider exploded")
	}
	return h.err
}

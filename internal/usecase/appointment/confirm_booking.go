package appointment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/draft"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ContactInfo struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	// "delivery" for an at-home booking when the service offers both.
	LocationChoice string
	Notes          string
}

type ConfirmBookingInput struct {
	// Business resolved from the public URL; must match the draft.
	BusinessID uint
	DraftToken string
	Contact    ContactInfo
}

// ======================================================
// USE CASE
// ======================================================

type ConfirmBookingDeps struct {
	Repo     domain.Repository
	Tx       domain.TxManager
	Drafts   *draft.Signer
	Replay   draft.ReplayGuard
	Hook     domain.PostCommitHook
	Audit    *audit.Dispatcher
	Metrics  *metrics.BookingMetrics
	Logger   *zap.Logger
	Settings Settings
}

type ConfirmBooking struct {
	deps ConfirmBookingDeps
}

func NewConfirmBooking(deps ConfirmBookingDeps) *ConfirmBooking {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ConfirmBooking{deps: deps}
}

type bookingPlan struct {
	biz        *models.Business
	svc        *models.Service
	staff      *models.StaffMember
	start      time.Time
	end        time.Time
	isDelivery bool
	contact    ContactInfo
	draftID    string
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	in ConfirmBookingInput,
) (*models.Appointment, error) {

	ctx, span := bookingTracer.Start(ctx, "appointment.confirm")
	defer span.End()
	span.SetAttributes(attribute.Int64("agenda.business_id", int64(in.BusinessID)))

	ap, plan, err := uc.execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		uc.deps.Metrics.ObserveBooking(resultLabel(err))
		uc.logFailure(in, plan, err)
		return nil, err
	}
	uc.deps.Metrics.ObserveBooking("success")
	span.SetAttributes(attribute.Int64("agenda.appointment_id", int64(ap.ID)))

	// Everything below runs after commit and cannot fail the booking.
	uc.markDraftUsed(ctx, plan.draftID)

	uc.deps.Audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		Action:     "appointment_booked",
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
		Metadata: map[string]any{
			"staff_member_id": ap.StaffMemberID,
			"service_id":      ap.ServiceID,
			"start_time":      ap.StartTime,
			"is_delivery":     ap.IsDelivery,
		},
	})

	uc.runPostCommit(ctx, domain.Confirmed{
		AppointmentID:     ap.ID,
		BusinessID:        plan.biz.ID,
		BusinessName:      plan.biz.Name,
		StaffName:         plan.staff.Name,
		ServiceName:       plan.svc.Name,
		CustomerFirstName: plan.contact.FirstName,
		CustomerPhone:     plan.contact.Phone,
		Start:             ap.StartTime,
		End:               ap.EndTime,
		IsDelivery:        ap.IsDelivery,
		Address:           plan.contact.Address,
	})

	return ap, nil
}

func (uc *ConfirmBooking) execute(
	ctx context.Context,
	in ConfirmBookingInput,
) (*models.Appointment, *bookingPlan, error) {

	// --------------------------------------------------
	// 1. Booking context
	// --------------------------------------------------
	plan, err := uc.plan(ctx, in)
	if err != nil {
		return nil, plan, err
	}

	// --------------------------------------------------
	// 2. Atomic unit, bounded in time
	// --------------------------------------------------
	txCtx, cancel := context.WithTimeout(ctx, uc.deps.Settings.txTimeout())
	defer cancel()

	var ap *models.Appointment
	err = uc.deps.Tx.WithinTx(txCtx, func(repo domain.Repository) error {
		created, err := uc.commit(txCtx, repo, plan)
		if err != nil {
			return err
		}
		ap = created
		return nil
	})
	if err != nil {
		return nil, plan, classify("confirm booking", err)
	}

	return ap, plan, nil
}

// plan validates everything that can be checked before the transaction.
func (uc *ConfirmBooking) plan(ctx context.Context, in ConfirmBookingInput) (*bookingPlan, error) {
	d, draftID, err := uc.deps.Drafts.Parse(in.DraftToken)
	if err != nil {
		return nil, domain.ErrMissingBookingContext
	}
	if d.BusinessID != in.BusinessID {
		return nil, domain.ErrMissingBookingContext
	}

	if uc.deps.Replay != nil {
		used, err := uc.deps.Replay.IsUsed(ctx, draftID)
		if err != nil {
			uc.deps.Logger.Warn("draft replay check unavailable", zap.Error(err))
		} else if used {
			return nil, domain.ErrMissingBookingContext
		}
	}

	contact, err := normalizeContact(in.Contact)
	if err != nil {
		return nil, err
	}

	biz, found, err := uc.deps.Repo.GetBusinessByID(ctx, d.BusinessID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrMissingBookingContext
	}

	svc, found, err := uc.deps.Repo.GetService(ctx, biz.ID, d.ServiceID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrMissingBookingContext
	}

	staff, found, err := uc.deps.Repo.GetStaffMember(ctx, biz.ID, d.StaffID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrMissingBookingContext
	}

	eligible, err := uc.deps.Repo.IsStaffEligible(ctx, staff.ID, svc.ID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.ErrMissingBookingContext
	}

	if svc.DurationMin <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	start, err := uc.deps.Settings.parseStart(d.Date, d.Time)
	if err != nil {
		return nil, domain.ErrMissingBookingContext
	}

	isDelivery, err := resolveDelivery(svc, contact.LocationChoice)
	if err != nil {
		return nil, err
	}
	if isDelivery && contact.Address == "" {
		return nil, domain.ErrMissingAddress
	}

	if start.Before(uc.deps.Settings.now().Add(biz.MinAdvance())) {
		return nil, domain.ErrTooSoon
	}

	return &bookingPlan{
		biz:        biz,
		svc:        svc,
		staff:      staff,
		start:      start,
		end:        start.Add(footprint(biz, svc, isDelivery)),
		isDelivery: isDelivery,
		contact:    contact,
		draftID:    draftID,
	}, nil
}

// commit runs inside the transaction. Any error rolls back the user,
// the customer profile and the appointment together.
func (uc *ConfirmBooking) commit(
	ctx context.Context,
	repo domain.Repository,
	p *bookingPlan,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Serialize writers of this staff member's timeline
	// --------------------------------------------------
	if err := repo.LockStaffMember(ctx, p.staff.ID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Global identity
	// --------------------------------------------------
	user, err := resolveUser(ctx, repo, p.contact)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Business-scoped customer profile
	// --------------------------------------------------
	customer, created, err := repo.GetOrCreateCustomer(ctx, p.biz.ID, user, models.Customer{
		FirstName: p.contact.FirstName,
		LastName:  p.contact.LastName,
		Email:     p.contact.Email,
		Phone:     p.contact.Phone,
		Address:   p.contact.Address,
	})
	if err != nil {
		return nil, err
	}
	if !created && refreshContact(customer, p.contact) {
		if err := repo.UpdateCustomer(ctx, customer); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Authoritative re-check under the lock
	// --------------------------------------------------
	if err := verifyPlacement(ctx, repo, p.staff.ID, p.start, p.end.Sub(p.start), 0); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Appointment
	// --------------------------------------------------
	ap := &models.Appointment{
		BusinessID:    p.biz.ID,
		StaffMemberID: p.staff.ID,
		CustomerID:    customer.ID,
		ServiceID:     p.svc.ID,
		StartTime:     p.start,
		EndTime:       p.end,
		IsDelivery:    p.isDelivery,
		Status:        string(domain.InitialStatus()),
		Notes:         p.contact.Notes,
	}
	if err := repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, domain.ErrSlotConflict
		}
		return nil, err
	}

	return ap, nil
}

func resolveUser(ctx context.Context, repo domain.Repository, c ContactInfo) (*models.User, error) {
	user, found, err := repo.FindUserByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if found {
		return user, nil
	}

	hash, err := unusablePasswordHash()
	if err != nil {
		return nil, err
	}

	user, _, err = repo.GetOrCreateUser(ctx, models.User{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// unusablePasswordHash hashes a random secret nobody knows; the account
// becomes usable only after a password reset.
func unusablePasswordHash() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func refreshContact(c *models.Customer, in ContactInfo) bool {
	changed := false
	if in.Phone != "" && in.Phone != c.Phone {
		c.Phone = in.Phone
		changed = true
	}
	if in.Address != "" && in.Address != c.Address {
		c.Address = in.Address
		changed = true
	}
	return changed
}

func normalizeContact(c ContactInfo) (ContactInfo, error) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)

	if c.Email == "" || c.FirstName == "" || c.LastName == "" || c.Phone == "" {
		return c, domain.ErrMissingContact
	}

	if tooLong(c.Email, maxNameLen) || tooLong(c.FirstName, maxNameLen) ||
		tooLong(c.LastName, maxNameLen) || tooLong(c.Phone, maxPhoneLen) ||
		tooLong(c.Address, maxTextLen) || tooLong(c.Notes, maxTextLen) {
		return c, domain.ErrContactTooLong
	}

	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return c, domain.ErrInvalidEmail
	}
	return c, nil
}

// Column sizes of users, customers and appointments.
const (
	maxNameLen  = 100
	maxPhoneLen = 20
	maxTextLen  = 255
)

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// ======================================================
// POST-COMMIT
// ======================================================

func (uc *ConfirmBooking) markDraftUsed(ctx context.Context, id string) {
	if uc.deps.Replay == nil || id == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := uc.deps.Replay.MarkUsed(ctx, id, uc.deps.Drafts.TTL()); err != nil {
		uc.deps.Logger.Warn("draft replay mark failed", zap.Error(err))
	}
}

// runPostCommit invokes the hook with its own deadline, detached from
// the request. Failures end up in logs, metrics and the audit trail.
func (uc *ConfirmBooking) runPostCommit(ctx context.Context, ev domain.Confirmed) {
	if uc.deps.Hook == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.deps.Settings.notifyTimeout())
	defer cancel()

	err := safeCall(func() error { return uc.deps.Hook.BookingConfirmed(ctx, ev) })
	if err == nil {
		uc.deps.Metrics.ObserveNotification("sent")
		return
	}

	uc.deps.Metrics.ObserveNotification("failed")
	uc.deps.Logger.Error("booking notification failed",
		zap.Uint("business_id", ev.BusinessID),
		zap.Uint("appointment_id", ev.AppointmentID),
		zap.Error(err),
	)
	uc.deps.Audit.Dispatch(audit.Event{
		BusinessID: ev.BusinessID,
		Action:     "booking_notification_failed",
		Entity:     "appointment",
		EntityID:   uintPtr(ev.AppointmentID),
		Metadata:   map[string]string{"error": err.Error()},
	})
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// ======================================================
// ERRORS
// ======================================================

// classify keeps business errors as they are and wraps anything else as a
// persistence failure.
func classify(op string, err error) error {
	if _, ok := httperr.KindOf(err); ok {
		return err
	}
	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotConflict
	}
	if httperr.IsPersistence(err) {
		return err
	}
	return httperr.Persistence(op, err)
}

func resultLabel(err error) string {
	kind, ok := httperr.KindOf(err)
	if !ok {
		return "error"
	}
	return string(kind)
}

func (uc *ConfirmBooking) logFailure(in ConfirmBookingInput, p *bookingPlan, err error) {
	fields := []zap.Field{zap.Uint("business_id", in.BusinessID), zap.Error(err)}
	if p != nil {
		fields = append(fields,
			zap.Uint("staff_id", p.staff.ID),
			zap.Time("start", p.start),
		)
	}

	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		uc.deps.Logger.Info("booking slot conflict", fields...)
	case httperr.IsPersistence(err):
		uc.deps.Logger.Error("booking persistence failure", fields...)
	default:
		uc.deps.Logger.Debug("booking rejected", fields...)
	}
}

package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

func TestConfirmBookingCreatesUserCustomerAndAppointment(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")

	ap, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID,
		DraftToken: token,
		Contact:    contactFor("  Maria@Example.com "),
	})
	require.NoError(t, err)

	assert.Equal(t, anaID, ap.StaffMemberID)
	assert.Equal(t, haircutID, ap.ServiceID)
	assert.True(t, ap.StartTime.Equal(f.at("09:00")))
	assert.True(t, ap.EndTime.Equal(f.at("09:30")))
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.False(t, ap.IsDelivery)

	user, ok := f.userByEmail("maria@example.com")
	require.True(t, ok)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.PasswordHash)

	cust := f.store.customers[ap.CustomerID]
	assert.Equal(t, user.ID, cust.UserID)
	assert.Equal(t, bizID, cust.BusinessID)

	require.Len(t, f.hook.events, 1)
	ev := f.hook.events[0]
	assert.Equal(t, ap.ID, ev.AppointmentID)
	assert.Equal(t, "Estudio Norte", ev.BusinessName)
	assert.Equal(t, "Ana", ev.StaffName)
	assert.Equal(t, "Corte", ev.ServiceName)
	assert.Equal(t, "0991234567", ev.CustomerPhone)

	assert.Len(t, f.replay.used, 1)
}

func TestConfirmBookingReusesExistingIdentity(t *testing.T) {
	f := newFixture(t)
	f.book(t, anaID, "09:00", "maria@example.com")

	token := f.issue(t, anaID, haircutID, "11:00", "")
	contact := contactFor("maria@example.com")
	contact.Phone = "0987654321"

	ap, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID,
		DraftToken: token,
		Contact:    contact,
	})
	require.NoError(t, err)

	assert.Len(t, f.store.users, 1)
	assert.Len(t, f.store.customers, 1)
	assert.Equal(t, "0987654321", f.store.customers[ap.CustomerID].Phone)
}

func TestConfirmBookingDeliveryFootprint(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, massageID, "09:00", "delivery")

	contact := contactFor("maria@example.com")
	contact.LocationChoice = "delivery"
	contact.Address = "Av. Amazonas 123"

	ap, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID,
		DraftToken: token,
		Contact:    contact,
	})
	require.NoError(t, err)

	assert.True(t, ap.IsDelivery)
	assert.True(t, ap.EndTime.Equal(f.at("10:30")))
	assert.Equal(t, "Av. Amazonas 123", f.hook.events[0].Address)
}

func TestConfirmBookingRejectsUnusableContext(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")

	tests := []struct {
		name  string
		input ConfirmBookingInput
	}{
		{"garbage token", ConfirmBookingInput{BusinessID: bizID, DraftToken: "garbage", Contact: contactFor("a@example.com")}},
		{"empty token", ConfirmBookingInput{BusinessID: bizID, Contact: contactFor("a@example.com")}},
		{"other business", ConfirmBookingInput{BusinessID: 2, DraftToken: token, Contact: contactFor("a@example.com")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.confirmer().Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrMissingBookingContext)
		})
	}
	assert.Empty(t, f.store.appointments)
}

func TestConfirmBookingRejectsReplayedDraft(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")
	in := ConfirmBookingInput{BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com")}

	_, err := f.confirmer().Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = f.confirmer().Execute(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrMissingBookingContext)
	assert.Len(t, f.store.appointments, 1)
}

func TestConfirmBookingRejectsDraftForRemovedStaff(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")
	delete(f.store.eligible, [2]uint{anaID, haircutID})

	_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrMissingBookingContext)
}

func TestConfirmBookingValidation(t *testing.T) {
	f := newFixture(t)

	missingName := contactFor("a@example.com")
	missingName.FirstName = " "

	deliveryOnLocal := contactFor("a@example.com")
	deliveryOnLocal.LocationChoice = "delivery"

	longPhone := contactFor("a@example.com")
	longPhone.Phone = strings.Repeat("9", 40)

	longNotes := contactFor("a@example.com")
	longNotes.Notes = strings.Repeat("n", 400)

	longName := contactFor("a@example.com")
	longName.FirstName = strings.Repeat("á", 101)

	// 100 multi-byte runes fit a size:100 column.
	maxName := contactFor("a@example.com")
	maxName.LastName = strings.Repeat("ñ", 100)

	tests := []struct {
		name    string
		service uint
		contact ContactInfo
		want    error
	}{
		{"missing first name", haircutID, missingName, domain.ErrMissingContact},
		{"bad email", haircutID, contactFor("not-an-email"), domain.ErrInvalidEmail},
		{"email with display name", haircutID, contactFor("Maria <a@example.com>"), domain.ErrInvalidEmail},
		{"delivery not offered", haircutID, deliveryOnLocal, domain.ErrDeliveryNotOffered},
		{"phone too long", haircutID, longPhone, domain.ErrContactTooLong},
		{"notes too long", haircutID, longNotes, domain.ErrContactTooLong},
		{"first name too long", haircutID, longName, domain.ErrContactTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := f.issue(t, anaID, tt.service, "09:00", "")
			_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
				BusinessID: bizID, DraftToken: token, Contact: tt.contact,
			})
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, httperr.IsKind(err, httperr.KindValidation))
		})
	}

	t.Run("delivery without address", func(t *testing.T) {
		token := f.issue(t, anaID, massageID, "09:00", "delivery")
		contact := contactFor("a@example.com")
		contact.LocationChoice = "delivery"

		_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
			BusinessID: bizID, DraftToken: token, Contact: contact,
		})
		assert.ErrorIs(t, err, domain.ErrMissingAddress)
	})

	assert.Empty(t, f.store.users)
	assert.Empty(t, f.store.appointments)

	t.Run("names at the column limit", func(t *testing.T) {
		token := f.issue(t, anaID, haircutID, "09:00", "")
		_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
			BusinessID: bizID, DraftToken: token, Contact: maxName,
		})
		require.NoError(t, err)
	})
}

func TestConfirmBookingTooSoon(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")

	f.settings.Now = func() time.Time { return time.Date(2026, 3, 2, 8, 30, 0, 0, f.loc) }

	_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrTooSoon)
}

func TestConfirmBookingSlotTakenSinceDraft(t *testing.T) {
	f := newFixture(t)
	first := f.issue(t, anaID, haircutID, "09:00", "")
	second := f.issue(t, anaID, haircutID, "09:00", "")

	_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: first, Contact: contactFor("first@example.com"),
	})
	require.NoError(t, err)

	_, err = f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: second, Contact: contactFor("second@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	assert.Len(t, f.store.appointments, 1)
	_, created := f.userByEmail("second@example.com")
	assert.False(t, created)
}

func TestConfirmBookingTimeOffAddedSinceDraft(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")

	f.store.timeOff = append(f.store.timeOff, models.TimeOffBlock{
		StaffMemberID: anaID, StartTime: f.at("09:15"), EndTime: f.at("10:00"),
	})

	_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestConfirmBookingIsAtomic(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t, anaID, haircutID, "09:00", "")
	f.store.failCreateAppointment = errors.New("connection reset")

	_, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com"),
	})
	require.Error(t, err)
	assert.True(t, httperr.IsPersistence(err))

	assert.Empty(t, f.store.users)
	assert.Empty(t, f.store.customers)
	assert.Empty(t, f.store.appointments)
	assert.Empty(t, f.replay.used)
	assert.Empty(t, f.hook.events)
}

func TestConfirmBookingSurvivesNotificationFailure(t *testing.T) {
	tests := []struct {
		name string
		hook *recordingHook
	}{
		{"error", &recordingHook{err: errors.New("provider down")}},
		{"panic", &recordingHook{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.hook = tt.hook
			token := f.issue(t, anaID, haircutID, "09:00", "")

			ap, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
				BusinessID: bizID, DraftToken: token, Contact: contactFor("a@example.com"),
			})
			require.NoError(t, err)
			require.NotNil(t, ap)

			assert.Len(t, f.store.appointments, 1)
			assert.Len(t, tt.hook.events, 1)
		})
	}
}

func TestConfirmBookingConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	const n = 8
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = f.issue(t, anaID, haircutID, "09:00", "")
	}

	uc := f.confirmer()
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), ConfirmBookingInput{
				BusinessID: bizID,
				DraftToken: tokens[i],
				Contact:    contactFor(fmt.Sprintf("c%d@example.com", i)),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.store.appointments, 1)
	assert.Len(t, f.store.users, 1)
}

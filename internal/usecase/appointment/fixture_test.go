package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/draft"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

const (
	bizID      uint = 1
	ownerID    uint = 1
	haircutID  uint = 10
	massageID  uint = 11
	anaID      uint = 20
	luisID     uint = 21
	anaUserID  uint = 2
	luisUserID uint = 3
	bookingDay      = "2026-03-02"
)

type fixture struct {
	store    *memStore
	repo     *memRepo
	loc      *time.Location
	settings Settings
	signer   *draft.Signer
	replay   *memReplay
	hook     *recordingHook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc := timezone.Location(timezone.DefaultTimezone)
	s := newMemStore()

	s.businesses[bizID] = models.Business{
		ID: bizID, OwnerID: ownerID, Name: "Estudio Norte", Slug: "estudio-norte",
		TravelBufferMin: 30, MinAdvanceMinutes: 60, Active: true,
	}
	s.services[haircutID] = models.Service{
		ID: haircutID, BusinessID: bizID, Name: "Corte", DurationMin: 30,
		LocationType: models.LocationLocal, Active: true,
	}
	s.services[massageID] = models.Service{
		ID: massageID, BusinessID: bizID, Name: "Masaje", DurationMin: 60,
		LocationType: models.LocationBoth, Active: true,
	}
	s.staff[anaID] = models.StaffMember{ID: anaID, BusinessID: bizID, UserID: uintPtr(anaUserID), Name: "Ana", Active: true}
	s.staff[luisID] = models.StaffMember{ID: luisID, BusinessID: bizID, UserID: uintPtr(luisUserID), Name: "Luis", Active: true}
	s.eligible[[2]uint{anaID, haircutID}] = true
	s.eligible[[2]uint{anaID, massageID}] = true
	s.eligible[[2]uint{luisID, haircutID}] = true

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	s.workingHours = append(s.workingHours,
		models.WorkingHoursBlock{ID: 1, StaffMemberID: anaID, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(13 * time.Hour)},
		models.WorkingHoursBlock{ID: 2, StaffMemberID: luisID, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(13 * time.Hour)},
	)

	return &fixture{
		store: s,
		repo:  &memRepo{s: s},
		loc:   loc,
		settings: Settings{
			Location: loc,
			Now:      func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, loc) },
		},
		signer: draft.NewSigner("test-secret", 30*time.Minute),
		replay: newMemReplay(),
		hook:   &recordingHook{},
	}
}

func (f *fixture) at(hm string) time.Time {
	t, err := timezone.ParseDateTime(f.loc, bookingDay, hm)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) confirmer() *ConfirmBooking {
	return NewConfirmBooking(ConfirmBookingDeps{
		Repo:     f.repo,
		Tx:       f.repo,
		Drafts:   f.signer,
		Replay:   f.replay,
		Hook:     f.hook,
		Logger:   zap.NewNop(),
		Settings: f.settings,
	})
}

func (f *fixture) issue(t *testing.T, staffID, serviceID uint, hm, choice string) string {
	t.Helper()
	out, err := NewIssueDraft(f.repo, f.signer, f.settings).Execute(context.Background(), IssueDraftInput{
		BusinessID:     bizID,
		ServiceID:      serviceID,
		StaffID:        staffID,
		Date:           bookingDay,
		Time:           hm,
		LocationChoice: choice,
	})
	require.NoError(t, err)
	return out.Token
}

func (f *fixture) book(t *testing.T, staffID uint, hm, email string) *models.Appointment {
	t.Helper()
	token := f.issue(t, staffID, haircutID, hm, "")
	ap, err := f.confirmer().Execute(context.Background(), ConfirmBookingInput{
		BusinessID: bizID,
		DraftToken: token,
		Contact:    contactFor(email),
	})
	require.NoError(t, err)
	return ap
}

func (f *fixture) userByEmail(email string) (models.User, bool) {
	for _, u := range f.store.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func contactFor(email string) ContactInfo {
	return ContactInfo{
		Email:     email,
		FirstName: "María",
		LastName:  "Pérez",
		Phone:     "0991234567",
	}
}

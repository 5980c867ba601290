package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/draft"
)

type IssueDraftInput struct {
	BusinessID     uint
	ServiceID      uint
	StaffID        uint
	Date           string
	Time           string
	LocationChoice string
}

type IssuedDraft struct {
	Token     string    `json:"draft_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueDraft validates a slot selection and returns it as a signed
// continuation token for the contact-details step.
type IssueDraft struct {
	repo     domain.Repository
	signer   *draft.Signer
	settings Settings
}

func NewIssueDraft(repo domain.Repository, signer *draft.Signer, settings Settings) *IssueDraft {
	return &IssueDraft{repo: repo, signer: signer, settings: settings}
}

func (uc *IssueDraft) Execute(ctx context.Context, in IssueDraftInput) (*IssuedDraft, error) {
	day, err := uc.settings.parseDay(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := uc.settings.parseStart(in.Date, in.Time)
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

	notBefore := uc.settings.now().Add(biz.MinAdvance())
	slots, err := slotsFor(ctx, uc.repo, biz, svc, in.StaffID, day, isDelivery, 0, notBefore)
	if err != nil {
		return nil, err
	}
	if !domain.ContainsSlot(slots, start) {
		return nil, domain.ErrSlotUnavailable
	}

	token, exp, err := uc.signer.Issue(draft.BookingDraft{
		BusinessID: in.BusinessID,
		ServiceID:  in.ServiceID,
		StaffID:    in.StaffID,
		Date:       in.Date,
		Time:       start.Format("15:04"),
	})
	if err != nil {
		return nil, err
	}

	return &IssuedDraft{Token: token, ExpiresAt: exp}, nil
}

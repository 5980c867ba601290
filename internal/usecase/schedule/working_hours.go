package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type CreateWorkingHoursInput struct {
	StaffID       uint
	Date          string
	StartTime     string
	EndTime       string
	StaffEditable bool

	// Optional weekly recurrence. RepeatUntil is a date, inclusive.
	RepeatOn    []time.Weekday
	RepeatUntil string
}

type CreateWorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewCreateWorkingHours(repo domain.Repository, audit *audit.Dispatcher, loc *time.Location) *CreateWorkingHours {
	return &CreateWorkingHours{repo: repo, audit: audit, loc: location(loc)}
}

func (uc *CreateWorkingHours) Execute(
	ctx context.Context,
	who caller.Caller,
	in CreateWorkingHoursInput,
) ([]models.WorkingHoursBlock, error) {

	if !who.IsOwnerOf(who.BusinessID) {
		return nil, domain.ErrForbidden
	}
	if _, err := loadStaff(ctx, uc.repo, who.BusinessID, in.StaffID); err != nil {
		return nil, err
	}

	start, err := parseClock(uc.loc, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(uc.loc, in.Date, in.EndTime)
	if err != nil {
		return nil, err
	}

	var rec *domain.Weekly
	if len(in.RepeatOn) > 0 {
		until, err := parseClock(uc.loc, in.RepeatUntil, "00:00")
		if err != nil {
			return nil, domain.ErrInvalidRecurrence
		}
		rec = &domain.Weekly{Weekdays: in.RepeatOn, Until: until}
	}

	spans, err := domain.ExpandWeekly(start, end, rec)
	if err != nil {
		return nil, err
	}

	blocks := make([]models.WorkingHoursBlock, 0, len(spans))
	for _, s := range spans {
		blocks = append(blocks, models.WorkingHoursBlock{
			StaffMemberID: in.StaffID,
			StartTime:     s.Start,
			EndTime:       s.End,
			StaffEditable: in.StaffEditable,
		})
	}

	if err := uc.repo.CreateWorkingHours(ctx, blocks); err != nil {
		return nil, err
	}

	record(uc.audit, who, "working_hours_created", "staff_member", in.StaffID, map[string]any{
		"blocks": len(blocks),
	})
	return blocks, nil
}

type UpdateWorkingHoursInput struct {
	BlockID   uint
	Date      string
	StartTime string
	EndTime   string
	// Only the owner may change it; nil keeps the current value.
	StaffEditable *bool
}

type UpdateWorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewUpdateWorkingHours(repo domain.Repository, audit *audit.Dispatcher, loc *time.Location) *UpdateWorkingHours {
	return &UpdateWorkingHours{repo: repo, audit: audit, loc: location(loc)}
}

func (uc *UpdateWorkingHours) Execute(
	ctx context.Context,
	who caller.Caller,
	in UpdateWorkingHoursInput,
) (*models.WorkingHoursBlock, error) {

	block, err := editableBlock(ctx, uc.repo, who, in.BlockID)
	if err != nil {
		return nil, err
	}

	start, err := parseClock(uc.loc, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(uc.loc, in.Date, in.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ExpandWeekly(start, end, nil); err != nil {
		return nil, err
	}

	block.StartTime = start
	block.EndTime = end
	if in.StaffEditable != nil {
		if !who.IsOwnerOf(who.BusinessID) {
			return nil, domain.ErrNotEditable
		}
		block.StaffEditable = *in.StaffEditable
	}

	if err := uc.repo.UpdateWorkingHours(ctx, block); err != nil {
		return nil, err
	}

	record(uc.audit, who, "working_hours_updated", "working_hours", block.ID, nil)
	return block, nil
}

type DeleteWorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteWorkingHours(repo domain.Repository, audit *audit.Dispatcher) *DeleteWorkingHours {
	return &DeleteWorkingHours{repo: repo, audit: audit}
}

func (uc *DeleteWorkingHours) Execute(ctx context.Context, who caller.Caller, blockID uint) error {
	block, err := editableBlock(ctx, uc.repo, who, blockID)
	if err != nil {
		return err
	}
	if err := uc.repo.DeleteWorkingHours(ctx, block.ID); err != nil {
		return err
	}

	record(uc.audit, who, "working_hours_deleted", "working_hours", block.ID, nil)
	return nil
}

// editableBlock loads a block the caller may change: any block for the
// owner, a staff_editable block of their own for staff.
func editableBlock(
	ctx context.Context,
	repo domain.Repository,
	who caller.Caller,
	blockID uint,
) (*models.WorkingHoursBlock, error) {

	if !who.CanViewBusiness(who.BusinessID) {
		return nil, domain.ErrForbidden
	}

	block, found, err := repo.GetWorkingHours(ctx, who.BusinessID, blockID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrBlockNotFound
	}

	switch {
	case who.IsOwnerOf(who.BusinessID):
		return block, nil
	case who.IsStaff(who.BusinessID, block.StaffMemberID):
		if !block.StaffEditable {
			return nil, domain.ErrNotEditable
		}
		return block, nil
	default:
		return nil, domain.ErrForbidden
	}
}

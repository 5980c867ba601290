package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/interval"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// CreateTimeOffInput may span several days, e.g. a vacation.
type CreateTimeOffInput struct {
	StaffID   uint
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	Reason    string
}

type CreateTimeOff struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewCreateTimeOff(repo domain.Repository, audit *audit.Dispatcher, loc *time.Location) *CreateTimeOff {
	return &CreateTimeOff{repo: repo, audit: audit, loc: location(loc)}
}

func (uc *CreateTimeOff) Execute(
	ctx context.Context,
	who caller.Caller,
	in CreateTimeOffInput,
) (*models.TimeOffBlock, error) {

	if !who.CanAccessStaff(who.BusinessID, in.StaffID) {
		return nil, domain.ErrForbidden
	}
	if _, err := loadStaff(ctx, uc.repo, who.BusinessID, in.StaffID); err != nil {
		return nil, err
	}

	endDate := in.EndDate
	if endDate == "" {
		endDate = in.StartDate
	}
	start, err := parseClock(uc.loc, in.StartDate, in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(uc.loc, endDate, in.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := interval.New(start, end); err != nil {
		return nil, domain.ErrInvalidInterval
	}

	block := &models.TimeOffBlock{
		StaffMemberID: in.StaffID,
		StartTime:     start,
		EndTime:       end,
		Reason:        strings.TrimSpace(in.Reason),
	}
	if err := uc.repo.CreateTimeOff(ctx, block); err != nil {
		return nil, err
	}

	record(uc.audit, who, "time_off_created", "time_off", block.ID, nil)
	return block, nil
}

type DeleteTimeOff struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteTimeOff(repo domain.Repository, audit *audit.Dispatcher) *DeleteTimeOff {
	return &DeleteTimeOff{repo: repo, audit: audit}
}

func (uc *DeleteTimeOff) Execute(ctx context.Context, who caller.Caller, blockID uint) error {
	if !who.CanViewBusiness(who.BusinessID) {
		return domain.ErrForbidden
	}

	block, found, err := uc.repo.GetTimeOff(ctx, who.BusinessID, blockID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrBlockNotFound
	}
	if !who.CanAccessStaff(who.BusinessID, block.StaffMemberID) {
		return domain.ErrForbidden
	}

	if err := uc.repo.DeleteTimeOff(ctx, block.ID); err != nil {
		return err
	}

	record(uc.audit, who, "time_off_deleted", "time_off", block.ID, nil)
	return nil
}

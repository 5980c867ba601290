package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	availability *appointment.GetAvailability
	staffSlots   *appointment.ListEligibleStaffWithSlots
	issueDraft   *appointment.IssueDraft
	confirm      *appointment.ConfirmBooking
	logger       *zap.Logger
}

func NewPublicHandler(
	repo domain.Repository,
	availability *appointment.GetAvailability,
	staffSlots *appointment.ListEligibleStaffWithSlots,
	issueDraft *appointment.IssueDraft,
	confirm *appointment.ConfirmBooking,
	logger *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		staffSlots:   staffSlots,
		issueDraft:   issueDraft,
		confirm:      confirm,
		logger:       logger,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type CreateDraftRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
	Location  string `json:"location"`
}

type ConfirmBookingRequest struct {
	DraftToken string `json:"draft_token" binding:"required"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

////////////////////////////////////////////////////////
// BUSINESS
////////////////////////////////////////////////////////

// business resolves :slug; it writes the 404 itself.
func (h *PublicHandler) business(c *gin.Context) (*models.Business, bool) {
	biz, found, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	if !found {
		httperr.NotFound(c, "business_not_found", "Business not found")
		return nil, false
	}
	return biz, true
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	services, err := h.repo.ListServices(c.Request.Context(), biz.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"id":      biz.ID,
			"name":    biz.Name,
			"slug":    biz.Slug,
			"phone":   biz.Phone,
			"address": biz.Address,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability answers for one staff member when staff_id is given,
// otherwise for every eligible staff member with free time.
func (h *PublicHandler) Availability(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	date := c.Query("date")
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	if date == "" || serviceID == 0 {
		httperr.BadRequest(c, "missing_params", "date and service_id are required")
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		return
	}
	location := c.Query("location")

	if staffID == 0 {
		staff, err := h.staffSlots.Execute(c.Request.Context(), biz.ID, serviceID, date, location)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		httpresp.List(c, staff)
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		BusinessID:     biz.ID,
		ServiceID:      serviceID,
		StaffID:        staffID,
		Date:           date,
		LocationChoice: location,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, out)
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateDraft(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.issueDraft.Execute(c.Request.Context(), appointment.IssueDraftInput{
		BusinessID:     biz.ID,
		ServiceID:      req.ServiceID,
		StaffID:        req.StaffID,
		Date:           req.Date,
		Time:           req.Time,
		LocationChoice: req.Location,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *PublicHandler) ConfirmBooking(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Without a draft there is nothing to confirm.
		respondError(c, h.logger, domain.ErrMissingBookingContext)
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), appointment.ConfirmBookingInput{
		BusinessID: biz.ID,
		DraftToken: req.DraftToken,
		Contact: appointment.ContactInfo{
			Email:          req.Email,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Phone:          req.Phone,
			Address:        req.Address,
			LocationChoice: req.Location,
			Notes:          req.Notes,
		},
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	httpresp.Created(c, gin.H{
		"id":          ap.ID,
		"staff_id":    ap.StaffMemberID,
		"service_id":  ap.ServiceID,
		"start_time":  ap.StartTime,
		"end_time":    ap.EndTime,
		"is_delivery": ap.IsDelivery,
		"status":      ap.Status,
	})
}

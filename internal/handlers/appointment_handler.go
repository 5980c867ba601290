package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
	cancel       *appointment.CancelAppointment
	complete     *appointment.CompleteAppointment
	rescheduleAv *appointment.RescheduleAvailability
	reschedule   *appointment.RescheduleAppointment
	logger       *zap.Logger
}

func NewAppointmentHandler(
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
	cancel *appointment.CancelAppointment,
	complete *appointment.CompleteAppointment,
	rescheduleAv *appointment.RescheduleAvailability,
	reschedule *appointment.RescheduleAppointment,
	logger *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		cancel:       cancel,
		complete:     complete,
		rescheduleAv: rescheduleAv,
		reschedule:   reschedule,
		logger:       logger,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RescheduleRequest struct {
	// Only read for customers; staff and owners act on their own business.
	BusinessID uint   `json:"business_id"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

// ListByDate: GET /api/appointments?date=YYYY-MM-DD[&staff_id=]
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), middleware.CallerFrom(c), staffID, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.List(c, out)
}

// ListByMonth: GET /api/appointments/month?year=2026&month=3[&staff_id=]
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_date", "year and month are required")
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), middleware.CallerFrom(c), staffID, year, month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

// RescheduleAvailability: GET /api/appointments/:id/availability?date=
func (h *AppointmentHandler) RescheduleAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	who := middleware.CallerFrom(c)
	businessID := who.BusinessID
	if businessID == 0 {
		if businessID, ok = queryID(c, "business_id"); !ok {
			return
		}
	}

	slots, err := h.rescheduleAv.Execute(c.Request.Context(), who, businessID, id, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, gin.H{
		"appointment_id": id,
		"date":           date,
		"slots":          slots,
	})
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	who := middleware.CallerFrom(c)
	businessID := who.BusinessID
	if businessID == 0 {
		businessID = req.BusinessID
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), who, appointment.RescheduleInput{
		BusinessID:    businessID,
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, ap)
}

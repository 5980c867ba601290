package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/usecase/schedule"
)

type ScheduleHandler struct {
	list          *schedule.ListSchedule
	createHours   *schedule.CreateWorkingHours
	updateHours   *schedule.UpdateWorkingHours
	deleteHours   *schedule.DeleteWorkingHours
	createTimeOff *schedule.CreateTimeOff
	deleteTimeOff *schedule.DeleteTimeOff
	logger        *zap.Logger
}

func NewScheduleHandler(
	list *schedule.ListSchedule,
	createHours *schedule.CreateWorkingHours,
	updateHours *schedule.UpdateWorkingHours,
	deleteHours *schedule.DeleteWorkingHours,
	createTimeOff *schedule.CreateTimeOff,
	deleteTimeOff *schedule.DeleteTimeOff,
	logger *zap.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		list:          list,
		createHours:   createHours,
		updateHours:   updateHours,
		deleteHours:   deleteHours,
		createTimeOff: createTimeOff,
		deleteTimeOff: deleteTimeOff,
		logger:        logger,
	}
}

type WorkingHoursRequest struct {
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	StaffEditable bool   `json:"staff_editable"`
	// 0 = Sunday ... 6 = Saturday
	RepeatOn    []int  `json:"repeat_on" binding:"omitempty,dive,min=0,max=6"`
	RepeatUntil string `json:"repeat_until"`
}

type WorkingHoursUpdateRequest struct {
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	StaffEditable *bool  `json:"staff_editable"`
}

type TimeOffRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

// Get: GET /api/staff/:staffID/schedule?from=&to=
func (h *ScheduleHandler) Get(c *gin.Context) {
	staffID, ok := paramID(c, "staffID")
	if !ok {
		return
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" {
		httperr.BadRequest(c, "missing_date", "from is required")
		return
	}
	if to == "" {
		to = from
	}

	out, err := h.list.Execute(c.Request.Context(), middleware.CallerFrom(c), staffID, from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ScheduleHandler) CreateWorkingHours(c *gin.Context) {
	staffID, ok := paramID(c, "staffID")
	if !ok {
		return
	}

	var req WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	repeatOn := make([]time.Weekday, 0, len(req.RepeatOn))
	for _, d := range req.RepeatOn {
		repeatOn = append(repeatOn, time.Weekday(d))
	}

	blocks, err := h.createHours.Execute(c.Request.Context(), middleware.CallerFrom(c), schedule.CreateWorkingHoursInput{
		StaffID:       staffID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StaffEditable: req.StaffEditable,
		RepeatOn:      repeatOn,
		RepeatUntil:   req.RepeatUntil,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":  blocks,
		"total": len(blocks),
	})
}

func (h *ScheduleHandler) UpdateWorkingHours(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	block, err := h.updateHours.Execute(c.Request.Context(), middleware.CallerFrom(c), schedule.UpdateWorkingHoursInput{
		BlockID:       id,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StaffEditable: req.StaffEditable,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, block)
}

func (h *ScheduleHandler) DeleteWorkingHours(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteHours.Execute(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) CreateTimeOff(c *gin.Context) {
	staffID, ok := paramID(c, "staffID")
	if !ok {
		return
	}

	var req TimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	block, err := h.createTimeOff.Execute(c.Request.Context(), middleware.CallerFrom(c), schedule.CreateTimeOffInput{
		StaffID:   staffID,
		StartDate: req.StartDate,
		StartTime: req.StartTime,
		EndDate:   req.EndDate,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.Created(c, block)
}

func (h *ScheduleHandler) DeleteTimeOff(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteTimeOff.Execute(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

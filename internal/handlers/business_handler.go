package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type BusinessHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewBusinessHandler(db *gorm.DB, logger *zap.Logger) *BusinessHandler {
	return &BusinessHandler{db: db, logger: logger}
}

type UpdateBusinessRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
	TravelBufferMin   *int    `json:"travel_buffer_min"`
}

func (h *BusinessHandler) GetMine(c *gin.Context) {
	who, ok := requireBusiness(c)
	if !ok {
		return
	}

	var biz models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&biz, who.BusinessID).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, biz)
}

// UpdateMine changes the profile and the booking settings; owner only.
func (h *BusinessHandler) UpdateMine(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var biz models.Business
	if err := db.First(&biz, who.BusinessID).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive (minutes).")
			return
		}
		biz.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.TravelBufferMin != nil {
		if *req.TravelBufferMin < 0 {
			httperr.BadRequest(c, "invalid_travel_buffer", "Travel buffer must be zero or positive (minutes).")
			return
		}
		biz.TravelBufferMin = *req.TravelBufferMin
	}
	if req.Name != nil {
		biz.Name = *req.Name
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = *req.Address
	}

	if err := db.Save(&biz).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, biz)
}

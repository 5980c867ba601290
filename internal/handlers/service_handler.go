package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type ServiceHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewServiceHandler(db *gorm.DB, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{db: db, logger: logger}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DurationMin  int     `json:"duration_min" binding:"required,min=1"`
	Price        float64 `json:"price"`
	LocationType string  `json:"location_type" binding:"omitempty,oneof=LOCAL DELIVERY BOTH"`
}

type UpdateServiceRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	DurationMin  *int     `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Price        *float64 `json:"price,omitempty"`
	LocationType *string  `json:"location_type,omitempty" binding:"omitempty,oneof=LOCAL DELIVERY BOTH"`
	Active       *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	who, ok := requireBusiness(c)
	if !ok {
		return
	}

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", who.BusinessID)

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	locationType := req.LocationType
	if locationType == "" {
		locationType = models.LocationLocal
	}

	svc := models.Service{
		BusinessID:   who.BusinessID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		LocationType: locationType,
		Active:       true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var svc models.Service
	if err := db.Where("id = ? AND business_id = ?", id, who.BusinessID).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		respondError(c, h.logger, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.LocationType != nil {
		svc.LocationType = *req.LocationType
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := db.Save(&svc).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, svc)
}

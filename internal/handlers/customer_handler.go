package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type CustomerHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCustomerHandler(db *gorm.DB, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{db: db, logger: logger}
}

// ======================================================
// LIST CUSTOMERS
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	who, ok := requireBusiness(c)
	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", who.BusinessID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like,
		)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Find(&customers).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.List(c, customers)
}

// ======================================================
// CUSTOMER DETAIL
// ======================================================

func (h *CustomerHandler) Get(c *gin.Context) {
	who, ok := requireBusiness(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var cu models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, who.BusinessID).
		First(&cu).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, cu)
}

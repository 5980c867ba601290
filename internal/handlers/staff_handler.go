package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type StaffHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStaffHandler(db *gorm.DB, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{db: db, logger: logger}
}

// CreateStaffRequest: email and password, when given, open a staff login.
type CreateStaffRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Password   string `json:"password" binding:"omitempty,min=6"`
	ServiceIDs []uint `json:"service_ids"`
}

type UpdateStaffRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

type StaffServicesRequest struct {
	ServiceIDs []uint `json:"service_ids"`
}

var errUnknownService = errors.New("service_not_found")

func (h *StaffHandler) List(c *gin.Context) {
	who, ok := requireBusiness(c)
	if !ok {
		return
	}

	var staff []models.StaffMember
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", who.BusinessID).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if (req.Email == "") != (req.Password == "") {
		httperr.BadRequest(c, "invalid_request", "email and password go together")
		return
	}

	sm := models.StaffMember{
		BusinessID: who.BusinessID,
		Name:       req.Name,
		Active:     true,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if req.Email != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			email := strings.ToLower(strings.TrimSpace(req.Email))

			var count int64
			if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errEmailTaken
			}

			user := models.User{
				FirstName:    req.Name,
				Email:        email,
				PasswordHash: string(hashed),
				Role:         models.RoleStaff,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			sm.UserID = &user.ID
		}

		if err := tx.Create(&sm).Error; err != nil {
			return err
		}
		return linkServices(tx, who.BusinessID, sm.ID, req.ServiceIDs)
	})
	if !h.linkFailed(c, err) {
		c.JSON(http.StatusCreated, sm)
	}
}

func (h *StaffHandler) Update(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "staffID")
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var sm models.StaffMember
	if err := db.Where("id = ? AND business_id = ?", id, who.BusinessID).First(&sm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Staff member not found.")
			return
		}
		respondError(c, h.logger, err)
		return
	}

	if req.Name != nil {
		sm.Name = *req.Name
	}
	if req.Active != nil {
		sm.Active = *req.Active
	}

	if err := db.Save(&sm).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	httpresp.OK(c, sm)
}

// SetServices replaces the services a staff member can perform.
func (h *StaffHandler) SetServices(c *gin.Context) {
	who, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "staffID")
	if !ok {
		return
	}

	var req StaffServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var sm models.StaffMember
		if err := tx.Where("id = ? AND business_id = ?", id, who.BusinessID).First(&sm).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_member_id = ?", sm.ID).Delete(&models.StaffService{}).Error; err != nil {
			return err
		}
		return linkServices(tx, who.BusinessID, sm.ID, req.ServiceIDs)
	})
	if !h.linkFailed(c, err) {
		c.JSON(http.StatusOK, gin.H{
			"staff_id":    id,
			"service_ids": req.ServiceIDs,
		})
	}
}

func (h *StaffHandler) linkFailed(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
	case errors.Is(err, errUnknownService):
		httperr.BadRequest(c, errUnknownService.Error(), "Unknown service for this business.")
	case errors.Is(err, errEmailTaken):
		httperr.Conflict(c, errEmailTaken.Error(), "Already registered.")
	default:
		respondError(c, h.logger, err)
	}
	return true
}

// linkServices checks every service belongs to the business before
// inserting the links.
func linkServices(tx *gorm.DB, businessID, staffID uint, serviceIDs []uint) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Service{}).
		Where("business_id = ? AND id IN ?", businessID, serviceIDs).
		Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(uniqueIDs(serviceIDs)) {
		return errUnknownService
	}

	links := make([]models.StaffService, 0, len(serviceIDs))
	for _, id := range uniqueIDs(serviceIDs) {
		links = append(links, models.StaffService{StaffMemberID: staffID, ServiceID: id})
	}
	return tx.Create(&links).Error
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/auth"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.Tokens
	emails *validators.EmailDomains
	logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Tokens, emails *validators.EmailDomains, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, emails: emails, logger: logger}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`

	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

type RegisterCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var (
	errSlugTaken  = errors.New("slug_already_exists")
	errEmailTaken = errors.New("email_already_registered")
)

// --------- Handlers ---------

// Register creates a business together with its owner account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emails.Valid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}
	biz := models.Business{
		Name:    req.BusinessName,
		Slug:    slug,
		Phone:   req.BusinessPhone,
		Address: req.BusinessAddress,
		Active:  true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errSlugTaken
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		biz.OwnerID = user.ID
		return tx.Create(&biz).Error
	})
	switch {
	case errors.Is(err, errSlugTaken), errors.Is(err, errEmailTaken):
		httperr.Conflict(c, err.Error(), "Already registered.")
		return
	case err != nil:
		respondError(c, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(caller.NewOwner(user.ID, biz.ID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":     userView(&user),
		"business": businessView(&biz),
		"role":     models.RoleOwner,
		"token":    token,
	})
}

// RegisterCustomer opens an account for booking customers. Bookings made
// earlier with the same email are already linked to it by email.
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emails.Valid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleCustomer,
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	if count > 0 {
		httperr.Conflict(c, errEmailTaken.Error(), "Already registered.")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(caller.NewCustomer(user.ID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(&user),
		"role":  models.RoleCustomer,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		respondError(c, h.logger, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	who, biz, err := resolveCaller(h.db.WithContext(c.Request.Context()), &user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(who)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := gin.H{
		"user":  userView(&user),
		"role":  who.Kind.String(),
		"token": token,
	}
	if biz != nil {
		resp["business"] = businessView(biz)
	}
	c.JSON(http.StatusOK, resp)
}

// --------- Role resolution ---------

// resolveCaller: owner of a business, else an active staff member, else
// a customer.
func resolveCaller(db *gorm.DB, user *models.User) (caller.Caller, *models.Business, error) {
	var biz models.Business
	err := db.Where("owner_id = ?", user.ID).First(&biz).Error
	if err == nil {
		return caller.NewOwner(user.ID, biz.ID), &biz, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return caller.Caller{}, nil, err
	}

	var sm models.StaffMember
	err = db.Where("user_id = ? AND active = ?", user.ID, true).First(&sm).Error
	if err == nil {
		if err := db.First(&biz, sm.BusinessID).Error; err != nil {
			return caller.Caller{}, nil, err
		}
		return caller.NewStaff(user.ID, sm.BusinessID, sm.ID), &biz, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return caller.Caller{}, nil, err
	}

	return caller.NewCustomer(user.ID), nil, nil
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"phone":      u.Phone,
	}
}

func businessView(b *models.Business) gin.H {
	return gin.H{
		"id":      b.ID,
		"name":    b.Name,
		"slug":    b.Slug,
		"phone":   b.Phone,
		"address": b.Address,
	}
}

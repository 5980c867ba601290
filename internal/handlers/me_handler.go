package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type MeHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMeHandler(db *gorm.DB, logger *zap.Logger) *MeHandler {
	return &MeHandler{db: db, logger: logger}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	who := middleware.CallerFrom(c)
	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, who.UserID).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := gin.H{
		"user": userView(&user),
		"role": who.Kind.String(),
	}

	if who.Kind == caller.Owner || who.Kind == caller.Staff {
		var biz models.Business
		if err := db.First(&biz, who.BusinessID).Error; err != nil {
			respondError(c, h.logger, err)
			return
		}
		resp["business"] = businessView(&biz)
	}
	if who.Kind == caller.Staff {
		resp["staff_id"] = who.StaffID
	}

	c.JSON(http.StatusOK, resp)
}

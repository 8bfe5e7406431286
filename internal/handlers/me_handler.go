package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		httperr.Unauthorized(c, "user_not_in_context", "Authentication credentials were not provided.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Profile").
		Preload("Profile.Department").
		First(&user, userID).Error; err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	httpresp.OK(c, dto.NewUserDTO(&user))
}

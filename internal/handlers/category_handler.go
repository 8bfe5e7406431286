package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type CategoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCategoryHandler(db *gorm.DB, audit *audit.Dispatcher) *CategoryHandler {
	return &CategoryHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// --------- Handlers ---------

func (h *CategoryHandler) List(c *gin.Context) {
	var items []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&items).Error; err != nil {
		respondError(c, err, "category_not_found", "category_already_exists")
		return
	}
	httpresp.List(c, items)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "category_not_found")
	if !ok {
		return
	}

	var item models.Category
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		respondError(c, err, "category_not_found", "category_already_exists")
		return
	}
	httpresp.OK(c, item)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	item := models.Category{Name: strings.TrimSpace(*req.Name)}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		respondError(c, err, "category_not_found", "category_already_exists")
		return
	}

	writeAudit(c, h.audit, "category_created", "category", item.ID, nil)
	c.JSON(http.StatusCreated, item)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "category_not_found")
	if !ok {
		return
	}

	var item models.Category
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		respondError(c, err, "category_not_found", "category_already_exists")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if isFullUpdate(c) && !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&item).Error; err != nil {
		respondError(c, err, "category_not_found", "category_already_exists")
		return
	}

	writeAudit(c, h.audit, "category_updated", "category", item.ID, nil)
	httpresp.OK(c, item)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "category_not_found")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Category{}, id)
	if res.Error != nil {
		respondError(c, res.Error, "category_not_found", "category_already_exists")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "category_not_found", "Not found.")
		return
	}

	writeAudit(c, h.audit, "category_deleted", "category", id, nil)
	httpresp.NoContent(c)
}

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

type DepartmentHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewDepartmentHandler(db *gorm.DB, audit *audit.Dispatcher) *DepartmentHandler {
	return &DepartmentHandler{db: db, audit: audit}
}

// --------- Requests ---------

type DepartmentRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// --------- Handlers ---------

func (h *DepartmentHandler) List(c *gin.Context) {
	var items []models.Department
	if err := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&items).Error; err != nil {
		respondError(c, err, "department_not_found", "department_already_exists")
		return
	}
	httpresp.List(c, items)
}

func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "department_not_found")
	if !ok {
		return
	}

	var item models.Department
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		respondError(c, err, "department_not_found", "department_already_exists")
		return
	}
	httpresp.OK(c, item)
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	item := models.Department{Name: strings.TrimSpace(*req.Name)}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		respondError(c, err, "department_not_found", "department_already_exists")
		return
	}

	writeAudit(c, h.audit, "department_created", "department", item.ID, nil)
	c.JSON(http.StatusCreated, item)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "department_not_found")
	if !ok {
		return
	}

	var item models.Department
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		respondError(c, err, "department_not_found", "department_already_exists")
		return
	}

	var req DepartmentRequest
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
		respondError(c, err, "department_not_found", "department_already_exists")
		return
	}

	writeAudit(c, h.audit, "department_updated", "department", item.ID, nil)
	httpresp.OK(c, item)
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "department_not_found")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Department{}, id)
	if res.Error != nil {
		respondError(c, res.Error, "department_not_found", "department_already_exists")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "department_not_found", "Not found.")
		return
	}

	writeAudit(c, h.audit, "department_deleted", "department", id, nil)
	httpresp.NoContent(c)
}

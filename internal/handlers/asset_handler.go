package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type AssetHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAssetHandler(db *gorm.DB, audit *audit.Dispatcher) *AssetHandler {
	return &AssetHandler{db: db, audit: audit}
}

// --------- Requests ---------

type AssetRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	AssetType    *string `json:"asset_type" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serial_number" binding:"omitempty,min=1,max=255"`
	CategoryID   *uint   `json:"category_id" binding:"omitempty,min=1"`
	DepartmentID *uint   `json:"department_id" binding:"omitempty,min=1"`
	Status       *string `json:"status" binding:"omitempty,asset_status"`
}

func (r AssetRequest) present() map[string]bool {
	return map[string]bool{
		"name":          r.Name != nil,
		"asset_type":    r.AssetType != nil,
		"serial_number": r.SerialNumber != nil,
		"category_id":   r.CategoryID != nil,
		"department_id": r.DepartmentID != nil,
	}
}

func (r AssetRequest) apply(a *models.Asset) {
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
	}
	if r.AssetType != nil {
		a.AssetType = strings.TrimSpace(*r.AssetType)
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.SerialNumber != nil {
		a.SerialNumber = strings.TrimSpace(*r.SerialNumber)
	}
	if r.CategoryID != nil {
		a.CategoryID = *r.CategoryID
	}
	if r.DepartmentID != nil {
		a.DepartmentID = *r.DepartmentID
	}
	if r.Status != nil {
		a.Status = *r.Status
	}
}

// --------- Handlers ---------

// List supports ?category=<name>, ?status=, ?department_id= and ?search=.
func (h *AssetHandler) List(c *gin.Context) {
	q := h.preload(h.db.WithContext(c.Request.Context()))

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where(
			"category_id IN (?)",
			h.db.Model(&models.Category{}).Select("id").Where("LOWER(name) = ?", strings.ToLower(category)),
		)
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	departmentID, set, ok := queryID(c, "department_id")
	if !ok {
		return
	}
	if set {
		q = q.Where("department_id = ?", departmentID)
	}

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(serial_number) LIKE ? OR LOWER(asset_type) LIKE ?",
			like, like, like,
		)
	}

	var assets []models.Asset
	if err := q.Order("id ASC").Find(&assets).Error; err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}
	httpresp.List(c, dto.NewAssetDTOs(assets))
}

// ByCategory lists the assets of the category named by ?category=.
func (h *AssetHandler) ByCategory(c *gin.Context) {
	if strings.TrimSpace(c.Query("category")) == "" {
		httperr.BadRequest(c, "category_required", "Query parameter category is required.")
		return
	}
	h.List(c)
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "asset_not_found")
	if !ok {
		return
	}

	a, err := h.load(c, id)
	if err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}
	httpresp.OK(c, dto.NewAssetDTO(a))
}

func (h *AssetHandler) Create(c *gin.Context) {
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, req.present()) {
		return
	}

	a := models.Asset{Status: string(domain.InitialStatus())}
	req.apply(&a)

	if err := h.save(c, &a, true); err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}

	writeAudit(c, h.audit, "asset_created", "asset", a.ID, map[string]any{"serial_number": a.SerialNumber})

	created, err := h.load(c, a.ID)
	if err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}
	c.JSON(http.StatusCreated, dto.NewAssetDTO(created))
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "asset_not_found")
	if !ok {
		return
	}

	var a models.Asset
	if err := h.db.WithContext(c.Request.Context()).First(&a, id).Error; err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if isFullUpdate(c) && !requireFields(c, req.present()) {
		return
	}

	previous := a.Status
	req.apply(&a)

	if err := h.save(c, &a, false); err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}

	meta := map[string]any{}
	if previous != a.Status {
		meta["status_from"], meta["status_to"] = previous, a.Status
	}
	writeAudit(c, h.audit, "asset_updated", "asset", a.ID, meta)

	updated, err := h.load(c, a.ID)
	if err != nil {
		respondError(c, err, "asset_not_found", "serial_number_already_exists")
		return
	}
	httpresp.OK(c, dto.NewAssetDTO(updated))
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "asset_not_found")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Asset{}, id)
	if res.Error != nil {
		respondError(c, res.Error, "asset_not_found", "serial_number_already_exists")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "asset_not_found", "Not found.")
		return
	}

	writeAudit(c, h.audit, "asset_deleted", "asset", id, nil)
	httpresp.NoContent(c)
}

// --------- Helpers ---------

func (h *AssetHandler) save(c *gin.Context, a *models.Asset, create bool) error {
	ctx := c.Request.Context()
	if err := checkReferences(ctx, h.db,
		reference{"category_not_found", &models.Category{}, a.CategoryID},
		reference{"department_not_found", &models.Department{}, a.DepartmentID},
	); err != nil {
		return err
	}

	q := h.db.WithContext(ctx).Omit(clause.Associations)
	if create {
		return q.Create(a).Error
	}
	return q.Save(a).Error
}

func (h *AssetHandler) preload(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Category").
		Preload("Department").
		Preload("AssetTags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("AssetTags.Tag")
}

func (h *AssetHandler) load(c *gin.Context, id uint) (*models.Asset, error) {
	var a models.Asset
	if err := h.preload(h.db.WithContext(c.Request.Context())).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type AssetTagHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAssetTagHandler(db *gorm.DB, audit *audit.Dispatcher) *AssetTagHandler {
	return &AssetTagHandler{db: db, audit: audit}
}

// --------- Requests ---------

type AssetTagRequest struct {
	AssetID *uint `json:"asset_id" binding:"omitempty,min=1"`
	TagID   *uint `json:"tag_id" binding:"omitempty,min=1"`
}

// --------- Handlers ---------

func (h *AssetTagHandler) List(c *gin.Context) {
	q := h.preload(h.db.WithContext(c.Request.Context()))

	assetID, set, ok := queryID(c, "asset_id")
	if !ok {
		return
	}
	if set {
		q = q.Where("asset_id = ?", assetID)
	}

	tagID, set, ok := queryID(c, "tag_id")
	if !ok {
		return
	}
	if set {
		q = q.Where("tag_id = ?", tagID)
	}

	var links []models.AssetTag
	if err := q.Order("id ASC").Find(&links).Error; err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}
	httpresp.List(c, links)
}

func (h *AssetTagHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "asset_tag_not_found")
	if !ok {
		return
	}

	link, err := h.load(c, id)
	if err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}
	httpresp.OK(c, link)
}

func (h *AssetTagHandler) Create(c *gin.Context) {
	var req AssetTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, map[string]bool{"asset_id": req.AssetID != nil, "tag_id": req.TagID != nil}) {
		return
	}

	link := models.AssetTag{AssetID: *req.AssetID, TagID: *req.TagID}
	if err := h.save(c, &link, true); err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}

	writeAudit(c, h.audit, "asset_tag_created", "asset_tag", link.ID, map[string]any{
		"asset_id": link.AssetID,
		"tag_id":   link.TagID,
	})

	created, err := h.load(c, link.ID)
	if err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AssetTagHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "asset_tag_not_found")
	if !ok {
		return
	}

	var link models.AssetTag
	if err := h.db.WithContext(c.Request.Context()).First(&link, id).Error; err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}

	var req AssetTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if isFullUpdate(c) && !requireFields(c, map[string]bool{"asset_id": req.AssetID != nil, "tag_id": req.TagID != nil}) {
		return
	}

	if req.AssetID != nil {
		link.AssetID = *req.AssetID
	}
	if req.TagID != nil {
		link.TagID = *req.TagID
	}

	if err := h.save(c, &link, false); err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}

	writeAudit(c, h.audit, "asset_tag_updated", "asset_tag", link.ID, nil)

	updated, err := h.load(c, link.ID)
	if err != nil {
		respondError(c, err, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}
	httpresp.OK(c, updated)
}

func (h *AssetTagHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "asset_tag_not_found")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.AssetTag{}, id)
	if res.Error != nil {
		respondError(c, res.Error, "asset_tag_not_found", "asset_tag_already_exists")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "asset_tag_not_found", "Not found.")
		return
	}

	writeAudit(c, h.audit, "asset_tag_deleted", "asset_tag", id, nil)
	httpresp.NoContent(c)
}

// --------- Helpers ---------

func (h *AssetTagHandler) save(c *gin.Context, link *models.AssetTag, create bool) error {
	ctx := c.Request.Context()
	if err := checkReferences(ctx, h.db,
		reference{"asset_not_found", &models.Asset{}, link.AssetID},
		reference{"tag_not_found", &models.Tag{}, link.TagID},
	); err != nil {
		return err
	}

	q := h.db.WithContext(ctx).Omit(clause.Associations)
	if create {
		return q.Create(link).Error
	}
	return q.Save(link).Error
}

func (h *AssetTagHandler) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Asset").Preload("Tag")
}

func (h *AssetTagHandler) load(c *gin.Context, id uint) (*models.AssetTag, error) {
	var link models.AssetTag
	if err := h.preload(h.db.WithContext(c.Request.Context())).First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/storage"
	ucTag "github.com/BruksfildServices01/asset-tracker/internal/usecase/tag"
)

type TagHandler struct {
	db            *gorm.DB
	store         storage.Storage
	assignBarcode *ucTag.AssignBarcode
	audit         *audit.Dispatcher
}

func NewTagHandler(
	db *gorm.DB,
	store storage.Storage,
	assignBarcode *ucTag.AssignBarcode,
	audit *audit.Dispatcher,
) *TagHandler {
	return &TagHandler{
		db:            db,
		store:         store,
		assignBarcode: assignBarcode,
		audit:         audit,
	}
}

// --------- Requests ---------

type TagRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// --------- Handlers ---------

func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&tags).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}
	httpresp.List(c, tags)
}

func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "tag_not_found")
	if !ok {
		return
	}

	var tag models.Tag
	if err := h.db.WithContext(c.Request.Context()).First(&tag, id).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}
	httpresp.OK(c, tag)
}

// Create stores the tag and gives it a barcode. A tag whose barcode cannot be
// generated is not kept.
func (h *TagHandler) Create(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	ctx := c.Request.Context()

	tag := models.Tag{Name: strings.TrimSpace(*req.Name)}
	if err := h.db.WithContext(ctx).Create(&tag).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	withBarcode, err := h.assignBarcode.Execute(ctx, tag.ID)
	if err != nil {
		if delErr := h.db.WithContext(ctx).Delete(&models.Tag{}, tag.ID).Error; delErr != nil {
			zerolog.Ctx(ctx).Error().Err(delErr).Uint("tag_id", tag.ID).Msg("tag rollback failed")
		}
		h.barcodeFailed(c, err)
		return
	}

	writeAudit(c, h.audit, "tag_created", "tag", tag.ID, map[string]any{"barcode_number": withBarcode.BarcodeNumber})
	c.JSON(http.StatusCreated, withBarcode)
}

func (h *TagHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "tag_not_found")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var tag models.Tag
	if err := h.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if isFullUpdate(c) && !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	previousName := tag.Name
	if req.Name != nil {
		tag.Name = strings.TrimSpace(*req.Name)
	}

	if err := h.db.WithContext(ctx).Model(&tag).Update("name", tag.Name).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	// A failed barcode generation leaves the tag as it was before the request.
	updated := &tag
	if !tag.HasBarcode() {
		var err error
		if updated, err = h.assignBarcode.Execute(ctx, tag.ID); err != nil {
			if previousName != tag.Name {
				if rbErr := h.db.WithContext(ctx).Model(&tag).Update("name", previousName).Error; rbErr != nil {
					zerolog.Ctx(ctx).Error().Err(rbErr).Uint("tag_id", tag.ID).Msg("tag rename rollback failed")
				}
			}
			h.barcodeFailed(c, err)
			return
		}
	}

	writeAudit(c, h.audit, "tag_updated", "tag", tag.ID, nil)
	httpresp.OK(c, updated)
}

func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "tag_not_found")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var tag models.Tag
	if err := h.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&tag).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	if key, ok := h.store.KeyFromURL(tag.BarcodeImage); ok {
		if err := h.store.Delete(ctx, key); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("barcode image delete failed")
		}
	}

	writeAudit(c, h.audit, "tag_deleted", "tag", id, nil)
	httpresp.NoContent(c)
}

// Barcode streams the stored barcode image of the tag.
func (h *TagHandler) Barcode(c *gin.Context) {
	id, ok := parseID(c, "tag_not_found")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var tag models.Tag
	if err := h.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		respondError(c, err, "tag_not_found", "tag_already_exists")
		return
	}

	key, ok := h.store.KeyFromURL(tag.BarcodeImage)
	if !tag.HasBarcode() || !ok {
		httperr.NotFound(c, "barcode_not_found", "This tag has no barcode image.")
		return
	}

	rc, err := h.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httperr.NotFound(c, "barcode_not_found", "Barcode image is missing from storage.")
			return
		}
		respondError(c, err, "barcode_not_found", "tag_already_exists")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "inline; filename=\""+path.Base(key)+"\"")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func (h *TagHandler) barcodeFailed(c *gin.Context, err error) {
	if httperr.IsBusiness(err, "barcode_generation_failed") {
		httperr.Internal(c, "barcode_generation_failed", businessMessage("barcode_generation_failed"))
		return
	}
	respondError(c, err, "tag_not_found", "tag_already_exists")
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/infra/repository"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	ucAssignment "github.com/BruksfildServices01/asset-tracker/internal/usecase/assignment"
)

// ======================================================
// HANDLER
// ======================================================

type AssignmentHandler struct {
	db *gorm.DB

	createUC *ucAssignment.CreateAssignment
	updateUC *ucAssignment.UpdateAssignment
	deleteUC *ucAssignment.DeleteAssignment
}

func NewAssignmentHandler(
	db *gorm.DB,
	createUC *ucAssignment.CreateAssignment,
	updateUC *ucAssignment.UpdateAssignment,
	deleteUC *ucAssignment.DeleteAssignment,
) *AssignmentHandler {
	return &AssignmentHandler{
		db:       db,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AssignmentRequest struct {
	AssetID      *uint   `json:"asset_id" binding:"omitempty,min=1"`
	UserID       *uint   `json:"user_id" binding:"omitempty,min=1"`
	AssignedToID *uint   `json:"assigned_to_id" binding:"omitempty,min=1"`
	DepartmentID *uint   `json:"department_id" binding:"omitempty,min=1"`
	DateAssigned *string `json:"date_assigned" binding:"omitempty,date"`
	ReturnDate   *string `json:"return_date" binding:"omitempty,date"`
}

func (r AssignmentRequest) present() map[string]bool {
	return map[string]bool{
		"asset_id":       r.AssetID != nil,
		"user_id":        r.UserID != nil,
		"assigned_to_id": r.AssignedToID != nil,
		"department_id":  r.DepartmentID != nil,
		"date_assigned":  r.DateAssigned != nil,
	}
}

// input overlays the request on base. PATCH keeps the stored return date
// unless one is sent; PUT replaces it.
func (r AssignmentRequest) input(base ucAssignment.Input, partial bool) (ucAssignment.Input, error) {
	in := base
	if r.AssetID != nil {
		in.AssetID = *r.AssetID
	}
	if r.UserID != nil {
		in.UserID = *r.UserID
	}
	if r.AssignedToID != nil {
		in.AssignedToID = *r.AssignedToID
	}
	if r.DepartmentID != nil {
		in.DepartmentID = *r.DepartmentID
	}
	if r.DateAssigned != nil {
		d, err := parseDate(*r.DateAssigned)
		if err != nil {
			return in, err
		}
		in.DateAssigned = d
	}
	if r.ReturnDate != nil || !partial {
		d, err := parseOptionalDate(r.ReturnDate)
		if err != nil {
			return in, err
		}
		in.ReturnDate = d
	}
	return in, nil
}

func inputFromModel(a *models.AssetAssignment) ucAssignment.Input {
	in := ucAssignment.Input{
		AssetID:      a.AssetID,
		UserID:       a.UserID,
		AssignedToID: a.AssignedToID,
		DepartmentID: a.DepartmentID,
		DateAssigned: time.Time(a.DateAssigned),
	}
	if a.ReturnDate != nil {
		d := time.Time(*a.ReturnDate)
		in.ReturnDate = &d
	}
	return in
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AssignmentHandler) List(c *gin.Context) {
	q := repository.PreloadAssignment(h.db.WithContext(c.Request.Context()))

	assetID, set, ok := queryID(c, "asset_id")
	if !ok {
		return
	}
	if set {
		q = q.Where("asset_id = ?", assetID)
	}

	userID, set, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	if set {
		q = q.Where("user_id = ?", userID)
	}

	var items []models.AssetAssignment
	if err := q.Order("date_assigned DESC, id DESC").Find(&items).Error; err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}
	httpresp.List(c, dto.NewAssignmentDTOs(items))
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "assignment_not_found")
	if !ok {
		return
	}

	var item models.AssetAssignment
	if err := repository.PreloadAssignment(h.db.WithContext(c.Request.Context())).
		First(&item, id).Error; err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}
	httpresp.OK(c, dto.NewAssignmentDTO(&item))
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

// Create records the assignment; the assigned asset becomes Booked.
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if !requireFields(c, req.present()) {
		return
	}

	in, err := req.input(ucAssignment.Input{}, false)
	if err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}
	c.JSON(http.StatusCreated, dto.NewAssignmentDTO(created))
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "assignment_not_found")
	if !ok {
		return
	}

	var current models.AssetAssignment
	if err := h.db.WithContext(c.Request.Context()).First(&current, id).Error; err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}

	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	full := isFullUpdate(c)
	if full && !requireFields(c, req.present()) {
		return
	}

	in, err := req.input(inputFromModel(&current), !full)
	if err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}
	httpresp.OK(c, dto.NewAssignmentDTO(updated))
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "assignment_not_found")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err, "assignment_not_found", "assignment_already_exists")
		return
	}
	httpresp.NoContent(c)
}

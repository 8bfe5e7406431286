package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type ProfileHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProfileHandler(db *gorm.DB, audit *audit.Dispatcher) *ProfileHandler {
	return &ProfileHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateProfileRequest struct {
	Username     string `json:"username" binding:"required,max=150"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name" binding:"max=150"`
	LastName     string `json:"last_name" binding:"max=150"`
	Role         string `json:"role" binding:"omitempty,profile_role"`
	DepartmentID *uint  `json:"department_id" binding:"omitempty,min=1"`
}

type UpdateProfileRequest struct {
	Role         *string `json:"role" binding:"omitempty,profile_role"`
	DepartmentID *uint   `json:"department_id" binding:"omitempty,min=1"`
	FirstName    *string `json:"first_name" binding:"omitempty,max=150"`
	LastName     *string `json:"last_name" binding:"omitempty,max=150"`
	Email        *string `json:"email" binding:"omitempty,email"`
	IsActive     *bool   `json:"is_active"`
}

// --------- Handlers ---------

// List returns every profile to admins and only the caller's own otherwise.
func (h *ProfileHandler) List(c *gin.Context) {
	var profiles []models.Profile
	if err := h.scoped(c).Order("id ASC").Find(&profiles).Error; err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}
	httpresp.List(c, dto.NewProfileDTOs(profiles))
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "profile_not_found")
	if !ok {
		return
	}

	var p models.Profile
	if err := h.scoped(c).First(&p, id).Error; err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}
	httpresp.OK(c, dto.NewProfileDTO(&p))
}

// Create registers a user and its profile together.
func (h *ProfileHandler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash password.")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		IsActive:     true,
	}

	ctx := c.Request.Context()
	if code, taken, err := identityTaken(ctx, h.db, user.Username, user.Email, 0); err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	} else if taken {
		httperr.Conflict(c, code, "A user with this value already exists.")
		return
	}

	profile := models.Profile{Role: role, DepartmentID: req.DepartmentID}
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.DepartmentID != nil {
			if err := checkReferences(ctx, tx, reference{"department_not_found", &models.Department{}, *req.DepartmentID}); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Omit(clause.Associations).Create(&profile).Error
	})
	if err != nil {
		respondError(c, err, "profile_not_found", "username_already_exists")
		return
	}

	writeAudit(c, h.audit, "profile_created", "profile", profile.ID, map[string]any{"username": user.Username, "role": role})

	created, err := h.load(ctx, profile.ID)
	if err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}
	c.JSON(http.StatusCreated, dto.NewProfileDTO(created))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "profile_not_found")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	p, err := h.load(ctx, id)
	if err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if isFullUpdate(c) && !requireFields(c, map[string]bool{"role": req.Role != nil}) {
		return
	}

	user := p.User
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.DepartmentID != nil {
		p.DepartmentID = req.DepartmentID
	} else if isFullUpdate(c) {
		p.DepartmentID = nil
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
		if code, taken, err := identityTaken(ctx, h.db, "", user.Email, user.ID); err != nil {
			respondError(c, err, "profile_not_found", "profile_already_exists")
			return
		} else if taken {
			httperr.Conflict(c, code, "A user with this value already exists.")
			return
		}
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.DepartmentID != nil {
			if err := checkReferences(ctx, tx, reference{"department_not_found", &models.Department{}, *p.DepartmentID}); err != nil {
				return err
			}
		}
		if err := tx.Model(user).Select("first_name", "last_name", "email", "is_active").Updates(user).Error; err != nil {
			return err
		}
		return tx.Model(p).Select("role", "department_id").Updates(p).Error
	})
	if err != nil {
		respondError(c, err, "profile_not_found", "email_already_exists")
		return
	}

	writeAudit(c, h.audit, "profile_updated", "profile", p.ID, map[string]any{"role": p.Role})

	updated, err := h.load(ctx, p.ID)
	if err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}
	httpresp.OK(c, dto.NewProfileDTO(updated))
}

// Delete removes the profile's user; the profile goes with it.
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "profile_not_found")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var p models.Profile
	if err := h.db.WithContext(ctx).First(&p, id).Error; err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}

	if p.UserID == middleware.UserID(c) {
		httperr.BadRequest(c, "cannot_delete_self", "You cannot delete your own account.")
		return
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, p.UserID).Error
	})
	if err != nil {
		respondError(c, err, "profile_not_found", "profile_already_exists")
		return
	}

	writeAudit(c, h.audit, "profile_deleted", "profile", id, map[string]any{"user_id": p.UserID})
	httpresp.NoContent(c)
}

// --------- Helpers ---------

func (h *ProfileHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Department")
	if !middleware.IsAdmin(c) {
		q = q.Where("user_id = ?", middleware.UserID(c))
	}
	return q
}

func (h *ProfileHandler) load(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	if err := h.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/config"
	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/mailer"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/validators"
)

type AuthHandler struct {
	db        *gorm.DB
	config    *config.Config
	issuer    *auth.Issuer
	blacklist auth.Blacklist
	mailer    mailer.Mailer
	audit     *audit.Dispatcher
	now       func() time.Time
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	issuer *auth.Issuer,
	blacklist auth.Blacklist,
	m mailer.Mailer,
	audit *audit.Dispatcher,
) *AuthHandler {
	return &AuthHandler{
		db:        db,
		config:    cfg,
		issuer:    issuer,
		blacklist: blacklist,
		mailer:    m,
		audit:     audit,
		now:       time.Now,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username     string `json:"username" binding:"required,max=150"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Password2    string `json:"password2" binding:"required"`
	FirstName    string `json:"first_name" binding:"max=150"`
	LastName     string `json:"last_name" binding:"max=150"`
	DepartmentID *uint  `json:"department_id" binding:"omitempty,min=1"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	UID             string `json:"uid" binding:"required"`
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type PasswordChangeRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// --------- Responses ---------

type RegisterResponse struct {
	Message string      `json:"message"`
	User    dto.UserDTO `json:"user"`
}

type LoginResponse struct {
	Message string `json:"message"`
	auth.Pair
	User dto.UserDTO `json:"user"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.Password != req.Password2 {
		httperr.BadRequest(c, "password_mismatch", "Password fields didn't match.")
		return
	}

	email := normalizeEmail(req.Email)
	if h.config.App.CheckEmailDomain && !validators.EmailDomainResolves(c.Request.Context(), nil, email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	ctx := c.Request.Context()
	username := strings.TrimSpace(req.Username)

	if code, taken, err := identityTaken(ctx, h.db, username, email, 0); err != nil {
		respondError(c, err, "user_not_found", "username_already_exists")
		return
	} else if taken {
		httperr.BadRequest(c, code, "A user with this value already exists.")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash password.")
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		IsActive:     true,
	}
	profile := models.Profile{Role: models.RoleUser, DepartmentID: req.DepartmentID}

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
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, collisionCode(ctx, h.db, username, email), "A user with this value already exists.")
			return
		}
		respondError(c, err, "user_not_found", "username_already_exists")
		return
	}

	userID := user.ID
	h.audit.Dispatch(audit.Event{UserID: &userID, Action: "user_registered", Entity: "user", EntityID: &userID})

	user.Profile = &profile
	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful",
		User:    dto.NewUserDTO(&user),
	})
}

// Login accepts a username or an email address.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	user, err := h.findByLogin(ctx, strings.TrimSpace(req.UsernameOrEmail))
	if err != nil {
		if httperr.IsNotFound(err) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	now := h.now()
	if err := h.db.WithContext(ctx).Model(user).Update("last_login", now).Error; err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("user_id", user.ID).Msg("last_login update failed")
	}
	user.LastLogin = &now

	pair, err := h.issuer.IssuePair(user.ID, roleOf(user), now)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue tokens.")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Pair:    pair,
		User:    dto.NewUserDTO(user),
	})
}

// Refresh trades a valid, non-revoked refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	claims, err := h.issuer.Parse(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
		return
	}

	revoked, err := h.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}
	if revoked {
		httperr.Unauthorized(c, "token_blacklisted", "Token is blacklisted.")
		return
	}

	var user models.User
	if err := h.db.WithContext(ctx).Preload("Profile").First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
		return
	}

	access, err := h.issuer.IssueAccess(user.ID, roleOf(&user), h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue tokens.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Logout blacklists the caller's refresh token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		httperr.BadRequest(c, "refresh_token_required", "Refresh token is required.")
		return
	}

	claims, err := h.issuer.Parse(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil || claims.UserID != middleware.UserID(c) {
		httperr.BadRequest(c, "invalid_token", "Invalid token.")
		return
	}

	ctx := c.Request.Context()
	revoked, err := h.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}
	if revoked {
		httperr.BadRequest(c, "token_blacklisted", "Token is blacklisted.")
		return
	}

	if err := h.blacklist.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	userID := claims.UserID
	h.audit.Dispatch(audit.Event{UserID: &userID, Action: "user_logged_out", Entity: "user", EntityID: &userID})
	c.Status(http.StatusResetContent)
}

// PasswordReset emails a single-use reset link to the account owner.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User with this email does not exist.")
			return
		}
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	token, err := h.issuer.IssuePasswordReset(user.ID, user.PasswordHash, h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	msg, err := mailer.PasswordReset(user.Email, mailer.PasswordResetData{
		Username: user.Username,
		ResetURL: resetLink(h.config.Mail.PasswordResetURL, user.ID, token),
		ValidFor: h.config.JWT.PasswordResetTTL.String(),
	})
	if err != nil {
		httperr.Internal(c, "email_render_failed", "Could not build the email.")
		return
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Uint("user_id", user.ID).Msg("password reset email failed")
		httperr.Internal(c, "email_send_failed", "Could not send the email.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		httperr.BadRequest(c, "password_mismatch", "Passwords do not match.")
		return
	}

	ctx := c.Request.Context()

	user, err := h.verifyResetToken(ctx, req.UID, req.Token)
	if err != nil {
		httperr.BadRequest(c, "invalid_token", "Invalid or expired token.")
		return
	}

	if err := h.setPassword(ctx, user, req.NewPassword); err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	userID := user.ID
	h.audit.Dispatch(audit.Event{UserID: &userID, Action: "password_reset", Entity: "user", EntityID: &userID})
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *AuthHandler) PasswordChange(c *gin.Context) {
	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		httperr.BadRequest(c, "password_mismatch", "Passwords do not match.")
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, middleware.UserID(c)).Error; err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		httperr.BadRequest(c, "wrong_old_password", "Old password is incorrect.")
		return
	}

	if err := h.setPassword(ctx, &user, req.NewPassword); err != nil {
		respondError(c, err, "user_not_found", "user_already_exists")
		return
	}

	userID := user.ID
	h.audit.Dispatch(audit.Event{UserID: &userID, Action: "password_changed", Entity: "user", EntityID: &userID})
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// --------- Helpers ---------

var errResetTokenMismatch = errors.New("reset token does not match user")

// verifyResetToken checks signature, expiry, uid and that the password has not
// changed since the token was issued.
func (h *AuthHandler) verifyResetToken(ctx context.Context, uid, token string) (*models.User, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(uid), 10, 64)
	if err != nil {
		return nil, err
	}

	claims, err := h.issuer.Parse(token, auth.TokenTypePasswordReset)
	if err != nil {
		return nil, err
	}
	if uint64(claims.UserID) != id {
		return nil, errResetTokenMismatch
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		return nil, err
	}
	if auth.Fingerprint(user.PasswordHash) != claims.PasswordFingerprint {
		return nil, errResetTokenMismatch
	}
	return &user, nil
}

func (h *AuthHandler) setPassword(ctx context.Context, user *models.User, password string) error {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	return h.db.WithContext(ctx).Model(user).Update("password_hash", hashed).Error
}

// findByLogin resolves the username first, then a case-insensitive email.
func (h *AuthHandler) findByLogin(ctx context.Context, login string) (*models.User, error) {
	find := func(column, value string) (*models.User, error) {
		var user models.User
		if err := h.db.WithContext(ctx).
			Preload("Profile").
			Preload("Profile.Department").
			Where(column+" = ?", value).
			First(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	user, err := find("username", login)
	if err == nil || !httperr.IsNotFound(err) {
		return user, err
	}
	return find("email", normalizeEmail(login))
}

func roleOf(u *models.User) string {
	if u.Profile != nil && u.Profile.Role != "" {
		return u.Profile.Role
	}
	return models.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// identityTaken reports which of username/email already belongs to another user.
// Empty values are not checked.
func identityTaken(ctx context.Context, db *gorm.DB, username, email string, exceptUserID uint) (string, bool, error) {
	check := func(column, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		var count int64
		err := db.WithContext(ctx).
			Model(&models.User{}).
			Where(column+" = ? AND id <> ?", value, exceptUserID).
			Count(&count).Error
		return count > 0, err
	}

	if taken, err := check("username", username); err != nil || taken {
		return "username_already_exists", taken, err
	}
	if taken, err := check("email", email); err != nil || taken {
		return "email_already_exists", taken, err
	}
	return "", false, nil
}

// collisionCode names the field behind a unique violation raised after the
// identityTaken pre-check passed, i.e. by a concurrent write.
func collisionCode(ctx context.Context, db *gorm.DB, username, email string) string {
	code, taken, err := identityTaken(ctx, db, username, email, 0)
	if err != nil || !taken {
		return "username_already_exists"
	}
	return code
}

func resetLink(base string, userID uint, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Sprintf("%s?uid=%d&token=%s", base, userID, url.QueryEscape(token))
	}
	q := u.Query()
	q.Set("uid", strconv.FormatUint(uint64(userID), 10))
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

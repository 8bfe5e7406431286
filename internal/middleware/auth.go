package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware accepts a bearer access token whose user still exists and is
// active. The role is read from the user's profile, not from the token.
func AuthMiddleware(issuer *auth.Issuer, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Authentication credentials were not provided.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Authorization header must be a Bearer token.")
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(parts[1]), auth.TokenTypeAccess)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
			return
		}

		ctx := c.Request.Context()

		var user models.User
		if err := db.WithContext(ctx).Preload("Profile").First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				zerolog.Ctx(ctx).Error().Err(err).Uint("user_id", claims.UserID).Msg("auth user lookup failed")
				httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Internal server error.")
				return
			}
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
			return
		}
		if !user.IsActive {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
			return
		}

		role := models.RoleUser
		if user.Profile != nil && user.Profile.Role != "" {
			role = user.Profile.Role
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, role)

		l := zerolog.Ctx(ctx).With().Uint("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(ctx))

		c.Next()
	}
}

func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func IsAdmin(c *gin.Context) bool {
	return Role(c) == models.RoleAdmin
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// RequireAdminForWrites lets any authenticated caller read and only admins write.
func RequireAdminForWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isWrite(c.Request.Method) && !IsAdmin(c) {
			httperr.Abort(c, http.StatusForbidden, "admin_required", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			httperr.Abort(c, http.StatusForbidden, "admin_required", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

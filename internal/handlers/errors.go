package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
)

// respondError maps usecase and persistence errors onto the JSON error body.
func respondError(c *gin.Context, err error, notFoundCode, conflictCode string) {
	if code, ok := httperr.BusinessCode(err); ok {
		httperr.BadRequest(c, code, businessMessage(code))
		return
	}

	switch {
	case httperr.IsNotFound(err):
		httperr.NotFound(c, notFoundCode, "Not found.")
	case httperr.IsUniqueViolation(err):
		httperr.Conflict(c, conflictCode, "A record with this value already exists.")
	case httperr.IsForeignKeyViolation(err):
		httperr.BadRequest(c, "invalid_reference", "A referenced record does not exist.")
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		httperr.Internal(c, "internal_error", "Internal server error.")
	}
}

func businessMessage(code string) string {
	switch code {
	case "asset_not_found":
		return "Asset does not exist."
	case "user_not_found":
		return "User does not exist."
	case "assigned_to_not_found":
		return "Assigned profile does not exist."
	case "department_not_found":
		return "Department does not exist."
	case "category_not_found":
		return "Category does not exist."
	case "tag_not_found":
		return "Tag does not exist."
	case "return_date_before_date_assigned":
		return "Return date cannot be before the assignment date."
	case "barcode_generation_failed":
		return "Could not generate a unique barcode."
	}
	return "Request rejected."
}

// parseID reads the :id path parameter, writing a 404 when it is not a positive integer.
func parseID(c *gin.Context, notFoundCode string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, notFoundCode, "Not found.")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query filter. ok is false when the value is malformed.
func queryID(c *gin.Context, name string) (id uint, set bool, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Query parameter "+name+" must be a number.")
		return 0, false, false
	}
	return uint(v), true, true
}

// requireFields rejects the request when any listed field is absent.
func requireFields(c *gin.Context, present map[string]bool) bool {
	var missing []string
	for name, ok := range present {
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return true
	}
	sort.Strings(missing)
	c.JSON(http.StatusBadRequest, httperr.HTTPError{
		Code:    "invalid_request",
		Message: "This field is required.",
		Details: missing,
	})
	return false
}

// isFullUpdate is true for POST and PUT, which must carry every required field.
func isFullUpdate(c *gin.Context) bool {
	return c.Request.Method != http.MethodPatch
}

type reference struct {
	code  string
	model any
	id    uint
}

// checkReferences returns a business error naming the first missing row.
func checkReferences(ctx context.Context, db *gorm.DB, refs ...reference) error {
	for _, ref := range refs {
		var count int64
		if err := db.WithContext(ctx).Model(ref.model).Where("id = ?", ref.id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.ErrBusiness(ref.code)
		}
	}
	return nil
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
)

// writeAudit queues an audit event attributed to the authenticated caller.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	}
	if userID := middleware.UserID(c); userID != 0 {
		ev.UserID = &userID
	}
	d.Dispatch(ev)
}

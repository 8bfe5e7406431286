package asset

import "github.com/BruksfildServices01/asset-tracker/internal/models"

// ===============================
// Domain Actions
// ===============================

// Book marks the asset as booked whatever its current status.
func Book(a *models.Asset) {
	a.Status = string(StatusBooked)
}

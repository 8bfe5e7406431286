package tag

import (
	"context"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type Repository interface {
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	BarcodeNumberExists(ctx context.Context, number string) (bool, error)
	// SaveBarcode stores number and image URL on the tag; a taken number
	// surfaces as a unique violation.
	SaveBarcode(ctx context.Context, tagID uint, number, imageURL string) error
}

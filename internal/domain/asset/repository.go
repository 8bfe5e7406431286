package asset

import (
	"context"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Asset --------
	GetAssetForUpdate(ctx context.Context, id uint) (*models.Asset, error)
	SaveAssetStatus(ctx context.Context, a *models.Asset) error

	// -------- References --------
	UserExists(ctx context.Context, id uint) (bool, error)
	ProfileExists(ctx context.Context, id uint) (bool, error)
	DepartmentExists(ctx context.Context, id uint) (bool, error)

	// -------- Assignment --------
	CreateAssignment(ctx context.Context, a *models.AssetAssignment) error
	GetAssignment(ctx context.Context, id uint) (*models.AssetAssignment, error)
	UpdateAssignment(ctx context.Context, a *models.AssetAssignment) error
	DeleteAssignment(ctx context.Context, id uint) (bool, error)
}

package assignment

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
)

type DeleteAssignment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAssignment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAssignment {
	return &DeleteAssignment{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes the assignment. The asset status is left untouched.
func (uc *DeleteAssignment) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
) error {

	deleted, err := uc.repo.DeleteAssignment(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return gorm.ErrRecordNotFound
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "assignment_deleted",
		Entity:   "asset_assignment",
		EntityID: &id,
	})
	return nil
}

package assignment

import (
	"context"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type UpdateAssignment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAssignment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAssignment {
	return &UpdateAssignment{
		repo:  repo,
		audit: audit,
	}
}

// Execute replaces the assignment fields. Moving it to another asset books
// that asset; the previous one keeps its status.
func (uc *UpdateAssignment) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
	in Input,
) (*models.AssetAssignment, error) {

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetAssignment(ctx, id)
		if err != nil {
			return err
		}

		if err := checkReferences(ctx, tx, in); err != nil {
			return err
		}

		if in.AssetID != current.AssetID {
			if err := bookAsset(ctx, tx, in.AssetID); err != nil {
				return err
			}
		}

		current.Asset, current.User, current.AssignedTo, current.Department = nil, nil, nil, nil
		in.apply(current)
		return tx.UpdateAssignment(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "assignment_updated",
		Entity:   "asset_assignment",
		EntityID: &id,
	})

	return uc.repo.GetAssignment(ctx, id)
}

package assignment

import (
	"context"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/metrics"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type CreateAssignment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAssignment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAssignment {
	return &CreateAssignment{
		repo:  repo,
		audit: audit,
	}
}

// Execute records the assignment and books its asset in one transaction.
func (uc *CreateAssignment) Execute(
	ctx context.Context,
	actorID uint,
	in Input,
) (*models.AssetAssignment, error) {

	var created models.AssetAssignment
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := checkReferences(ctx, tx, in); err != nil {
			return err
		}
		if err := bookAsset(ctx, tx, in.AssetID); err != nil {
			return err
		}

		in.apply(&created)
		return tx.CreateAssignment(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	metrics.AssignmentsCreated.Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "assignment_created",
		Entity:   "asset_assignment",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"asset_id":       created.AssetID,
			"assigned_to_id": created.AssignedToID,
		},
	})

	return uc.repo.GetAssignment(ctx, created.ID)
}

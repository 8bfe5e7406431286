package assignment

import (
	"context"
	"time"

	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type Input struct {
	AssetID      uint
	UserID       uint
	AssignedToID uint
	DepartmentID uint

	DateAssigned time.Time
	ReturnDate   *time.Time
}

func (in Input) apply(a *models.AssetAssignment) {
	a.AssetID = in.AssetID
	a.UserID = in.UserID
	a.AssignedToID = in.AssignedToID
	a.DepartmentID = in.DepartmentID
	a.DateAssigned = datatypes.Date(in.DateAssigned)
	a.ReturnDate = nil
	if in.ReturnDate != nil {
		d := datatypes.Date(*in.ReturnDate)
		a.ReturnDate = &d
	}
}

// ======================================================
// HELPERS
// ======================================================

// checkReferences reports the first missing related row as a business error.
func checkReferences(ctx context.Context, repo domain.Repository, in Input) error {
	checks := []struct {
		code  string
		id    uint
		check func(context.Context, uint) (bool, error)
	}{
		{"user_not_found", in.UserID, repo.UserExists},
		{"assigned_to_not_found", in.AssignedToID, repo.ProfileExists},
		{"department_not_found", in.DepartmentID, repo.DepartmentExists},
	}

	for _, c := range checks {
		ok, err := c.check(ctx, c.id)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness(c.code)
		}
	}

	if in.ReturnDate != nil && in.ReturnDate.Before(in.DateAssigned) {
		return httperr.ErrBusiness("return_date_before_date_assigned")
	}
	return nil
}

// bookAsset loads the asset under lock and marks it booked.
func bookAsset(ctx context.Context, repo domain.Repository, assetID uint) error {
	a, err := repo.GetAssetForUpdate(ctx, assetID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("asset_not_found")
		}
		return err
	}

	domain.Book(a)
	return repo.SaveAssetStatus(ctx, a)
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type AssignmentGormRepository struct {
	db *gorm.DB
}

func NewAssignmentGormRepository(db *gorm.DB) *AssignmentGormRepository {
	return &AssignmentGormRepository{db: db}
}

var _ domain.Repository = (*AssignmentGormRepository)(nil)

func (r *AssignmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AssignmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Asset
// --------------------------------------------------

// GetAssetForUpdate takes a row lock where the dialect supports it.
func (r *AssignmentGormRepository) GetAssetForUpdate(
	ctx context.Context,
	id uint,
) (*models.Asset, error) {

	q := r.db.WithContext(ctx)
	if supportsRowLocks(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var a models.Asset
	if err := q.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentGormRepository) SaveAssetStatus(
	ctx context.Context,
	a *models.Asset,
) error {
	return r.db.WithContext(ctx).
		Model(a).
		Update("status", a.Status).Error
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AssignmentGormRepository) UserExists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.User{}, id)
}

func (r *AssignmentGormRepository) ProfileExists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Profile{}, id)
}

func (r *AssignmentGormRepository) DepartmentExists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Department{}, id)
}

// --------------------------------------------------
// Assignment
// --------------------------------------------------

func (r *AssignmentGormRepository) CreateAssignment(
	ctx context.Context,
	a *models.AssetAssignment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AssignmentGormRepository) GetAssignment(
	ctx context.Context,
	id uint,
) (*models.AssetAssignment, error) {

	var a models.AssetAssignment
	if err := PreloadAssignment(r.db.WithContext(ctx)).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentGormRepository) UpdateAssignment(
	ctx context.Context,
	a *models.AssetAssignment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AssignmentGormRepository) DeleteAssignment(
	ctx context.Context,
	id uint,
) (bool, error) {

	res := r.db.WithContext(ctx).Delete(&models.AssetAssignment{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PreloadAssignment loads every relation rendered in assignment responses.
func PreloadAssignment(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Asset").
		Preload("User").
		Preload("AssignedTo").
		Preload("AssignedTo.User").
		Preload("Department")
}

func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

func exists(ctx context.Context, db *gorm.DB, model any, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

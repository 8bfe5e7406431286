package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/tag"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type TagGormRepository struct {
	db *gorm.DB
}

func NewTagGormRepository(db *gorm.DB) *TagGormRepository {
	return &TagGormRepository{db: db}
}

var _ domain.Repository = (*TagGormRepository)(nil)

func (r *TagGormRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var t models.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagGormRepository) BarcodeNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("barcode_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TagGormRepository) SaveBarcode(
	ctx context.Context,
	tagID uint,
	number string,
	imageURL string,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", tagID).
		Updates(map[string]any{
			"barcode_number": number,
			"barcode_image":  imageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

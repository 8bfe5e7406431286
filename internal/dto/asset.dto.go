package dto

import (
	"time"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type AssetDTO struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	AssetType    string             `json:"asset_type"`
	Description  string             `json:"description"`
	SerialNumber string             `json:"serial_number"`
	CategoryID   uint               `json:"category_id"`
	Category     *models.Category   `json:"category,omitempty"`
	DepartmentID uint               `json:"department_id"`
	Department   *models.Department `json:"department,omitempty"`
	Status       string             `json:"status"`
	DateRecorded time.Time          `json:"date_recorded"`
	Tags         []models.Tag       `json:"tags"`
}

// NewAssetDTO flattens the asset-tag links into the tag list.
func NewAssetDTO(a *models.Asset) AssetDTO {
	tags := make([]models.Tag, 0, len(a.AssetTags))
	for _, at := range a.AssetTags {
		if at.Tag != nil {
			tags = append(tags, *at.Tag)
		}
	}
	return AssetDTO{
		ID:           a.ID,
		Name:         a.Name,
		AssetType:    a.AssetType,
		Description:  a.Description,
		SerialNumber: a.SerialNumber,
		CategoryID:   a.CategoryID,
		Category:     a.Category,
		DepartmentID: a.DepartmentID,
		Department:   a.Department,
		Status:       a.Status,
		DateRecorded: a.DateRecorded,
		Tags:         tags,
	}
}

func NewAssetDTOs(as []models.Asset) []AssetDTO {
	out := make([]AssetDTO, 0, len(as))
	for i := range as {
		out = append(out, NewAssetDTO(&as[i]))
	}
	return out
}

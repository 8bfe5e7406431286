package models

import "time"

type AssetTag struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AssetID uint   `gorm:"not null;uniqueIndex:idx_asset_tag_pair" json:"asset_id"`
	Asset   *Asset `json:"asset,omitempty"`

	TagID uint `gorm:"not null;uniqueIndex:idx_asset_tag_pair" json:"tag_id"`
	Tag   *Tag `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tag,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (AssetTag) TableName() string { return "asset_tags" }

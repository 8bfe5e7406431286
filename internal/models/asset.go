package models

import "time"

type Asset struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	AssetType    string `gorm:"size:255;not null" json:"asset_type"`
	Description  string `gorm:"type:text" json:"description"`
	SerialNumber string `gorm:"size:255;uniqueIndex;not null" json:"serial_number"`

	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category,omitempty"`

	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"department,omitempty"`

	Status string `gorm:"size:20;not null;default:'Available'" json:"status"`

	AssetTags []AssetTag `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DateRecorded time.Time `gorm:"autoCreateTime" json:"date_recorded"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

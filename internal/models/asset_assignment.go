package models

import (
	"time"

	"gorm.io/datatypes"
)

type AssetAssignment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AssetID uint   `gorm:"not null;index" json:"asset_id"`
	Asset   *Asset `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"asset,omitempty"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	AssignedToID uint     `gorm:"not null;index" json:"assigned_to_id"`
	AssignedTo   *Profile `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"assigned_to,omitempty"`

	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"department,omitempty"`

	DateAssigned datatypes.Date  `gorm:"not null" json:"date_assigned"`
	ReturnDate   *datatypes.Date `json:"return_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AssetAssignment) TableName() string { return "asset_assignments" }

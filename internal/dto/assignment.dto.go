package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/timezone"
)

type AssignmentAssetDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
}

type AssignmentDTO struct {
	ID           uint                `json:"id"`
	AssetID      uint                `json:"asset_id"`
	Asset        *AssignmentAssetDTO `json:"asset,omitempty"`
	UserID       uint                `json:"user_id"`
	User         *ProfileUserDTO     `json:"user,omitempty"`
	AssignedToID uint                `json:"assigned_to_id"`
	AssignedTo   *ProfileDTO         `json:"assigned_to,omitempty"`
	DepartmentID uint                `json:"department_id"`
	Department   *models.Department  `json:"department,omitempty"`
	DateAssigned string              `json:"date_assigned"`
	ReturnDate   *string             `json:"return_date"`
}

func NewAssignmentDTO(a *models.AssetAssignment) AssignmentDTO {
	out := AssignmentDTO{
		ID:           a.ID,
		AssetID:      a.AssetID,
		UserID:       a.UserID,
		AssignedToID: a.AssignedToID,
		DepartmentID: a.DepartmentID,
		Department:   a.Department,
		DateAssigned: FormatDate(a.DateAssigned),
	}
	if a.ReturnDate != nil {
		s := FormatDate(*a.ReturnDate)
		out.ReturnDate = &s
	}
	if as := a.Asset; as != nil {
		out.Asset = &AssignmentAssetDTO{
			ID:           as.ID,
			Name:         as.Name,
			SerialNumber: as.SerialNumber,
			Status:       as.Status,
		}
	}
	if u := a.User; u != nil {
		out.User = &ProfileUserDTO{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsActive:  u.IsActive,
		}
	}
	if p := a.AssignedTo; p != nil {
		pd := NewProfileDTO(p)
		out.AssignedTo = &pd
	}
	return out
}

func NewAssignmentDTOs(as []models.AssetAssignment) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(as))
	for i := range as {
		out = append(out, NewAssignmentDTO(&as[i]))
	}
	return out
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(timezone.DateLayout)
}

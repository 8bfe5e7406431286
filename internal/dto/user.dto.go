package dto

import (
	"time"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

type UserDTO struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	IsActive   bool       `json:"is_active"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`

	Profile *ProfileSummaryDTO `json:"profile,omitempty"`
}

type ProfileSummaryDTO struct {
	ID           uint               `json:"id"`
	Role         string             `json:"role"`
	DepartmentID *uint              `json:"department_id"`
	Department   *models.Department `json:"department,omitempty"`
}

func NewUserDTO(u *models.User) UserDTO {
	out := UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		DateJoined: u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
	if p := u.Profile; p != nil {
		out.Profile = &ProfileSummaryDTO{
			ID:           p.ID,
			Role:         p.Role,
			DepartmentID: p.DepartmentID,
			Department:   p.Department,
		}
	}
	return out
}

package dto

import "github.com/BruksfildServices01/asset-tracker/internal/models"

type ProfileUserDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

type ProfileDTO struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"user_id"`
	User         *ProfileUserDTO    `json:"user,omitempty"`
	Role         string             `json:"role"`
	DepartmentID *uint              `json:"department_id"`
	Department   *models.Department `json:"department,omitempty"`
}

func NewProfileDTO(p *models.Profile) ProfileDTO {
	out := ProfileDTO{
		ID:           p.ID,
		UserID:       p.UserID,
		Role:         p.Role,
		DepartmentID: p.DepartmentID,
		Department:   p.Department,
	}
	if u := p.User; u != nil {
		out.User = &ProfileUserDTO{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsActive:  u.IsActive,
		}
	}
	return out
}

func NewProfileDTOs(ps []models.Profile) []ProfileDTO {
	out := make([]ProfileDTO, 0, len(ps))
	for i := range ps {
		out = append(out, NewProfileDTO(&ps[i]))
	}
	return out
}

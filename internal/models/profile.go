package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile carries per-user metadata. Exactly one row exists per user.
type Profile struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	Role string `gorm:"size:20;not null;default:'user'" json:"role"`

	DepartmentID *uint      `json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

// Password is the plaintext password of every user created by CreateUser.
const Password = "s3cret-pass"

func CreateUser(t *testing.T, conn *gorm.DB, username, role string, departmentID *uint) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	require.NoError(t, conn.Create(&user).Error)

	profile := models.Profile{UserID: user.ID, Role: role, DepartmentID: departmentID}
	require.NoError(t, conn.Create(&profile).Error)
	user.Profile = &profile
	return user
}

func CreateDepartment(t *testing.T, conn *gorm.DB, name string) models.Department {
	t.Helper()
	d := models.Department{Name: name}
	require.NoError(t, conn.Create(&d).Error)
	return d
}

func CreateCategory(t *testing.T, conn *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, conn.Create(&c).Error)
	return c
}

func CreateAsset(t *testing.T, conn *gorm.DB, serial, status string, categoryID, departmentID uint) models.Asset {
	t.Helper()
	a := models.Asset{
		Name:         "Asset " + serial,
		AssetType:    "Laptop",
		SerialNumber: serial,
		CategoryID:   categoryID,
		DepartmentID: departmentID,
		Status:       status,
	}
	require.NoError(t, conn.Create(&a).Error)
	return a
}

package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/asset-tracker/internal/config"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg.DB), &gorm.Config{
		PrepareStmt:    cfg.DB.Driver == config.DriverPostgres,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Admin.Enabled() {
		created, err := SeedAdmin(db, cfg.Admin)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
		}
	}

	return db, nil
}

func dialector(cfg config.DBConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		dsn := cfg.URL
		if strings.HasPrefix(dsn, "postgres") {
			dsn = "file:assets.db"
		}
		if !strings.Contains(dsn, "_foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_foreign_keys=1"
		}
		return sqlite.Open(dsn)
	}
	return postgres.Open(cfg.URL)
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Tag{},
		&models.Asset{},
		&models.AssetTag{},
		&models.AssetAssignment{},
		&models.AuditLog{},
		&models.BlacklistedToken{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin unless the username is already taken.
func SeedAdmin(db *gorm.DB, admin config.AdminConfig) (bool, error) {
	var existing models.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:     admin.Username,
			Email:        strings.ToLower(strings.TrimSpace(admin.Email)),
			PasswordHash: string(hashed),
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID, Role: models.RoleAdmin}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

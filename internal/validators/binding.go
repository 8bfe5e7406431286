package validators

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/asset-tracker/internal/domain/asset"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/timezone"
)

// Register installs the custom binding tags used by request DTOs.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("asset_status", func(fl validator.FieldLevel) bool {
		return asset.Status(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("profile_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		return role == models.RoleUser || role == models.RoleAdmin
	}); err != nil {
		return err
	}

	return v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := timezone.ParseDate(fl.Field().String())
		return err == nil
	})
}

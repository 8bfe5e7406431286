package tag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/barcode"
	domain "github.com/BruksfildServices01/asset-tracker/internal/domain/tag"
	"github.com/BruksfildServices01/asset-tracker/internal/httperr"
	"github.com/BruksfildServices01/asset-tracker/internal/metrics"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/storage"
)

const MaxAttempts = 5

type Generator interface {
	NewNumber() (string, error)
	Render(number string) (barcode.Image, error)
}

type AssignBarcode struct {
	repo  domain.Repository
	gen   Generator
	store storage.Storage
	audit *audit.Dispatcher
}

func NewAssignBarcode(
	repo domain.Repository,
	gen Generator,
	store storage.Storage,
	audit *audit.Dispatcher,
) *AssignBarcode {
	return &AssignBarcode{
		repo:  repo,
		gen:   gen,
		store: store,
		audit: audit,
	}
}

// Execute gives the tag a unique barcode number and stored image. Tags that
// already carry both are returned untouched.
func (uc *AssignBarcode) Execute(ctx context.Context, tagID uint) (*models.Tag, error) {
	t, err := uc.repo.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if t.HasBarcode() {
		return t, nil
	}

	log := zerolog.Ctx(ctx)

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		number, err := uc.gen.NewNumber()
		if err != nil {
			return nil, err
		}

		taken, err := uc.repo.BarcodeNumberExists(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			metrics.BarcodeCollisions.Inc()
			continue
		}

		img, err := uc.gen.Render(number)
		if err != nil {
			return nil, err
		}

		key := ImageKey(t, img.Ext)
		url, err := uc.store.Save(ctx, key, img.Data, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("store barcode image: %w", err)
		}

		err = uc.repo.SaveBarcode(ctx, t.ID, number, url)
		if err == nil {
			t.BarcodeNumber = &number
			t.BarcodeImage = url

			uc.audit.Dispatch(audit.Event{
				Action:   "barcode_assigned",
				Entity:   "tag",
				EntityID: &t.ID,
				Metadata: map[string]any{"barcode_number": number, "attempt": attempt},
			})
			return t, nil
		}

		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("barcode image cleanup failed")
		}
		if !httperr.IsUniqueViolation(err) {
			return nil, err
		}

		metrics.BarcodeCollisions.Inc()
		log.Debug().Int("attempt", attempt).Msg("barcode number collided, retrying")
	}

	return nil, httperr.ErrBusiness("barcode_generation_failed")
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ImageKey is the storage key of a tag's barcode image.
func ImageKey(t *models.Tag, ext string) string {
	name := strings.Trim(unsafeKeyChars.ReplaceAllString(t.Name, "_"), "_")
	if name == "" {
		name = "tag"
	}
	return fmt.Sprintf("barcodes/%s_barcode_%d.%s", name, t.ID, ext)
}

package handlers

import (
	"time"

	"github.com/BruksfildServices01/asset-tracker/internal/timezone"
)

func parseDate(value string) (time.Time, error) {
	return timezone.ParseDate(value)
}

// parseOptionalDate treats nil and "" as no date.
func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := timezone.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("available").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestBookOverridesAnyStatus(t *testing.T) {
	for _, s := range Statuses() {
		a := &models.Asset{Status: string(s)}
		Book(a)
		assert.Equal(t, string(StatusBooked), a.Status)
	}
}

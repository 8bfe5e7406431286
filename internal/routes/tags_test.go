package routes

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/asset-tracker/internal/barcode"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func TestTagCreateAssignsBarcode(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)
	tok := api.token(s.admin)

	w := api.do(http.MethodPost, "/api/tags/", tok, map[string]string{"name": "Server Room"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tag := decode[models.Tag](t, w)
	require.NotNil(t, tag.BarcodeNumber)
	assert.Len(t, *tag.BarcodeNumber, barcode.NumberLength)
	assert.True(t, strings.HasPrefix(tag.BarcodeImage, "/media/barcodes/Server_Room_barcode_"))

	w = api.do(http.MethodGet, fmt.Sprintf("/api/tags/%d/barcode", tag.ID), api.token(s.user), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestTagUpdateKeepsBarcodeAndDeleteRemovesImage(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)
	tok := api.token(s.admin)

	w := api.do(http.MethodPost, "/api/tags/", tok, map[string]string{"name": "Desk"})
	require.Equal(t, http.StatusCreated, w.Code)
	tag := decode[models.Tag](t, w)

	path := fmt.Sprintf("/api/tags/%d/", tag.ID)
	w = api.do(http.MethodPut, path, tok, map[string]string{"name": "Desk 2"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Tag](t, w)
	assert.Equal(t, "Desk 2", updated.Name)
	assert.Equal(t, *tag.BarcodeNumber, *updated.BarcodeNumber)

	file := filepath.Join(api.store.Root(), strings.TrimPrefix(tag.BarcodeImage, "/media/"))
	_, err := os.Stat(file)
	require.NoError(t, err)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, tok, nil).Code)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestTagUpdateGeneratesMissingBarcode(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)

	tag := models.Tag{Name: "legacy"}
	require.NoError(t, api.db.Create(&tag).Error)

	w := api.do(http.MethodPatch, fmt.Sprintf("/api/tags/%d/", tag.ID), api.token(s.admin), map[string]string{"name": "legacy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[models.Tag](t, w).BarcodeNumber)
}

func TestBarcodeNumbersAreUniqueInStorage(t *testing.T) {
	api := newTestAPI(t)
	n := "123456789012"

	require.NoError(t, api.db.Create(&models.Tag{Name: "a", BarcodeNumber: &n}).Error)
	err := api.db.Create(&models.Tag{Name: "b", BarcodeNumber: &n}).Error
	assert.Error(t, err)

	// tags without a barcode do not collide
	require.NoError(t, api.db.Create(&models.Tag{Name: "c"}).Error)
	require.NoError(t, api.db.Create(&models.Tag{Name: "d"}).Error)
}

func TestMissingBarcodeImage(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)

	tag := models.Tag{Name: "bare"}
	require.NoError(t, api.db.Create(&tag).Error)

	w := api.do(http.MethodGet, fmt.Sprintf("/api/tags/%d/barcode", tag.ID), api.token(s.user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "barcode_not_found", errorCode(t, w))
}

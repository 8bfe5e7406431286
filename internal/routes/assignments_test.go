package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/asset-tracker/internal/db/dbtest"
	"github.com/BruksfildServices01/asset-tracker/internal/dto"
	"github.com/BruksfildServices01/asset-tracker/internal/httpresp"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func assignmentBody(s seeded, assetID uint) map[string]any {
	return map[string]any{
		"asset_id":       assetID,
		"user_id":        s.user.ID,
		"assigned_to_id": s.user.Profile.ID,
		"department_id":  s.dept.ID,
		"date_assigned":  "2024-03-01",
	}
}

func assetStatus(t *testing.T, api *testAPI, id uint) string {
	var a models.Asset
	require.NoError(t, api.db.First(&a, id).Error)
	return a.Status
}

func TestCreatingAssignmentBooksAsset(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)
	tok := api.token(s.admin)
	a := dbtest.CreateAsset(t, api.db, "SN-1", "Available", s.cat.ID, s.dept.ID)

	w := api.do(http.MethodPost, "/api/asset-assignments/", tok, assignmentBody(s, a.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode[dto.AssignmentDTO](t, w)
	assert.Equal(t, "2024-03-01", got.DateAssigned)
	assert.Nil(t, got.ReturnDate)
	require.NotNil(t, got.Asset)
	assert.Equal(t, "Booked", got.Asset.Status)
	assert.Equal(t, "Booked", assetStatus(t, api, a.ID))
}

func TestAssignmentValidation(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)
	tok := api.token(s.admin)
	a := dbtest.CreateAsset(t, api.db, "SN-1", "Available", s.cat.ID, s.dept.ID)

	body := assignmentBody(s, a.ID)
	delete(body, "date_assigned")
	w := api.do(http.MethodPost, "/api/asset-assignments/", tok, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))

	body = assignmentBody(s, a.ID)
	body["date_assigned"] = "01/03/2024"
	w = api.do(http.MethodPost, "/api/asset-assignments/", tok, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/asset-assignments/", tok, assignmentBody(s, 999))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "asset_not_found", errorCode(t, w))

	assert.Equal(t, "Available", assetStatus(t, api, a.ID))
}

func TestAssignmentUpdateAndFilters(t *testing.T) {
	api := newTestAPI(t)
	s := seed(t, api)
	tok := api.token(s.admin)
	first := dbtest.CreateAsset(t, api.db, "SN-1", "Available", s.cat.ID, s.dept.ID)
	second := dbtest.CreateAsset(t, api.db, "SN-2", "Available", s.cat.ID, s.dept.ID)

	w := api.do(http.MethodPost, "/api/asset-assignments/", tok, assignmentBody(s, first.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.AssignmentDTO](t, w)

	path := fmt.Sprintf("/api/asset-assignments/%d/", created.ID)
	w = api.do(http.MethodPatch, path, tok, map[string]any{"return_date": "2024-04-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[dto.AssignmentDTO](t, w)
	require.NotNil(t, patched.ReturnDate)
	assert.Equal(t, "2024-04-01", *patched.ReturnDate)
	assert.Equal(t, first.ID, patched.AssetID)

	w = api.do(http.MethodPatch, path, tok, map[string]any{"return_date": "2024-01-01"})
	assert.Equal(t, "return_date_before_date_assigned", errorCode(t, w))

	w = api.do(http.MethodPatch, path, tok, map[string]any{"asset_id": second.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booked", assetStatus(t, api, second.ID))

	userTok := api.token(s.user)
	w = api.do(http.MethodGet, fmt.Sprintf("/api/asset-assignments/?asset_id=%d", second.ID), userTok, nil)
	assert.Equal(t, 1, decode[httpresp.ListResponse[dto.AssignmentDTO]](t, w).Total)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/asset-assignments/?asset_id=%d", first.ID), userTok, nil)
	assert.Equal(t, 0, decode[httpresp.ListResponse[dto.AssignmentDTO]](t, w).Total)

	w = api.do(http.MethodGet, "/api/asset-assignments/?user_id=abc", userTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Booked", assetStatus(t, api, second.ID))

	w = api.do(http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "assignment_not_found", errorCode(t, w))
}

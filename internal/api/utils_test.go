package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

func TestStatusFromError(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("wrap: %w", types.ErrValidation): http.StatusBadRequest,
		types.ErrMissingToken:                       http.StatusUnauthorized,
		types.ErrTokenExpired:                       http.StatusForbidden,
		types.ErrTokenInvalid:                       http.StatusForbidden,
		fmt.Errorf("x: %w", types.ErrNotFound):      http.StatusNotFound,
		types.ErrConflict:                           http.StatusConflict,
		types.ErrUpstream:                           http.StatusBadGateway,
		types.ErrPersistence:                        http.StatusInternalServerError,
		errors.New("boom"):                          http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFromError(err), err.Error())
	}
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("missing required field", func(t *testing.T) {
		body := `{"placeName":"Gyeongbokgung","userName":"kim","rating":4}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var req types.CreateReviewRequest
		err := DecodeAndValidate(httptest.NewRecorder(), r, &req)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), "placeId is required")
	})

	t.Run("rating out of range", func(t *testing.T) {
		body := `{"placeId":"p1","placeName":"Gyeongbokgung","userName":"kim","rating":9}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var req types.CreateReviewRequest
		err := DecodeAndValidate(httptest.NewRecorder(), r, &req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rating must be at most 5")
	})

	t.Run("unknown key", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"placeName":"x","bogus":1}`))
		var req types.SearchPlaceRequest
		err := DecodeAndValidate(httptest.NewRecorder(), r, &req)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), `unknown key "bogus"`)
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var req types.SearchPlaceRequest
		err := DecodeAndValidate(httptest.NewRecorder(), r, &req)
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"latitude":37.55,"longitude":126.98}`))
		var req types.NearbyRecommendationRequest
		require.NoError(t, DecodeAndValidate(httptest.NewRecorder(), r, &req))
		assert.InDelta(t, 37.55, *req.Latitude, 1e-9)
	})
}

func TestPagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=20", nil)
	limit, offset, err := Pagination(r, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 20, offset)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	limit, offset, err = Pagination(r, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	r = httptest.NewRequest(http.MethodGet, "/?offset=-1", nil)
	_, _, err = Pagination(r, 10, 100)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestWriteErrorHidesServerDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rr, r, discardLogger(), fmt.Errorf("select failed: %w", types.ErrPersistence), "Failed to load place")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to load place", body["error"])
}

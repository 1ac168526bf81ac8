package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api/recommend"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// BenchmarkSuite provides benchmark testing for the API
type BenchmarkSuite struct {
	app       *testApp
	authToken string
}

func setupBenchmarkSuite() *BenchmarkSuite {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &BenchmarkSuite{
		app:       newTestApp(logger, 0),
		authToken: "uid:bench-user",
	}
}

func (suite *BenchmarkSuite) request(method, path string, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&reqBody).Encode(body)
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.authToken)
	}
	w := httptest.NewRecorder()
	suite.app.handler.ServeHTTP(w, req)
	return w
}

func BenchmarkPlaceDetails(b *testing.B) {
	suite := setupBenchmarkSuite()
	suite.request(http.MethodPost, "/api/v1/places/sync-reviews", map[string]string{"placeId": "ChIJtower"}, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.request(http.MethodGet, "/api/v1/places/ChIJtower/details", nil, false)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkCreateReview(b *testing.B) {
	suite := setupBenchmarkSuite()
	payload := map[string]interface{}{"placeId": "ChIJbench", "placeName": "Bench Park", "userName": "Kim", "rating": 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.request(http.MethodPost, "/api/v1/reviews", payload, false)
		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkFavoriteCheck(b *testing.B) {
	suite := setupBenchmarkSuite()
	suite.request(http.MethodPost, "/api/v1/places/favorites", map[string]string{"placeId": "ChIJfav"}, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.request(http.MethodGet, "/api/v1/places/favorites/ChIJfav", nil, true)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkRecommendNearby(b *testing.B) {
	suite := setupBenchmarkSuite()
	payload := map[string]float64{"latitude": 37.5512, "longitude": 126.9882}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.request(http.MethodPost, "/api/v1/recommend-route", payload, false)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkIntersectPlaces(b *testing.B) {
	for _, size := range []int{5, 50, 500} {
		primary := make([]types.RecommendedPlace, size)
		corroborating := make([]types.RecommendedPlace, size)
		for i := 0; i < size; i++ {
			primary[i] = types.RecommendedPlace{Name: fmt.Sprintf("Place %d Garden", i)}
			corroborating[i] = types.RecommendedPlace{Name: fmt.Sprintf("place %d", i*2)}
		}
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				recommend.IntersectPlaces(primary, corroborating)
			}
		})
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api/auth"
	generativeAI "github.com/FACorreiaa/go-travel-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/place"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/recommend"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/review"
	"github.com/FACorreiaa/go-travel-recommendations/internal/router"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// store is an in-memory stand-in for Postgres that keeps the same
// uniqueness and coalescing rules as the SQL.
type store struct {
	mu         sync.Mutex
	places     map[string]*types.Place
	reviews    []types.Review
	favorites  map[string]types.FavoritePlace
	activities []types.PlaceActivity
	members    map[string]*types.Member
}

func newStore() *store {
	return &store{
		places:    map[string]*types.Place{},
		favorites: map[string]types.FavoritePlace{},
		members:   map[string]*types.Member{},
	}
}

func coalesce[T any](v, fallback *T) *T {
	if v != nil {
		return v
	}
	return fallback
}

func (s *store) UpsertPlace(_ context.Context, rec types.PlaceRecord) (*types.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[rec.PlaceID]
	if !ok {
		p = &types.Place{ID: uuid.New(), PlaceID: rec.PlaceID, CreatedAt: time.Now()}
		s.places[rec.PlaceID] = p
	}
	p.Name = rec.Name
	p.Address = coalesce(rec.Address, p.Address)
	p.Phone = coalesce(rec.Phone, p.Phone)
	p.OpeningHours = coalesce(rec.OpeningHours, p.OpeningHours)
	p.Latitude = coalesce(rec.Latitude, p.Latitude)
	p.Longitude = coalesce(rec.Longitude, p.Longitude)
	p.AverageRating = coalesce(rec.Rating, p.AverageRating)
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *store) EnsurePlace(_ context.Context, placeID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[placeID]; !ok {
		s.places[placeID] = &types.Place{ID: uuid.New(), PlaceID: placeID, Name: name}
	}
	return nil
}

func (s *store) GetPlaceByPlaceID(_ context.Context, placeID string) (*types.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return nil, fmt.Errorf("place %s: %w", placeID, types.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *store) SearchPlacesByName(_ context.Context, name string) ([]types.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.Place{}
	for _, p := range s.places {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *store) SaveActivity(_ context.Context, a types.PlaceActivity) (*types.PlaceActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[a.PlaceID]; !ok {
		return nil, types.ErrNotFound
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	s.activities = append(s.activities, a)
	return &a, nil
}

func (s *store) GetActivitiesByPlaceID(_ context.Context, placeID string) ([]types.PlaceActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.PlaceActivity{}
	for _, a := range s.activities {
		if a.PlaceID == placeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *store) AddFavorite(_ context.Context, userID, placeID, placeholderName string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[placeID]; !ok {
		s.places[placeID] = &types.Place{ID: uuid.New(), PlaceID: placeID, Name: placeholderName}
	}
	key := userID + "|" + placeID
	if _, ok := s.favorites[key]; ok {
		return uuid.Nil, fmt.Errorf("favorite: %w", types.ErrConflict)
	}
	fav := types.FavoritePlace{FavoriteID: uuid.New(), PlaceID: placeID, Name: s.places[placeID].Name, CreatedAt: time.Now()}
	s.favorites[key] = fav
	return fav.FavoriteID, nil
}

func (s *store) RemoveFavorite(_ context.Context, userID, placeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "|" + placeID
	if _, ok := s.favorites[key]; !ok {
		return fmt.Errorf("favorite: %w", types.ErrNotFound)
	}
	delete(s.favorites, key)
	return nil
}

func (s *store) GetFavoritesByUserID(_ context.Context, userID string) ([]types.FavoritePlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.FavoritePlace{}
	for key, fav := range s.favorites {
		if strings.HasPrefix(key, userID+"|") {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (s *store) IsFavorite(_ context.Context, userID, placeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[userID+"|"+placeID]
	return ok, nil
}

// reviewStore shares the store's lock and places.
type reviewStore struct{ *store }

func (s reviewStore) SaveReview(_ context.Context, rv types.Review) (*types.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[rv.PlaceID]; !ok {
		return nil, types.ErrNotFound
	}
	if rv.ExternalReviewID != nil {
		for i, existing := range s.reviews {
			if existing.ExternalReviewID != nil && *existing.ExternalReviewID == *rv.ExternalReviewID {
				s.reviews[i].Rating = rv.Rating
				cp := s.reviews[i]
				return &cp, nil
			}
		}
	}
	rv.ID = uuid.New()
	rv.CreatedAt = time.Now()
	s.reviews = append(s.reviews, rv)
	return &rv, nil
}

func (s reviewStore) ExternalReviewExists(_ context.Context, externalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rv := range s.reviews {
		if rv.ExternalReviewID != nil && *rv.ExternalReviewID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (s reviewStore) GetReviewsByPlaceID(_ context.Context, placeID string, limit, offset int) ([]types.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []types.Review{}
	for _, rv := range s.reviews {
		if rv.PlaceID == placeID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReviewDate.After(out[j].ReviewDate) })
	if offset >= len(out) {
		return []types.Review{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s reviewStore) CountReviews(_ context.Context, placeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rv := range s.reviews {
		if rv.PlaceID == placeID {
			n++
		}
	}
	return n, nil
}

func (s reviewStore) RecomputeAverageRating(_ context.Context, placeID string) (*float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return nil, types.ErrNotFound
	}
	var sum float64
	n := 0
	for _, rv := range s.reviews {
		if rv.PlaceID == placeID {
			sum += rv.Rating
			n++
		}
	}
	p.AverageRating = nil
	if n > 0 {
		avg := sum / float64(n)
		p.AverageRating = &avg
	}
	return p.AverageRating, nil
}

func (s reviewStore) DeleteReview(_ context.Context, reviewID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rv := range s.reviews {
		if rv.ID == reviewID {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return rv.PlaceID, nil
		}
	}
	return "", fmt.Errorf("review %s: %w", reviewID, types.ErrNotFound)
}

func (s *store) UpsertMember(_ context.Context, uid, email string) (*types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[uid]
	if !ok {
		m = &types.Member{UID: uid, CreatedAt: time.Now()}
		s.members[uid] = m
	}
	if email != "" {
		m.Email = email
	}
	m.UpdatedAt = time.Now()
	cp := *m
	return &cp, nil
}

// fakeMaps answers like the Maps provider for a single known place.
type fakeMaps struct{}

func (fakeMaps) Geocode(_ context.Context, lat, lon float64) (*types.GeocodeResult, error) {
	return &types.GeocodeResult{Address: "105 Namsangongwon-gil, Yongsan-gu, Seoul", LocationName: "Yongsan-gu"}, nil
}

func (fakeMaps) FindPlace(_ context.Context, name, _ string) (*types.PlaceSearchResult, error) {
	if !strings.Contains(strings.ToLower(name), "tower") {
		return nil, fmt.Errorf("no place matches %q: %w", name, types.ErrNotFound)
	}
	return &types.PlaceSearchResult{PlaceID: "ChIJtower", Name: "N Seoul Tower", Address: "Yongsan-gu, Seoul"}, nil
}

func (fakeMaps) PlaceDetails(_ context.Context, placeID, _ string) (*types.PlaceRecord, error) {
	rating := 4.5
	phone := "02-3455-9277"
	when := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	return &types.PlaceRecord{
		PlaceID: placeID,
		Name:    "N Seoul Tower",
		Phone:   &phone,
		Rating:  &rating,
		Reviews: []types.ExternalReview{
			{ExternalID: "google-" + placeID + "-0", AuthorName: "Kim", Rating: 5, Text: "Great view", Time: when},
			{ExternalID: "google-" + placeID + "-1", AuthorName: "Lee", Rating: 4, Time: when.Add(-time.Hour)},
		},
	}, nil
}

// fakeGenerator returns canned output: route answers for trip prompts,
// nearby answers otherwise.
type fakeGenerator struct {
	name   string
	strict bool
	nearby string
	route  string
	err    error
}

func (g *fakeGenerator) Name() string     { return g.name }
func (g *fakeGenerator) StrictJSON() bool { return g.strict }

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ generativeAI.GenerationConfig) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if strings.Contains(prompt, "-day trip") {
		return g.route, nil
	}
	return g.nearby, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, raw string) (*types.Identity, error) {
	switch {
	case raw == "expired":
		return nil, types.ErrTokenExpired
	case strings.HasPrefix(raw, "uid:"):
		uid := strings.TrimPrefix(raw, "uid:")
		return &types.Identity{UID: uid, Email: uid + "@example.com", EmailVerified: true}, nil
	default:
		return nil, types.ErrTokenInvalid
	}
}

type testApp struct {
	handler http.Handler
	store   *store
	primary *fakeGenerator
	backup  *fakeGenerator
}

func newTestApp(logger *slog.Logger, rateLimit int) *testApp {
	st := newStore()
	reviews := reviewStore{st}
	primary := &fakeGenerator{
		name:   "openai",
		strict: true,
		nearby: `{"places":[{"name":"Seoul Tower","description":"Observation deck"},{"name":"Han River Park"}]}`,
		route: `{"title":"Seoul to Busan","days":[
			{"day":1,"places":[{"name":"Gyeongbokgung"},{"name":"Bukchon"}]},
			{"day":2,"places":[{"name":"Gyeongju Bulguksa"}]},
			{"day":3,"places":[{"name":"Haeundae Beach"}]}]}`,
	}
	backup := &fakeGenerator{
		name:   "gemini",
		nearby: "Here you go:\n```json\n{\"places\":[{\"name\":\"seoul tower\"}]}\n```",
		route:  "```json\n{\"title\":\"x\",\"days\":[{\"day\":1,\"places\":[{\"name\":\"gyeongbokgung palace\"}]},{\"day\":2,\"places\":[{\"name\":\"Bulguksa\"}]}]}\n```",
	}

	placeService := place.NewServiceImpl(st, reviews, fakeMaps{}, logger)
	reviewService := review.NewServiceImpl(reviews, st, logger)
	recommendService := recommend.NewServiceImpl(fakeMaps{}, primary, backup, logger)
	profileService := auth.NewProfileService(st, logger)

	handler := router.SetupRouter(&router.Config{
		PlaceHandler:           place.NewHandlerImpl(placeService, logger),
		ReviewHandler:          review.NewHandlerImpl(reviewService, logger),
		RecommendHandler:       recommend.NewHandlerImpl(recommendService, logger),
		ProfileHandler:         auth.NewProfileHandler(profileService, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, fakeVerifier{}),
		Logger:                 logger,
		AllowedOrigins:         []string{"http://localhost:3000"},
		RecommendRateLimit:     rateLimit,
		RequestTimeout:         10 * time.Second,
	})
	return &testApp{handler: handler, store: st, primary: primary, backup: backup}
}

// E2ETestSuite drives complete user workflows through the real router,
// handlers and services.
type E2ETestSuite struct {
	suite.Suite
	app    *testApp
	server *httptest.Server
	client *http.Client
}

func (s *E2ETestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.app = newTestApp(logger, 0)
	s.server = httptest.NewServer(s.app.handler)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownTest() {
	s.server.Close()
}

func (s *E2ETestSuite) call(method, path, token string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *E2ETestSuite) TestPing() {
	resp, err := s.client.Get(s.server.URL + "/ping")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) TestPlaceReviewWorkflow() {
	status, body := s.call(http.MethodPost, "/api/v1/places/search", "", map[string]string{"placeName": "N Seoul Tower"})
	s.Require().Equal(http.StatusOK, status)
	placeID := body["placeId"].(string)
	s.Equal("ChIJtower", placeID)

	status, body = s.call(http.MethodPost, "/api/v1/places/sync-reviews", "", map[string]string{"placeId": placeID})
	s.Require().Equal(http.StatusOK, status)
	s.Equal("2 reviews synced", body["message"])

	status, body = s.call(http.MethodPost, "/api/v1/places/sync-reviews", "", map[string]string{"placeId": placeID})
	s.Require().Equal(http.StatusOK, status)
	s.Equal("0 reviews synced", body["message"])

	status, body = s.call(http.MethodGet, "/api/v1/places/"+placeID+"/details?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["reviews"], 1)
	s.Equal("02-3455-9277", body["place"].(map[string]interface{})["phone"])

	status, body = s.call(http.MethodPost, "/api/v1/reviews", "", map[string]interface{}{
		"placeId": placeID, "placeName": "N Seoul Tower", "userName": "Park", "rating": 3,
	})
	s.Require().Equal(http.StatusCreated, status)
	s.InDelta((5.0+4+3)/3, body["averageRating"].(float64), 1e-9)

	status, body = s.call(http.MethodGet, "/api/v1/reviews/"+placeID, "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(float64(3), body["totalReviews"])
	s.Equal("N Seoul Tower", body["placeName"])

	status, body = s.call(http.MethodGet, "/api/v1/places/by-name/seoul", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["places"], 1)
}

func (s *E2ETestSuite) TestReviewForUnknownPlaceCreatesIt() {
	status, _ := s.call(http.MethodPost, "/api/v1/reviews", "", map[string]interface{}{
		"placeId": "ChIJnew", "placeName": "Gamcheon Village", "userName": "Choi", "rating": 4.5,
	})
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.call(http.MethodGet, "/api/v1/places/ChIJnew", "", nil)
	s.Require().Equal(http.StatusOK, status)
	p := body["place"].(map[string]interface{})
	s.Equal("Gamcheon Village", p["name"])
	s.Equal(4.5, p["average_rating"])
}

func (s *E2ETestSuite) TestFavoritesWorkflow() {
	token := "uid:traveler-1"

	status, body := s.call(http.MethodPost, "/api/v1/places/favorites", "", map[string]string{"placeId": "ChIJfav12345"})
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("auth/argument-error", body["code"])

	status, body = s.call(http.MethodPost, "/api/v1/places/favorites", "expired", map[string]string{"placeId": "ChIJfav12345"})
	s.Equal(http.StatusForbidden, status)
	s.Equal("auth/id-token-expired", body["code"])

	status, _ = s.call(http.MethodPost, "/api/v1/places/favorites", token, map[string]string{"placeId": "ChIJfav12345"})
	s.Require().Equal(http.StatusCreated, status)

	status, _ = s.call(http.MethodPost, "/api/v1/places/favorites", token, map[string]string{"placeId": "ChIJfav12345"})
	s.Equal(http.StatusConflict, status)

	status, body = s.call(http.MethodGet, "/api/v1/places/favorites", token, nil)
	s.Require().Equal(http.StatusOK, status)
	favorites := body["favorites"].([]interface{})
	s.Require().Len(favorites, 1)
	s.Equal("Temporary place ChIJfav1", favorites[0].(map[string]interface{})["name"])

	status, body = s.call(http.MethodGet, "/api/v1/places/favorites/ChIJfav12345", token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(true, body["isFavorite"])

	status, _ = s.call(http.MethodDelete, "/api/v1/places/favorites", token, map[string]string{"placeId": "ChIJfav12345"})
	s.Equal(http.StatusOK, status)

	status, _ = s.call(http.MethodDelete, "/api/v1/places/favorites", token, map[string]string{"placeId": "ChIJfav12345"})
	s.Equal(http.StatusNotFound, status)
}

func (s *E2ETestSuite) TestActivitiesAndReviewDeletion() {
	token := "uid:traveler-2"
	_, _ = s.call(http.MethodPost, "/api/v1/places/sync-reviews", "", map[string]string{"placeId": "ChIJtower"})

	status, _ := s.call(http.MethodPost, "/api/v1/places/ChIJtower/activities", token, map[string]string{"activityType": "night view"})
	s.Require().Equal(http.StatusCreated, status)

	status, _ = s.call(http.MethodPost, "/api/v1/places/ChIJmissing/activities", token, map[string]string{"activityType": "hike"})
	s.Equal(http.StatusNotFound, status)

	status, body := s.call(http.MethodGet, "/api/v1/places/ChIJtower", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["activities"], 1)

	status, body = s.call(http.MethodPost, "/api/v1/reviews", "", map[string]interface{}{
		"placeId": "ChIJtower", "placeName": "N Seoul Tower", "userName": "Han", "rating": 1,
	})
	s.Require().Equal(http.StatusCreated, status)
	reviewID := body["review"].(map[string]interface{})["id"].(string)

	status, _ = s.call(http.MethodDelete, "/api/v1/reviews/"+reviewID, "", nil)
	s.Equal(http.StatusUnauthorized, status)

	status, body = s.call(http.MethodDelete, "/api/v1/reviews/"+reviewID, token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.InDelta(4.5, body["averageRating"].(float64), 1e-9)

	status, _ = s.call(http.MethodDelete, "/api/v1/reviews/"+reviewID, token, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *E2ETestSuite) TestProfile() {
	status, body := s.call(http.MethodGet, "/api/v1/profile", "uid:traveler-3", nil)
	s.Require().Equal(http.StatusOK, status)
	member := body["member"].(map[string]interface{})
	s.Equal("traveler-3", member["uid"])
	s.Equal("traveler-3@example.com", member["email"])

	status, body = s.call(http.MethodGet, "/api/v1/profile", "garbage", nil)
	s.Equal(http.StatusForbidden, status)
	s.Equal("auth/invalid-id-token", body["code"])
}

func (s *E2ETestSuite) TestRecommendations() {
	status, body := s.call(http.MethodPost, "/api/v1/recommend-route", "", map[string]float64{"latitude": 37.5512, "longitude": 126.9882})
	s.Require().Equal(http.StatusOK, status)
	places := body["recommendations"].(map[string]interface{})["places"].([]interface{})
	s.Require().Len(places, 1)
	s.Equal("Seoul Tower", places[0].(map[string]interface{})["name"])

	status, body = s.call(http.MethodPost, "/api/v1/recommend-route/travel-route", "", map[string]interface{}{
		"startLocation": "Seoul", "endLocation": "Busan", "leisureType": "tourism", "experienceType": "food",
	})
	s.Require().Equal(http.StatusOK, status)
	route := body["routeRecommendation"].(map[string]interface{})
	s.Len(route["days"], 2)
	s.Equal("Seoul to Busan", route["title"])
	prefs := body["preferences"].(map[string]interface{})
	s.Equal("sightseeing focused", prefs["leisureType"])
	s.Equal("culinary trip", prefs["experienceType"])
}

func (s *E2ETestSuite) TestRecommendationProviderOutage() {
	s.app.backup.err = fmt.Errorf("gemini: %w", types.ErrUpstream)

	status, body := s.call(http.MethodPost, "/api/v1/recommend-route", "", map[string]float64{"latitude": 37.5, "longitude": 127})
	s.Equal(http.StatusBadGateway, status)
	s.Equal(false, body["success"])

	status, body = s.call(http.MethodPost, "/api/v1/recommend-route/travel-route", "", map[string]interface{}{
		"endLocation": "Busan", "leisureType": "leisure", "experienceType": "experience",
	})
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["routeRecommendation"].(map[string]interface{})["days"], 3)
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func TestRecommendRateLimit(t *testing.T) {
	app := newTestApp(slog.New(slog.NewTextHandler(io.Discard, nil)), 1)
	body := `{"latitude":37.5,"longitude":127}`

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend-route", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.7:5000"
	app.handler.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/recommend-route", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.7:5001"
	app.handler.ServeHTTP(second, req)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

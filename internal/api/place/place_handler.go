package place

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/auth"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const (
	defaultReviewPage = 10
	maxReviewPage     = 100
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

type searchResponse struct {
	Success bool   `json:"success"`
	PlaceID string `json:"placeId"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type syncResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Place   *types.Place   `json:"place"`
	Reviews []types.Review `json:"reviews"`
}

type detailsResponse struct {
	Success    bool                  `json:"success"`
	Place      *types.Place          `json:"place"`
	Reviews    []types.Review        `json:"reviews"`
	Activities []types.PlaceActivity `json:"activities"`
}

type placeResponse struct {
	Success    bool                  `json:"success"`
	Place      *types.Place          `json:"place"`
	Activities []types.PlaceActivity `json:"activities"`
}

type favoriteResponse struct {
	Success    bool      `json:"success"`
	FavoriteID uuid.UUID `json:"favoriteId"`
	PlaceID    string    `json:"placeId"`
}

func startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

func placeIDParam(r *http.Request) (string, error) {
	placeID := strings.TrimSpace(chi.URLParam(r, "placeId"))
	if placeID == "" {
		return "", errPlaceIDRequired
	}
	return placeID, nil
}

// SearchPlace godoc
// @Summary      Find a place by name
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        request body types.SearchPlaceRequest true "Place name"
// @Success      200 {object} searchResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /places/search [post]
func (h *HandlerImpl) SearchPlace(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "SearchPlace", "/places/search")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SearchPlace"))

	var req types.SearchPlaceRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	result, err := h.service.Search(r.Context(), req.PlaceName, req.APIKey)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to search place")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, searchResponse{
		Success: true,
		PlaceID: result.PlaceID,
		Name:    result.Name,
		Address: result.Address,
	})
}

// SyncReviews godoc
// @Summary      Import provider reviews for a place
// @Description  Refreshes the stored place and saves reviews whose external id has not been seen.
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        request body types.SyncReviewsRequest true "Place to sync"
// @Success      200 {object} syncResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /places/sync-reviews [post]
func (h *HandlerImpl) SyncReviews(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "SyncReviews", "/places/sync-reviews")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SyncReviews"))

	var req types.SyncReviewsRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	result, err := h.service.SyncReviews(r.Context(), req)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to sync reviews")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, syncResponse{
		Success: true,
		Message: result.Message,
		Place:   result.Place,
		Reviews: result.Synced,
	})
}

// GetPlaceDetails godoc
// @Summary      Place with a page of reviews and its activities
// @Tags         places
// @Produce      json
// @Param        placeId path string true "Place id"
// @Param        limit query int false "Page size" default(10)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} detailsResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /places/{placeId}/details [get]
func (h *HandlerImpl) GetPlaceDetails(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "GetPlaceDetails", "/places/{placeId}/details")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetPlaceDetails"))

	placeID, err := placeIDParam(r)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}
	limit, offset, err := api.Pagination(r, defaultReviewPage, maxReviewPage)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	details, err := h.service.GetDetails(r.Context(), placeID, limit, offset)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to load place details")
		return
	}

	reviews := details.Reviews
	if reviews == nil {
		reviews = []types.Review{}
	}
	activities := details.Activities
	if activities == nil {
		activities = []types.PlaceActivity{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, detailsResponse{
		Success:    true,
		Place:      details.Place,
		Reviews:    reviews,
		Activities: activities,
	})
}

// GetPlace godoc
// @Summary      Stored place and its activities
// @Tags         places
// @Produce      json
// @Param        placeId path string true "Place id"
// @Success      200 {object} placeResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /places/{placeId} [get]
func (h *HandlerImpl) GetPlace(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "GetPlace", "/places/{placeId}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetPlace"))

	placeID, err := placeIDParam(r)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	details, err := h.service.GetPlace(r.Context(), placeID)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to load place")
		return
	}

	activities := details.Activities
	if activities == nil {
		activities = []types.PlaceActivity{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, placeResponse{
		Success:    true,
		Place:      details.Place,
		Activities: activities,
	})
}

// GetPlacesByName godoc
// @Summary      Stored places whose name contains the given text
// @Tags         places
// @Produce      json
// @Param        placeName path string true "Name fragment"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /places/by-name/{placeName} [get]
func (h *HandlerImpl) GetPlacesByName(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "GetPlacesByName", "/places/by-name/{placeName}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetPlacesByName"))

	places, err := h.service.FindByName(r.Context(), chi.URLParam(r, "placeName"))
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to search stored places")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"places":  places,
	})
}

// AddActivity godoc
// @Summary      Record an activity for a place
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        placeId path string true "Place id"
// @Param        request body types.CreateActivityRequest true "Activity"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /places/{placeId}/activities [post]
func (h *HandlerImpl) AddActivity(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "AddActivity", "/places/{placeId}/activities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddActivity"))

	placeID, err := placeIDParam(r)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}
	var req types.CreateActivityRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	activity, err := h.service.AddActivity(r.Context(), placeID, req)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to add activity")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"activity": activity,
	})
}

// ListFavorites godoc
// @Summary      Caller's favorite places
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Router       /places/favorites [get]
func (h *HandlerImpl) ListFavorites(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "ListFavorites", "/places/favorites")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListFavorites"))

	userID, ok := h.caller(w, r, span)
	if !ok {
		return
	}

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to load favorites")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"favorites": favorites,
	})
}

// AddFavorite godoc
// @Summary      Add a place to the caller's favorites
// @Description  Unknown places are stored with a placeholder name.
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.FavoriteRequest true "Place"
// @Success      201 {object} favoriteResponse
// @Failure      409 {object} map[string]interface{}
// @Router       /places/favorites [post]
func (h *HandlerImpl) AddFavorite(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "AddFavorite", "/places/favorites")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddFavorite"))

	userID, ok := h.caller(w, r, span)
	if !ok {
		return
	}
	var req types.FavoriteRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	id, err := h.service.AddFavorite(r.Context(), userID, req.PlaceID)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to add favorite")
		return
	}

	l.InfoContext(r.Context(), "Favorite added", slog.String("place_id", req.PlaceID))
	api.WriteJSONResponse(w, r, http.StatusCreated, favoriteResponse{Success: true, FavoriteID: id, PlaceID: req.PlaceID})
}

// RemoveFavorite godoc
// @Summary      Remove a place from the caller's favorites
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.FavoriteRequest true "Place"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /places/favorites [delete]
func (h *HandlerImpl) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "RemoveFavorite", "/places/favorites")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RemoveFavorite"))

	userID, ok := h.caller(w, r, span)
	if !ok {
		return
	}
	var req types.FavoriteRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), userID, req.PlaceID); err != nil {
		api.WriteError(w, r, l, err, "Failed to remove favorite")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Favorite removed",
	})
}

// CheckFavorite godoc
// @Summary      Whether a place is in the caller's favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        placeId path string true "Place id"
// @Success      200 {object} map[string]interface{}
// @Router       /places/favorites/{placeId} [get]
func (h *HandlerImpl) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "CheckFavorite", "/places/favorites/{placeId}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CheckFavorite"))

	userID, ok := h.caller(w, r, span)
	if !ok {
		return
	}
	placeID, err := placeIDParam(r)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	isFavorite, err := h.service.IsFavorite(r.Context(), userID, placeID)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to check favorite")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":    true,
		"placeId":    placeID,
		"isFavorite": isFavorite,
	})
}

// caller returns the authenticated uid or writes a 401.
func (h *HandlerImpl) caller(w http.ResponseWriter, r *http.Request, span trace.Span) (string, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.logger.WarnContext(r.Context(), "User ID not found in context")
		api.AuthErrorResponse(w, r, http.StatusUnauthorized, api.AuthCodeArgument, "Authentication required")
		return "", false
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID))
	return userID, true
}

package recommend

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

type nearbyResponse struct {
	Success         bool                    `json:"success"`
	Location        types.NearbyLocation    `json:"location"`
	Recommendations types.RecommendationSet `json:"recommendations"`
}

type routeResponse struct {
	Success             bool                      `json:"success"`
	StartLocation       string                    `json:"startLocation"`
	EndLocation         string                    `json:"endLocation"`
	Preferences         types.RoutePreferences    `json:"preferences"`
	RouteRecommendation types.RouteRecommendation `json:"routeRecommendation"`
}

// RecommendNearby godoc
// @Summary      Recommend places near a coordinate
// @Description  Reverse-geocodes the coordinate and returns places suggested by both AI providers.
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request body types.NearbyRecommendationRequest true "Coordinate"
// @Success      200 {object} nearbyResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /recommend-route [post]
func (h *HandlerImpl) RecommendNearby(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "RecommendNearby", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommend-route"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RecommendNearby"))

	var req types.NearbyRecommendationRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	result, err := h.service.RecommendNearby(ctx, *req.Latitude, *req.Longitude)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to generate recommendations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, nearbyResponse{
		Success:         true,
		Location:        result.Location,
		Recommendations: result.Recommendations,
	})
}

// RecommendRoute godoc
// @Summary      Recommend a multi-day travel route
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request body types.TravelRouteRequest true "Route preferences"
// @Success      200 {object} routeResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /recommend-route/travel-route [post]
func (h *HandlerImpl) RecommendRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "RecommendRoute", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommend-route/travel-route"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RecommendRoute"))

	var req types.TravelRouteRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	q := NormalizeRouteQuery(req)
	route, err := h.service.RecommendRoute(ctx, q)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to generate travel route")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, routeResponse{
		Success:       true,
		StartLocation: q.StartLocation,
		EndLocation:   q.EndLocation,
		Preferences: types.RoutePreferences{
			LeisureType:    PreferenceLabel(q.Leisure),
			ExperienceType: PreferenceLabel(q.Experience),
		},
		RouteRecommendation: *route,
	})
}

package review

import (
	"fmt"
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
	defaultPageSize = 10
	maxPageSize     = 100
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

type createResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	Review        *types.Review `json:"review"`
	AverageRating *float64      `json:"averageRating"`
}

type listResponse struct {
	Success      bool           `json:"success"`
	PlaceID      string         `json:"placeId"`
	PlaceName    string         `json:"placeName"`
	TotalReviews int            `json:"totalReviews"`
	Reviews      []types.Review `json:"reviews"`
}

func startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// CreateReview godoc
// @Summary      Write a review
// @Description  Creates the place if it is new and recomputes its average rating.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body types.CreateReviewRequest true "Review"
// @Success      201 {object} createResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /reviews [post]
func (h *HandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "CreateReview", "/reviews")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateReview"))

	var req types.CreateReviewRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	review, avg, err := h.service.CreateReview(r.Context(), req)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to create review")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, createResponse{
		Success:       true,
		Message:       "Review created",
		Review:        review,
		AverageRating: avg,
	})
}

// GetReviews godoc
// @Summary      Reviews of a place
// @Tags         reviews
// @Produce      json
// @Param        placeId path string true "Place id"
// @Param        limit query int false "Page size" default(10)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} listResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /reviews/{placeId} [get]
func (h *HandlerImpl) GetReviews(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "GetReviews", "/reviews/{placeId}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetReviews"))

	placeID := strings.TrimSpace(chi.URLParam(r, "placeId"))
	if placeID == "" {
		api.WriteError(w, r, l, fmt.Errorf("%w: placeId is required", types.ErrValidation), "Invalid request")
		return
	}
	limit, offset, err := api.Pagination(r, defaultPageSize, maxPageSize)
	if err != nil {
		api.WriteError(w, r, l, err, "Invalid request")
		return
	}

	page, err := h.service.GetReviews(r.Context(), placeID, limit, offset)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to load reviews")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, listResponse{
		Success:      true,
		PlaceID:      page.PlaceID,
		PlaceName:    page.PlaceName,
		TotalReviews: page.Total,
		Reviews:      page.Reviews,
	})
}

// DeleteReview godoc
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        reviewId path string true "Review id"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /reviews/{reviewId} [delete]
func (h *HandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "DeleteReview", "/reviews/{reviewId}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteReview"))

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.AuthErrorResponse(w, r, http.StatusUnauthorized, api.AuthCodeArgument, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID))

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewId"))
	if err != nil {
		api.WriteError(w, r, l, fmt.Errorf("%w: reviewId must be a UUID", types.ErrValidation), "Invalid request")
		return
	}

	avg, err := h.service.DeleteReview(r.Context(), reviewID)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to delete review")
		return
	}

	l.InfoContext(r.Context(), "Review deleted", slog.String("review_id", reviewID.String()), slog.String("uid", userID))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Review deleted",
		"averageRating": avg,
	})
}

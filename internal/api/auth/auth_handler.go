package auth

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

type ProfileHandler struct {
	service ProfileService
	logger  *slog.Logger
}

func NewProfileHandler(service ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

type profileResponse struct {
	Success       bool         `json:"success"`
	Member        types.Member `json:"member"`
	EmailVerified bool         `json:"emailVerified"`
}

// GetProfile godoc
// @Summary      Current member profile
// @Description  Registers the authenticated caller on first use and returns the stored member.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} profileResponse
// @Failure      401 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Router       /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProfileHandler").Start(r.Context(), "GetProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/profile"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetProfile"))

	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		api.AuthErrorResponse(w, r, http.StatusUnauthorized, api.AuthCodeArgument, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(identity.UID))

	member, err := h.service.GetProfile(ctx, identity)
	if err != nil {
		api.WriteError(w, r, l, err, "Failed to load profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profileResponse{
		Success:       true,
		Member:        *member,
		EmailVerified: identity.EmailVerified,
	})
}

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-travel-recommendations/app/logger"
	appMiddleware "github.com/FACorreiaa/go-travel-recommendations/app/middleware"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/auth"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/place"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/recommend"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/review"
)

// Config contains the handlers and middleware the router mounts.
type Config struct {
	PlaceHandler     *place.HandlerImpl
	ReviewHandler    *review.HandlerImpl
	RecommendHandler *recommend.HandlerImpl
	ProfileHandler   *auth.ProfileHandler

	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
	Logger                 *slog.Logger

	AllowedOrigins []string
	// RecommendRateLimit is requests per minute per client IP on the
	// recommendation routes. Zero disables the limit.
	RecommendRateLimit int
	RequestTimeout     time.Duration
}

// SetupRouter builds the application router with server-wide middleware
// already applied.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.Logger != nil {
		r.Use(appLogger.StructuredLogger(cfg.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5, "application/json"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/places/search", cfg.PlaceHandler.SearchPlace)
			r.Post("/places/sync-reviews", cfg.PlaceHandler.SyncReviews)
			r.Get("/places/by-name/{placeName}", cfg.PlaceHandler.GetPlacesByName)
			r.Get("/places/{placeId}", cfg.PlaceHandler.GetPlace)
			r.Get("/places/{placeId}/details", cfg.PlaceHandler.GetPlaceDetails)

			r.Post("/reviews", cfg.ReviewHandler.CreateReview)
			r.Get("/reviews/{placeId}", cfg.ReviewHandler.GetReviews)
		})

		r.Group(func(r chi.Router) {
			if cfg.RecommendRateLimit > 0 {
				r.Use(appMiddleware.RateLimitByIP(cfg.RecommendRateLimit, time.Minute))
			}
			r.Post("/recommend-route", cfg.RecommendHandler.RecommendNearby)
			r.Post("/recommend-route/travel-route", cfg.RecommendHandler.RecommendRoute)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/places/favorites", cfg.PlaceHandler.ListFavorites)
			r.Post("/places/favorites", cfg.PlaceHandler.AddFavorite)
			r.Delete("/places/favorites", cfg.PlaceHandler.RemoveFavorite)
			r.Get("/places/favorites/{placeId}", cfg.PlaceHandler.CheckFavorite)
			r.Post("/places/{placeId}/activities", cfg.PlaceHandler.AddActivity)

			r.Delete("/reviews/{reviewId}", cfg.ReviewHandler.DeleteReview)

			r.Get("/profile", cfg.ProfileHandler.GetProfile)
		})
	})

	return r
}

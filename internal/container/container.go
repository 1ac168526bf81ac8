package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-travel-recommendations/app/cache"
	database "github.com/FACorreiaa/go-travel-recommendations/app/db"
	"github.com/FACorreiaa/go-travel-recommendations/config"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/auth"
	generativeAI "github.com/FACorreiaa/go-travel-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/googlemaps"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/place"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/recommend"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api/review"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Cache  cache.Cache

	Verifier         *auth.Verifier
	PlaceHandler     *place.HandlerImpl
	ReviewHandler    *review.HandlerImpl
	RecommendHandler *recommend.HandlerImpl
	ProfileHandler   *auth.ProfileHandler

	redis *redis.Client
}

// NewContainer wires repositories, provider clients, services and handlers
// around an already opened pool.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Pool: pool}

	if addr := cfg.Repositories.Redis.Addr; addr != "" {
		client, err := cache.NewRedisClient(ctx, addr, cfg.Repositories.Redis.Password, cfg.Repositories.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.Any("error", err))
			return nil, err
		}
		c.redis = client
		c.Cache = cache.NewRedisCache(client)
		logger.Info("Using redis response cache", slog.String("addr", addr))
	} else {
		c.Cache = cache.NewMemoryCache(time.Hour, 10*time.Minute)
		logger.Info("Using in-process response cache")
	}

	// Provider clients
	maps := cfg.Providers.GoogleMaps
	mapsClient := googlemaps.NewClient(googlemaps.ClientConfig{
		APIKey:   maps.APIKey,
		BaseURL:  maps.BaseURL,
		Language: maps.Language,
		Timeout:  maps.Timeout,
	}, logger)
	lookup := googlemaps.NewCachedClient(mapsClient, c.Cache, googlemaps.CacheTTLs{
		Geocode:     cfg.Cache.GeocodeTTL,
		PlaceSearch: cfg.Cache.PlaceSearchTTL,
	}, logger)

	oa := cfg.Providers.OpenAI
	openAIClient, err := generativeAI.NewOpenAIClient(generativeAI.OpenAIConfig{
		APIKey:            oa.APIKey,
		BaseURL:           oa.BaseURL,
		Model:             oa.Model,
		RequestsPerSecond: oa.RequestsPerSecond,
		Timeout:           oa.Timeout,
	}, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("openai client: %w", err)
	}

	gm := cfg.Providers.Gemini
	geminiClient, err := generativeAI.NewAIClient(ctx, generativeAI.GeminiConfig{
		APIKey:  gm.APIKey,
		Model:   gm.Model,
		Timeout: gm.Timeout,
	}, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	// Repositories
	placeRepo := place.NewRepository(pool, logger)
	reviewRepo := review.NewRepository(pool, logger)
	memberRepo := auth.NewMemberRepository(pool, logger)

	// Services
	placeService := place.NewServiceImpl(placeRepo, reviewRepo, lookup, logger)
	reviewService := review.NewServiceImpl(reviewRepo, placeRepo, logger)
	recommendService := recommend.NewServiceImpl(lookup, openAIClient, geminiClient, logger)
	profileService := auth.NewProfileService(memberRepo, logger)

	// Handlers
	c.PlaceHandler = place.NewHandlerImpl(placeService, logger)
	c.ReviewHandler = review.NewHandlerImpl(reviewService, logger)
	c.RecommendHandler = recommend.NewHandlerImpl(recommendService, logger)
	c.ProfileHandler = auth.NewProfileHandler(profileService, logger)

	c.Verifier = auth.NewVerifier(auth.VerifierConfig{
		ProjectID:    cfg.Identity.ProjectID,
		JWKSURL:      cfg.Identity.JWKSURL,
		IssuerPrefix: cfg.Identity.IssuerPrefix,
		KeysTTL:      cfg.Identity.KeysTTL,

		MinRefreshInterval: cfg.Identity.MinRefreshInterval,
	}, logger)

	return c, nil
}

// Close releases the resources the container opened. The pool belongs to
// the caller.
func (c *Container) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

package googlemaps

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-travel-recommendations/app/cache"
	"github.com/FACorreiaa/go-travel-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// Provider is the Maps surface the services consume.
type Provider interface {
	Geocode(ctx context.Context, lat, lon float64) (*types.GeocodeResult, error)
	FindPlace(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error)
	PlaceDetails(ctx context.Context, placeID, apiKey string) (*types.PlaceRecord, error)
}

var (
	_ Provider = (*Client)(nil)
	_ Provider = (*CachedClient)(nil)
)

type CacheTTLs struct {
	Geocode     time.Duration
	PlaceSearch time.Duration
}

// CachedClient caches geocoding and place search. Place details are never
// cached because review sync must see the provider's current data.
// Cache failures are logged and the call falls through to the provider.
type CachedClient struct {
	next   Provider
	cache  cache.Cache
	ttls   CacheTTLs
	logger *slog.Logger
}

func NewCachedClient(next Provider, c cache.Cache, ttls CacheTTLs, logger *slog.Logger) *CachedClient {
	return &CachedClient{next: next, cache: c, ttls: ttls, logger: logger}
}

func (c *CachedClient) Geocode(ctx context.Context, lat, lon float64) (*types.GeocodeResult, error) {
	// ~1m precision is enough to share results between nearby requests.
	key := cache.Key("geocode", strconv.FormatFloat(lat, 'f', 5, 64), strconv.FormatFloat(lon, 'f', 5, 64))

	var cached types.GeocodeResult
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	res, err := c.next.Geocode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, res, c.ttls.Geocode)
	return res, nil
}

// FindPlace serves repeated searches from the cache. A search carrying the
// caller's own apiKey always goes to the provider with that key and is not
// stored.
func (c *CachedClient) FindPlace(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error) {
	if apiKey != "" {
		return c.next.FindPlace(ctx, name, apiKey)
	}
	key := cache.Key("place_search", name)

	var cached types.PlaceSearchResult
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	res, err := c.next.FindPlace(ctx, name, apiKey)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, res, c.ttls.PlaceSearch)
	return res, nil
}

func (c *CachedClient) PlaceDetails(ctx context.Context, placeID, apiKey string) (*types.PlaceRecord, error) {
	return c.next.PlaceDetails(ctx, placeID, apiKey)
}

func (c *CachedClient) lookup(ctx context.Context, key string, dst any) bool {
	hit, err := c.cache.Get(ctx, key, dst)
	if err != nil {
		c.logger.WarnContext(ctx, "Cache lookup failed", slog.String("key", key), slog.Any("error", err))
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.Get().CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	return hit
}

func (c *CachedClient) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "Cache store failed", slog.String("key", key), slog.Any("error", err))
	}
}

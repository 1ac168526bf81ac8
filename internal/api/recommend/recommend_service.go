package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-recommendations/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-travel-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const (
	DefaultStartLocation = "Current location"
	DefaultTravelDays    = 3
	DefaultRouteTitle    = "Custom travel itinerary"
)

// Geocoder resolves coordinates to a place name.
type Geocoder interface {
	Geocode(ctx context.Context, lat, lon float64) (*types.GeocodeResult, error)
}

type Service interface {
	RecommendNearby(ctx context.Context, lat, lon float64) (*types.NearbyRecommendation, error)
	RecommendRoute(ctx context.Context, q types.RouteQuery) (*types.RouteRecommendation, error)
}

// ServiceImpl asks two generators the same question and keeps the primary's
// answer, narrowed to what the corroborating generator also suggested.
type ServiceImpl struct {
	logger        *slog.Logger
	geocoder      Geocoder
	primary       generativeAI.Generator
	corroborating generativeAI.Generator
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(geocoder Geocoder, primary, corroborating generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		geocoder:      geocoder,
		primary:       primary,
		corroborating: corroborating,
	}
}

// generation is the outcome of one provider call.
type generation struct {
	provider string
	strict   bool
	raw      string
	err      error
}

// generateBoth runs both providers concurrently and waits for both.
// Per-provider errors are returned in the results, never through the group,
// so one failure does not cancel the other call.
func (s *ServiceImpl) generateBoth(ctx context.Context, render func(generativeAI.Generator) prompt) (generation, generation) {
	gens := [2]generativeAI.Generator{s.primary, s.corroborating}
	var results [2]generation

	g, gCtx := errgroup.WithContext(ctx)
	for i, gen := range gens {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = generation{provider: gen.Name(), err: fmt.Errorf("%w: %s panicked: %v", types.ErrUpstream, gen.Name(), r)}
				}
			}()
			p := render(gen)
			raw, genErr := gen.Generate(gCtx, p.text, p.config)
			results[i] = generation{provider: gen.Name(), strict: gen.StrictJSON(), raw: raw, err: genErr}
			return nil
		})
	}
	_ = g.Wait()
	return results[0], results[1]
}

func (s *ServiceImpl) RecommendNearby(ctx context.Context, lat, lon float64) (*types.NearbyRecommendation, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "RecommendNearby", trace.WithAttributes(
		attribute.Float64("geo.latitude", lat),
		attribute.Float64("geo.longitude", lon),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RecommendNearby"))

	geo, err := s.geocoder.Geocode(ctx, lat, lon)
	if err != nil {
		l.WarnContext(ctx, "Geocoding failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding failed")
		return nil, fmt.Errorf("resolving location: %w", err)
	}

	loc := types.NearbyLocation{Latitude: lat, Longitude: lon, Address: geo.Address, Name: geo.LocationName}
	span.SetAttributes(attribute.String("location.name", loc.Name))

	a, b := s.generateBoth(ctx, func(gen generativeAI.Generator) prompt { return nearbyPrompt(gen, loc) })

	primarySet, err := s.parseNearby(ctx, a)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary provider failed")
		return nil, err
	}
	corroboratingSet, err := s.parseNearby(ctx, b)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "corroborating provider failed")
		return nil, err
	}

	places, outcome := IntersectPlaces(primarySet.Places, corroboratingSet.Places)
	recordOutcomes(ctx, "nearby", outcome)
	l.InfoContext(ctx, "Nearby recommendations reconciled",
		slog.String("location", loc.Name),
		slog.Int("primary_count", len(primarySet.Places)),
		slog.Int("corroborating_count", len(corroboratingSet.Places)),
		slog.Int("result_count", len(places)),
		slog.String("outcome", string(outcome)))

	span.SetStatus(codes.Ok, "recommendations reconciled")
	return &types.NearbyRecommendation{
		Location:        loc,
		Recommendations: types.RecommendationSet{Places: places},
	}, nil
}

func (s *ServiceImpl) parseNearby(ctx context.Context, g generation) (*types.RecommendationSet, error) {
	if g.err != nil {
		return nil, fmt.Errorf("%s recommendation: %w", g.provider, g.err)
	}
	set, err := parseNearby(g.raw, g.strict)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding unparsable recommendation",
			slog.String("provider", g.provider), slog.Any("error", err))
		return nil, fmt.Errorf("%s recommendation: %w", g.provider, err)
	}
	return set, nil
}

// NormalizeRouteQuery applies the defaults for optional route fields.
func NormalizeRouteQuery(req types.TravelRouteRequest) types.RouteQuery {
	q := types.RouteQuery{
		StartLocation: strings.TrimSpace(req.StartLocation),
		EndLocation:   strings.TrimSpace(req.EndLocation),
		Leisure:       strings.TrimSpace(req.LeisureType),
		Experience:    strings.TrimSpace(req.ExperienceType),
		TravelDays:    DefaultTravelDays,
	}
	if q.StartLocation == "" {
		q.StartLocation = DefaultStartLocation
	}
	if req.TravelDays != nil {
		q.TravelDays = *req.TravelDays
	}
	return q
}

func (s *ServiceImpl) RecommendRoute(ctx context.Context, q types.RouteQuery) (*types.RouteRecommendation, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "RecommendRoute", trace.WithAttributes(
		attribute.String("route.start", q.StartLocation),
		attribute.String("route.end", q.EndLocation),
		attribute.Int("route.days", q.TravelDays),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RecommendRoute"))

	if q.EndLocation == "" || q.Leisure == "" || q.Experience == "" {
		return nil, fmt.Errorf("%w: endLocation, leisureType and experienceType are required", types.ErrValidation)
	}

	a, b := s.generateBoth(ctx, func(gen generativeAI.Generator) prompt { return routePrompt(gen, q) })

	primary, primaryErr := s.parseRoute(ctx, a)
	corroborating, corroboratingErr := s.parseRoute(ctx, b)

	var result types.RouteRecommendation
	var outcomes []Outcome
	switch {
	case primaryErr != nil && corroboratingErr != nil:
		err := fmt.Errorf("both providers failed: %w", primaryErr)
		l.ErrorContext(ctx, "Route generation failed",
			slog.Any("primary_error", primaryErr), slog.Any("corroborating_error", corroboratingErr))
		span.RecordError(err)
		span.SetStatus(codes.Error, "route generation failed")
		return nil, err
	case primaryErr != nil:
		// The surviving provider becomes primary, checked against an empty itinerary.
		l.WarnContext(ctx, "Primary provider failed, using corroborating output", slog.Any("error", primaryErr))
		result, outcomes = ReconcileRoute(*corroborating, types.RouteRecommendation{})
	case corroboratingErr != nil:
		l.WarnContext(ctx, "Corroborating provider failed, using primary output", slog.Any("error", corroboratingErr))
		result, outcomes = ReconcileRoute(*primary, types.RouteRecommendation{})
	default:
		result, outcomes = ReconcileRoute(*primary, *corroborating)
	}

	recordOutcomes(ctx, "route", outcomes...)

	if strings.TrimSpace(result.Title) == "" {
		result.Title = DefaultRouteTitle
	}
	if strings.TrimSpace(result.Description) == "" {
		result.Description = fmt.Sprintf("Recommended course from %s to %s", q.StartLocation, q.EndLocation)
	}

	l.InfoContext(ctx, "Route recommendation reconciled",
		slog.Int("days", len(result.Days)),
		slog.Bool("primary_ok", primaryErr == nil),
		slog.Bool("corroborating_ok", corroboratingErr == nil))
	span.SetStatus(codes.Ok, "route reconciled")
	return &result, nil
}

func (s *ServiceImpl) parseRoute(ctx context.Context, g generation) (*types.RouteRecommendation, error) {
	if g.err != nil {
		return nil, fmt.Errorf("%s route: %w", g.provider, g.err)
	}
	route, err := parseRoute(g.raw, g.strict)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding unparsable route",
			slog.String("provider", g.provider), slog.Any("error", err))
		return nil, fmt.Errorf("%s route: %w", g.provider, err)
	}
	return route, nil
}

func recordOutcomes(ctx context.Context, form string, outcomes ...Outcome) {
	counter := metrics.Get().ReconcileOutcomesTotal
	for _, o := range outcomes {
		counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("form", form),
			attribute.String("outcome", string(o)),
		))
	}
}

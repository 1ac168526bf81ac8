package place

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// Lookup is the place-data provider the service syncs from.
type Lookup interface {
	FindPlace(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error)
	PlaceDetails(ctx context.Context, placeID, apiKey string) (*types.PlaceRecord, error)
}

// ReviewStore is the part of the review repository places need.
type ReviewStore interface {
	SaveReview(ctx context.Context, review types.Review) (*types.Review, error)
	ExternalReviewExists(ctx context.Context, externalID string) (bool, error)
	GetReviewsByPlaceID(ctx context.Context, placeID string, limit, offset int) ([]types.Review, error)
}

var errPlaceIDRequired = fmt.Errorf("%w: placeId is required", types.ErrValidation)

type SyncResult struct {
	Place   *types.Place
	Synced  []types.Review
	Message string
}

type Service interface {
	Search(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error)
	SyncReviews(ctx context.Context, req types.SyncReviewsRequest) (*SyncResult, error)
	GetDetails(ctx context.Context, placeID string, limit, offset int) (*types.PlaceDetails, error)
	GetPlace(ctx context.Context, placeID string) (*types.PlaceDetails, error)
	FindByName(ctx context.Context, name string) ([]types.Place, error)
	AddActivity(ctx context.Context, placeID string, req types.CreateActivityRequest) (*types.PlaceActivity, error)

	AddFavorite(ctx context.Context, userID, placeID string) (uuid.UUID, error)
	RemoveFavorite(ctx context.Context, userID, placeID string) error
	ListFavorites(ctx context.Context, userID string) ([]types.FavoritePlace, error)
	IsFavorite(ctx context.Context, userID, placeID string) (bool, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	reviews ReviewStore
	lookup  Lookup
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, reviews ReviewStore, lookup Lookup, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		reviews: reviews,
		lookup:  lookup,
	}
}

// PlaceholderName is the name given to a place first seen through a favorite.
func PlaceholderName(placeID string) string {
	short := placeID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Temporary place " + short
}

func (s *ServiceImpl) Search(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("place.query", name),
	))
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: placeName is required", types.ErrValidation)
	}

	result, err := s.lookup.FindPlace(ctx, name, apiKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place search failed")
		return nil, fmt.Errorf("searching %q: %w", name, err)
	}
	span.SetStatus(codes.Ok, "place found")
	return result, nil
}

// SyncReviews pulls a place from the provider, refreshes the stored row and
// saves the reviews not seen before. The provider's rating is stored as is.
func (s *ServiceImpl) SyncReviews(ctx context.Context, req types.SyncReviewsRequest) (*SyncResult, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "SyncReviews", trace.WithAttributes(
		attribute.String("place.id", req.PlaceID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SyncReviews"), slog.String("place_id", req.PlaceID))

	rec, err := s.lookup.PlaceDetails(ctx, req.PlaceID, req.APIKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details lookup failed")
		return nil, fmt.Errorf("fetching place details: %w", err)
	}
	if rec.Name == "" {
		rec.Name = req.PlaceName
	}

	stored, err := s.repo.UpsertPlace(ctx, *rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place upsert failed")
		return nil, err
	}

	synced := []types.Review{}
	for _, ext := range rec.Reviews {
		exists, err := s.reviews.ExternalReviewExists(ctx, ext.ExternalID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		externalID := ext.ExternalID
		review := types.Review{
			PlaceID:          stored.PlaceID,
			PlaceName:        stored.Name,
			UserName:         ext.AuthorName,
			Rating:           ext.Rating,
			ReviewDate:       ext.Time,
			Source:           types.ReviewSourceGoogle,
			ExternalReviewID: &externalID,
		}
		if ext.Text != "" {
			text := ext.Text
			review.Comment = &text
		}

		saved, err := s.reviews.SaveReview(ctx, review)
		if err != nil {
			return nil, err
		}
		synced = append(synced, *saved)
	}

	msg := fmt.Sprintf("%d reviews synced", len(synced))
	l.InfoContext(ctx, "Reviews synced", slog.Int("fetched", len(rec.Reviews)), slog.Int("saved", len(synced)))
	span.SetAttributes(attribute.Int("reviews.synced", len(synced)))
	span.SetStatus(codes.Ok, msg)

	return &SyncResult{Place: stored, Synced: synced, Message: msg}, nil
}

func (s *ServiceImpl) GetDetails(ctx context.Context, placeID string, limit, offset int) (*types.PlaceDetails, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetDetails", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	p, err := s.repo.GetPlaceByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetReviewsByPlaceID(ctx, placeID, limit, offset)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.GetActivitiesByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &types.PlaceDetails{Place: p, Reviews: reviews, Activities: activities}, nil
}

func (s *ServiceImpl) GetPlace(ctx context.Context, placeID string) (*types.PlaceDetails, error) {
	p, err := s.repo.GetPlaceByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.GetActivitiesByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &types.PlaceDetails{Place: p, Activities: activities}, nil
}

func (s *ServiceImpl) FindByName(ctx context.Context, name string) ([]types.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: placeName is required", types.ErrValidation)
	}
	places, err := s.repo.SearchPlacesByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("no stored place matches %q: %w", name, types.ErrNotFound)
	}
	return places, nil
}

func (s *ServiceImpl) AddActivity(ctx context.Context, placeID string, req types.CreateActivityRequest) (*types.PlaceActivity, error) {
	activity, err := s.repo.SaveActivity(ctx, types.PlaceActivity{
		PlaceID:         placeID,
		ActivityType:    strings.TrimSpace(req.ActivityType),
		Description:     req.Description,
		RecommendedTime: req.RecommendedTime,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Activity added",
		slog.String("place_id", placeID), slog.String("activity_type", activity.ActivityType))
	return activity, nil
}

func (s *ServiceImpl) AddFavorite(ctx context.Context, userID, placeID string) (uuid.UUID, error) {
	return s.repo.AddFavorite(ctx, userID, placeID, PlaceholderName(placeID))
}

func (s *ServiceImpl) RemoveFavorite(ctx context.Context, userID, placeID string) error {
	return s.repo.RemoveFavorite(ctx, userID, placeID)
}

func (s *ServiceImpl) ListFavorites(ctx context.Context, userID string) ([]types.FavoritePlace, error) {
	return s.repo.GetFavoritesByUserID(ctx, userID)
}

func (s *ServiceImpl) IsFavorite(ctx context.Context, userID, placeID string) (bool, error) {
	return s.repo.IsFavorite(ctx, userID, placeID)
}

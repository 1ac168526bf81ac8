package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// PlaceStore is the part of the place repository reviews need.
type PlaceStore interface {
	EnsurePlace(ctx context.Context, placeID, name string) error
	GetPlaceByPlaceID(ctx context.Context, placeID string) (*types.Place, error)
}

// PlaceReviews is one page of a place's reviews. Total counts every review
// on file, not just the page.
type PlaceReviews struct {
	PlaceID   string
	PlaceName string
	Total     int
	Reviews   []types.Review
}

type Service interface {
	CreateReview(ctx context.Context, req types.CreateReviewRequest) (*types.Review, *float64, error)
	GetReviews(ctx context.Context, placeID string, limit, offset int) (*PlaceReviews, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) (*float64, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	places PlaceStore
	now    func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, places PlaceStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		places: places,
		now:    time.Now,
	}
}

// CreateReview stores a user review, creating the place when it is new, and
// returns the review together with the place's recomputed average.
func (s *ServiceImpl) CreateReview(ctx context.Context, req types.CreateReviewRequest) (*types.Review, *float64, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "CreateReview", trace.WithAttributes(
		attribute.String("place.id", req.PlaceID),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateReview"), slog.String("place_id", req.PlaceID))

	if req.Rating == nil {
		return nil, nil, fmt.Errorf("%w: rating is required", types.ErrValidation)
	}
	placeName := strings.TrimSpace(req.PlaceName)

	if err := s.places.EnsurePlace(ctx, req.PlaceID, placeName); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ensure place failed")
		return nil, nil, err
	}

	y, m, d := s.now().UTC().Date()
	saved, err := s.repo.SaveReview(ctx, types.Review{
		PlaceID:    req.PlaceID,
		PlaceName:  placeName,
		UserName:   strings.TrimSpace(req.UserName),
		Rating:     *req.Rating,
		Comment:    req.Comment,
		ReviewDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Source:     types.ReviewSourceUser,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save review failed")
		return nil, nil, err
	}

	avg, err := s.repo.RecomputeAverageRating(ctx, req.PlaceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute average failed")
		return nil, nil, err
	}

	l.InfoContext(ctx, "Review created", slog.String("review_id", saved.ID.String()))
	span.SetStatus(codes.Ok, "review created")
	return saved, avg, nil
}

func (s *ServiceImpl) GetReviews(ctx context.Context, placeID string, limit, offset int) (*PlaceReviews, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "GetReviews", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	p, err := s.places.GetPlaceByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.GetReviewsByPlaceID(ctx, placeID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountReviews(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &PlaceReviews{PlaceID: placeID, PlaceName: p.Name, Total: total, Reviews: reviews}, nil
}

// DeleteReview removes a review and returns its place's new average, nil when
// no reviews remain.
func (s *ServiceImpl) DeleteReview(ctx context.Context, reviewID uuid.UUID) (*float64, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "DeleteReview", trace.WithAttributes(
		attribute.String("review.id", reviewID.String()),
	))
	defer span.End()

	placeID, err := s.repo.DeleteReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.RecomputeAverageRating(ctx, placeID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Review deleted",
		slog.String("review_id", reviewID.String()), slog.String("place_id", placeID))
	return avg, nil
}

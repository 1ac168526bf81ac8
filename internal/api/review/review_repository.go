package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-travel-recommendations/app/db"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	SaveReview(ctx context.Context, review types.Review) (*types.Review, error)
	ExternalReviewExists(ctx context.Context, externalID string) (bool, error)
	GetReviewsByPlaceID(ctx context.Context, placeID string, limit, offset int) ([]types.Review, error)
	CountReviews(ctx context.Context, placeID string) (int, error)
	RecomputeAverageRating(ctx context.Context, placeID string) (*float64, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) (string, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     database.DBTX
}

func NewRepository(db database.DBTX, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, db: db}
}

func (r *RepositoryImpl) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("ReviewRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
	))
}

func persistenceErr(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return fmt.Errorf("%s: %w: %w", msg, types.ErrPersistence, err)
}

// SaveReview inserts a review. Reviews carrying an external id already on
// file update that row in place, so repeated syncs never duplicate.
func (r *RepositoryImpl) SaveReview(ctx context.Context, rv types.Review) (*types.Review, error) {
	ctx, span := r.span(ctx, "SaveReview")
	defer span.End()
	span.SetAttributes(attribute.String("place.id", rv.PlaceID), attribute.String("review.source", string(rv.Source)))

	if rv.ReviewDate.IsZero() {
		rv.ReviewDate = time.Now().UTC()
	}

	query := `
		INSERT INTO reviews (place_id, place_name, user_name, rating, comment, review_date, source, external_review_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_review_id) DO UPDATE SET
			rating     = EXCLUDED.rating,
			comment    = COALESCE(EXCLUDED.comment, reviews.comment),
			updated_at = NOW()
		RETURNING id, created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		rv.PlaceID, rv.PlaceName, rv.UserName, rv.Rating, rv.Comment, rv.ReviewDate, string(rv.Source), rv.ExternalReviewID,
	).Scan(&rv.ID, &rv.CreatedAt)
	database.ObserveQuery(ctx, "upsert_review", start, err)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("place %s: %w", rv.PlaceID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to save review", slog.String("place_id", rv.PlaceID), slog.Any("error", err))
		return nil, persistenceErr(span, "failed to save review", err)
	}
	return &rv, nil
}

func (r *RepositoryImpl) ExternalReviewExists(ctx context.Context, externalID string) (bool, error) {
	ctx, span := r.span(ctx, "ExternalReviewExists")
	defer span.End()

	var exists bool
	start := time.Now()
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE external_review_id = $1)`, externalID,
	).Scan(&exists)
	database.ObserveQuery(ctx, "review_exists", start, err)
	if err != nil {
		return false, persistenceErr(span, "failed to check review", err)
	}
	return exists, nil
}

// GetReviewsByPlaceID returns one page of reviews, newest review date first.
func (r *RepositoryImpl) GetReviewsByPlaceID(ctx context.Context, placeID string, limit, offset int) ([]types.Review, error) {
	ctx, span := r.span(ctx, "GetReviewsByPlaceID")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("offset", offset))

	start := time.Now()
	rows, err := r.db.Query(ctx, `
		SELECT id, place_id, place_name, user_name, rating, comment, review_date, source, external_review_id, created_at
		FROM reviews
		WHERE place_id = $1
		ORDER BY review_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, placeID, limit, offset)
	if err != nil {
		database.ObserveQuery(ctx, "list_reviews", start, err)
		return nil, persistenceErr(span, "failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []types.Review{}
	for rows.Next() {
		var (
			rv     types.Review
			source string
		)
		if err := rows.Scan(&rv.ID, &rv.PlaceID, &rv.PlaceName, &rv.UserName, &rv.Rating, &rv.Comment,
			&rv.ReviewDate, &source, &rv.ExternalReviewID, &rv.CreatedAt); err != nil {
			return nil, persistenceErr(span, "failed to scan review row", err)
		}
		rv.Source = types.ReviewSource(source)
		reviews = append(reviews, rv)
	}
	err = rows.Err()
	database.ObserveQuery(ctx, "list_reviews", start, err)
	if err != nil {
		return nil, persistenceErr(span, "error iterating review rows", err)
	}
	return reviews, nil
}

func (r *RepositoryImpl) CountReviews(ctx context.Context, placeID string) (int, error) {
	ctx, span := r.span(ctx, "CountReviews")
	defer span.End()

	var total int
	start := time.Now()
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE place_id = $1`, placeID).Scan(&total)
	database.ObserveQuery(ctx, "count_reviews", start, err)
	if err != nil {
		return 0, persistenceErr(span, "failed to count reviews", err)
	}
	return total, nil
}

// RecomputeAverageRating sets the place's average to the mean of all its
// reviews and returns it (nil when the place has no reviews left).
func (r *RepositoryImpl) RecomputeAverageRating(ctx context.Context, placeID string) (*float64, error) {
	ctx, span := r.span(ctx, "RecomputeAverageRating")
	defer span.End()

	var avg *float64
	start := time.Now()
	err := r.db.QueryRow(ctx, `
		UPDATE places
		SET average_rating = (SELECT AVG(rating) FROM reviews WHERE place_id = $1),
		    updated_at     = NOW()
		WHERE place_id = $1
		RETURNING average_rating`, placeID).Scan(&avg)
	database.ObserveQuery(ctx, "recompute_average", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place %s: %w", placeID, types.ErrNotFound)
		}
		return nil, persistenceErr(span, "failed to recompute average rating", err)
	}
	return avg, nil
}

// DeleteReview removes a review and returns the place it belonged to.
func (r *RepositoryImpl) DeleteReview(ctx context.Context, reviewID uuid.UUID) (string, error) {
	ctx, span := r.span(ctx, "DeleteReview")
	defer span.End()

	var placeID string
	start := time.Now()
	err := r.db.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING place_id`, reviewID).Scan(&placeID)
	database.ObserveQuery(ctx, "delete_review", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("review %s: %w", reviewID, types.ErrNotFound)
		}
		return "", persistenceErr(span, "failed to delete review", err)
	}
	return placeID, nil
}

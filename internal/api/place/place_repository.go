package place

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
	UpsertPlace(ctx context.Context, rec types.PlaceRecord) (*types.Place, error)
	EnsurePlace(ctx context.Context, placeID, name string) error
	GetPlaceByPlaceID(ctx context.Context, placeID string) (*types.Place, error)
	SearchPlacesByName(ctx context.Context, name string) ([]types.Place, error)

	// Activities
	SaveActivity(ctx context.Context, activity types.PlaceActivity) (*types.PlaceActivity, error)
	GetActivitiesByPlaceID(ctx context.Context, placeID string) ([]types.PlaceActivity, error)

	// Favorites
	AddFavorite(ctx context.Context, userID, placeID, placeholderName string) (uuid.UUID, error)
	RemoveFavorite(ctx context.Context, userID, placeID string) error
	GetFavoritesByUserID(ctx context.Context, userID string) ([]types.FavoritePlace, error)
	IsFavorite(ctx context.Context, userID, placeID string) (bool, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     database.DBTX
}

func NewRepository(db database.DBTX, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const placeColumns = `id, place_id, name, description, address, phone, opening_hours, closed_days,
	latitude, longitude, average_rating, created_at, updated_at`

func scanPlace(row pgx.Row) (*types.Place, error) {
	var p types.Place
	err := row.Scan(&p.ID, &p.PlaceID, &p.Name, &p.Description, &p.Address, &p.Phone, &p.OpeningHours,
		&p.ClosedDays, &p.Latitude, &p.Longitude, &p.AverageRating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) span(ctx context.Context, name, table string) (context.Context, trace.Span) {
	return otel.Tracer("PlaceRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", table),
	))
}

// fail records err on the span and wraps it in the persistence taxonomy.
func fail(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return fmt.Errorf("%s: %w: %w", msg, types.ErrPersistence, err)
}

// UpsertPlace inserts a place or refreshes it from a provider record.
// Null incoming values keep whatever is already stored.
func (r *RepositoryImpl) UpsertPlace(ctx context.Context, rec types.PlaceRecord) (*types.Place, error) {
	ctx, span := r.span(ctx, "UpsertPlace", "places")
	defer span.End()
	span.SetAttributes(attribute.String("place.id", rec.PlaceID))

	query := `
		INSERT INTO places (place_id, name, address, phone, opening_hours, latitude, longitude, average_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (place_id) DO UPDATE SET
			name           = EXCLUDED.name,
			address        = COALESCE(EXCLUDED.address, places.address),
			phone          = COALESCE(EXCLUDED.phone, places.phone),
			opening_hours  = COALESCE(EXCLUDED.opening_hours, places.opening_hours),
			latitude       = COALESCE(EXCLUDED.latitude, places.latitude),
			longitude      = COALESCE(EXCLUDED.longitude, places.longitude),
			average_rating = COALESCE(EXCLUDED.average_rating, places.average_rating),
			updated_at     = NOW()
		RETURNING ` + placeColumns

	start := time.Now()
	p, err := scanPlace(r.db.QueryRow(ctx, query,
		rec.PlaceID, rec.Name, rec.Address, rec.Phone, rec.OpeningHours, rec.Latitude, rec.Longitude, rec.Rating))
	database.ObserveQuery(ctx, "upsert_place", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert place", slog.String("place_id", rec.PlaceID), slog.Any("error", err))
		return nil, fail(span, "failed to upsert place", err)
	}

	span.SetStatus(codes.Ok, "place upserted")
	return p, nil
}

// EnsurePlace creates a minimal place row when none exists for placeID.
func (r *RepositoryImpl) EnsurePlace(ctx context.Context, placeID, name string) error {
	ctx, span := r.span(ctx, "EnsurePlace", "places")
	defer span.End()

	start := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO places (place_id, name) VALUES ($1, $2)
		ON CONFLICT (place_id) DO NOTHING`, placeID, name)
	database.ObserveQuery(ctx, "ensure_place", start, err)
	if err != nil {
		return fail(span, "failed to ensure place", err)
	}
	return nil
}

func (r *RepositoryImpl) GetPlaceByPlaceID(ctx context.Context, placeID string) (*types.Place, error) {
	ctx, span := r.span(ctx, "GetPlaceByPlaceID", "places")
	defer span.End()

	start := time.Now()
	p, err := scanPlace(r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE place_id = $1`, placeID))
	database.ObserveQuery(ctx, "get_place", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place %s: %w", placeID, types.ErrNotFound)
		}
		return nil, fail(span, "failed to fetch place", err)
	}
	return p, nil
}

func (r *RepositoryImpl) SearchPlacesByName(ctx context.Context, name string) ([]types.Place, error) {
	ctx, span := r.span(ctx, "SearchPlacesByName", "places")
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY average_rating DESC NULLS LAST, name
		LIMIT 50`, name)
	if err != nil {
		database.ObserveQuery(ctx, "search_places", start, err)
		return nil, fail(span, "failed to search places", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fail(span, "failed to scan place row", err)
		}
		places = append(places, *p)
	}
	err = rows.Err()
	database.ObserveQuery(ctx, "search_places", start, err)
	if err != nil {
		return nil, fail(span, "error iterating place rows", err)
	}
	return places, nil
}

// SaveActivity appends an activity. A missing place surfaces as ErrNotFound.
func (r *RepositoryImpl) SaveActivity(ctx context.Context, a types.PlaceActivity) (*types.PlaceActivity, error) {
	ctx, span := r.span(ctx, "SaveActivity", "place_activities")
	defer span.End()

	start := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO place_activities (place_id, activity_type, description, recommended_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		a.PlaceID, a.ActivityType, a.Description, a.RecommendedTime,
	).Scan(&a.ID, &a.CreatedAt)
	database.ObserveQuery(ctx, "insert_activity", start, err)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("place %s: %w", a.PlaceID, types.ErrNotFound)
		}
		return nil, fail(span, "failed to save activity", err)
	}
	return &a, nil
}

func (r *RepositoryImpl) GetActivitiesByPlaceID(ctx context.Context, placeID string) ([]types.PlaceActivity, error) {
	ctx, span := r.span(ctx, "GetActivitiesByPlaceID", "place_activities")
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, `
		SELECT id, place_id, activity_type, description, recommended_time, created_at
		FROM place_activities
		WHERE place_id = $1
		ORDER BY created_at DESC`, placeID)
	if err != nil {
		database.ObserveQuery(ctx, "list_activities", start, err)
		return nil, fail(span, "failed to list activities", err)
	}
	defer rows.Close()

	activities := []types.PlaceActivity{}
	for rows.Next() {
		var a types.PlaceActivity
		if err := rows.Scan(&a.ID, &a.PlaceID, &a.ActivityType, &a.Description, &a.RecommendedTime, &a.CreatedAt); err != nil {
			return nil, fail(span, "failed to scan activity row", err)
		}
		activities = append(activities, a)
	}
	err = rows.Err()
	database.ObserveQuery(ctx, "list_activities", start, err)
	if err != nil {
		return nil, fail(span, "error iterating activity rows", err)
	}
	return activities, nil
}

// AddFavorite creates the placeholder place (if needed) and the favorite
// in one statement. An existing (user, place) pair yields ErrConflict.
func (r *RepositoryImpl) AddFavorite(ctx context.Context, userID, placeID, placeholderName string) (uuid.UUID, error) {
	ctx, span := r.span(ctx, "AddFavorite", "favorites")
	defer span.End()
	span.SetAttributes(semconv.EnduserIDKey.String(userID), attribute.String("place.id", placeID))

	query := `
		WITH ensured_place AS (
			INSERT INTO places (place_id, name) VALUES ($2, $3)
			ON CONFLICT (place_id) DO NOTHING
		)
		INSERT INTO favorites (user_id, place_id) VALUES ($1, $2)
		ON CONFLICT (user_id, place_id) DO NOTHING
		RETURNING id`

	var id uuid.UUID
	start := time.Now()
	err := r.db.QueryRow(ctx, query, userID, placeID, placeholderName).Scan(&id)
	database.ObserveQuery(ctx, "insert_favorite", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "already a favorite")
			return uuid.Nil, fmt.Errorf("place %s is already a favorite: %w", placeID, types.ErrConflict)
		}
		return uuid.Nil, fail(span, "failed to add favorite", err)
	}

	r.logger.InfoContext(ctx, "Favorite added", slog.String("user_id", userID), slog.String("place_id", placeID))
	return id, nil
}

func (r *RepositoryImpl) RemoveFavorite(ctx context.Context, userID, placeID string) error {
	ctx, span := r.span(ctx, "RemoveFavorite", "favorites")
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND place_id = $2`, userID, placeID)
	database.ObserveQuery(ctx, "delete_favorite", start, err)
	if err != nil {
		return fail(span, "failed to remove favorite", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("favorite %s: %w", placeID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) GetFavoritesByUserID(ctx context.Context, userID string) ([]types.FavoritePlace, error) {
	ctx, span := r.span(ctx, "GetFavoritesByUserID", "favorites")
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.place_id, p.name, p.address, p.average_rating, f.created_at
		FROM favorites f
		JOIN places p ON p.place_id = f.place_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		database.ObserveQuery(ctx, "list_favorites", start, err)
		return nil, fail(span, "failed to list favorites", err)
	}
	defer rows.Close()

	favorites := []types.FavoritePlace{}
	for rows.Next() {
		var f types.FavoritePlace
		if err := rows.Scan(&f.FavoriteID, &f.PlaceID, &f.Name, &f.Address, &f.AverageRating, &f.CreatedAt); err != nil {
			return nil, fail(span, "failed to scan favorite row", err)
		}
		favorites = append(favorites, f)
	}
	err = rows.Err()
	database.ObserveQuery(ctx, "list_favorites", start, err)
	if err != nil {
		return nil, fail(span, "error iterating favorite rows", err)
	}
	return favorites, nil
}

func (r *RepositoryImpl) IsFavorite(ctx context.Context, userID, placeID string) (bool, error) {
	ctx, span := r.span(ctx, "IsFavorite", "favorites")
	defer span.End()

	var exists bool
	start := time.Now()
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND place_id = $2)`,
		userID, placeID).Scan(&exists)
	database.ObserveQuery(ctx, "is_favorite", start, err)
	if err != nil {
		return false, fail(span, "failed to check favorite", err)
	}
	return exists, nil
}

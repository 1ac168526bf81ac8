package place

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

func ptr[T any](v T) *T { return &v }

var placeCols = []string{"id", "place_id", "name", "description", "address", "phone", "opening_hours",
	"closed_days", "latitude", "longitude", "average_rating", "created_at", "updated_at"}

func setupRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil))), db
}

func TestRepositoryImpl_UpsertPlace(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	id := uuid.New()

	t.Run("null phone keeps stored phone", func(t *testing.T) {
		repo, db := setupRepo(t)
		rec := types.PlaceRecord{
			PlaceID: "ChIJ-seoul-tower",
			Name:    "N Seoul Tower",
			Address: ptr("105 Namsangongwon-gil"),
			Rating:  ptr(4.5),
		}

		db.ExpectQuery(regexp.QuoteMeta("COALESCE(EXCLUDED.phone, places.phone)")).
			WithArgs(rec.PlaceID, rec.Name, rec.Address, (*string)(nil), (*string)(nil),
				(*float64)(nil), (*float64)(nil), rec.Rating).
			WillReturnRows(pgxmock.NewRows(placeCols).AddRow(
				id, rec.PlaceID, rec.Name, (*string)(nil), rec.Address, ptr("02-3455-9277"), (*string)(nil),
				(*string)(nil), ptr(37.5512), ptr(126.9882), ptr(4.5), now, now))

		p, err := repo.UpsertPlace(ctx, rec)
		require.NoError(t, err)
		require.NotNil(t, p.Phone)
		assert.Equal(t, "02-3455-9277", *p.Phone)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, 4.5, *p.AverageRating)
		require.NoError(t, db.ExpectationsWereMet())
	})

	t.Run("database error is a persistence error", func(t *testing.T) {
		repo, db := setupRepo(t)
		db.ExpectQuery("INSERT INTO places").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.UpsertPlace(ctx, types.PlaceRecord{PlaceID: "x", Name: "y"})
		assert.ErrorIs(t, err, types.ErrPersistence)
		assert.ErrorContains(t, err, "connection refused")
		require.NoError(t, db.ExpectationsWereMet())
	})
}

func TestRepositoryImpl_GetPlaceByPlaceID(t *testing.T) {
	repo, db := setupRepo(t)
	db.ExpectQuery(regexp.QuoteMeta("FROM places WHERE place_id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPlaceByPlaceID(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, db.ExpectationsWereMet())
}

func TestRepositoryImpl_SearchPlacesByName(t *testing.T) {
	repo, db := setupRepo(t)
	now := time.Now()
	db.ExpectQuery(regexp.QuoteMeta("WHERE name ILIKE '%' || $1 || '%'")).
		WithArgs("tower").
		WillReturnRows(pgxmock.NewRows(placeCols).
			AddRow(uuid.New(), "p1", "N Seoul Tower", (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), (*float64)(nil), (*float64)(nil), ptr(4.4), now, now).
			AddRow(uuid.New(), "p2", "Lotte World Tower", (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil), now, now))

	places, err := repo.SearchPlacesByName(context.Background(), "tower")
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "N Seoul Tower", places[0].Name)
	assert.Nil(t, places[1].AverageRating)
}

func TestRepositoryImpl_AddFavorite(t *testing.T) {
	ctx := context.Background()
	favID := uuid.New()
	repo, db := setupRepo(t)

	query := regexp.QuoteMeta("WITH ensured_place AS (")

	db.ExpectQuery(query).
		WithArgs("uid-1", "ChIJnew-place", "Temporary place ChIJnew-").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(favID))
	db.ExpectQuery(query).
		WithArgs("uid-1", "ChIJnew-place", "Temporary place ChIJnew-").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	got, err := repo.AddFavorite(ctx, "uid-1", "ChIJnew-place", PlaceholderName("ChIJnew-place"))
	require.NoError(t, err)
	assert.Equal(t, favID, got)

	_, err = repo.AddFavorite(ctx, "uid-1", "ChIJnew-place", PlaceholderName("ChIJnew-place"))
	assert.ErrorIs(t, err, types.ErrConflict)
	require.NoError(t, db.ExpectationsWereMet())
}

func TestRepositoryImpl_RemoveFavorite(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepo(t)

	db.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
		WithArgs("uid-1", "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	db.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
		WithArgs("uid-1", "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.RemoveFavorite(ctx, "uid-1", "p1"))
	assert.ErrorIs(t, repo.RemoveFavorite(ctx, "uid-1", "p1"), types.ErrNotFound)
	require.NoError(t, db.ExpectationsWereMet())
}

func TestRepositoryImpl_GetFavoritesByUserID(t *testing.T) {
	repo, db := setupRepo(t)
	now := time.Now()
	db.ExpectQuery(regexp.QuoteMeta("JOIN places p ON p.place_id = f.place_id")).
		WithArgs("uid-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "place_id", "name", "address", "average_rating", "created_at"}).
			AddRow(uuid.New(), "p1", "Gyeongbokgung", ptr("Jongno-gu"), ptr(4.7), now))

	favs, err := repo.GetFavoritesByUserID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Gyeongbokgung", favs[0].Name)
}

func TestRepositoryImpl_IsFavorite(t *testing.T) {
	repo, db := setupRepo(t)
	db.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("uid-1", "p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsFavorite(context.Background(), "uid-1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepositoryImpl_SaveActivity(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("inserted", func(t *testing.T) {
		repo, db := setupRepo(t)
		id := uuid.New()
		db.ExpectQuery(regexp.QuoteMeta("INSERT INTO place_activities")).
			WithArgs("p1", "night view", (*string)(nil), ptr("evening")).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

		a, err := repo.SaveActivity(ctx, types.PlaceActivity{PlaceID: "p1", ActivityType: "night view", RecommendedTime: ptr("evening")})
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, "p1", a.PlaceID)
	})

	t.Run("unknown place", func(t *testing.T) {
		repo, db := setupRepo(t)
		db.ExpectQuery(regexp.QuoteMeta("INSERT INTO place_activities")).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.SaveActivity(ctx, types.PlaceActivity{PlaceID: "nope", ActivityType: "hiking"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NotErrorIs(t, err, types.ErrPersistence)
		require.NoError(t, db.ExpectationsWereMet())
	})
}

func TestRepositoryImpl_GetActivitiesByPlaceID(t *testing.T) {
	repo, db := setupRepo(t)
	db.ExpectQuery(regexp.QuoteMeta("FROM place_activities")).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "place_id", "activity_type", "description", "recommended_time", "created_at"}))

	acts, err := repo.GetActivitiesByPlaceID(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, acts)
	assert.Empty(t, acts)
}

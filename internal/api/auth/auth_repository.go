package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-travel-recommendations/app/db"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

var _ MemberRepository = (*MemberRepositoryImpl)(nil)

type MemberRepository interface {
	UpsertMember(ctx context.Context, uid, email string) (*types.Member, error)
}

type MemberRepositoryImpl struct {
	logger *slog.Logger
	db     database.DBTX
}

func NewMemberRepository(db database.DBTX, logger *slog.Logger) *MemberRepositoryImpl {
	return &MemberRepositoryImpl{logger: logger, db: db}
}

// UpsertMember records the identity's uid on first sight and keeps the
// stored email in sync. An empty email never clears a stored one.
func (r *MemberRepositoryImpl) UpsertMember(ctx context.Context, uid, email string) (*types.Member, error) {
	ctx, span := otel.Tracer("MemberRepository").Start(ctx, "UpsertMember", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		semconv.EnduserIDKey.String(uid),
	))
	defer span.End()

	query := `
		INSERT INTO members (firebase_uid, email) VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (firebase_uid) DO UPDATE SET
			email      = COALESCE(EXCLUDED.email, members.email),
			updated_at = NOW()
		RETURNING firebase_uid, COALESCE(email, ''), created_at, updated_at`

	var m types.Member
	start := time.Now()
	err := r.db.QueryRow(ctx, query, uid, email).Scan(&m.UID, &m.Email, &m.CreatedAt, &m.UpdatedAt)
	database.ObserveQuery(ctx, "upsert_member", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "member upsert failed")
		r.logger.ErrorContext(ctx, "Failed to upsert member", slog.String("uid", uid), slog.Any("error", err))
		return nil, fmt.Errorf("failed to upsert member: %w: %w", types.ErrPersistence, err)
	}
	return &m, nil
}

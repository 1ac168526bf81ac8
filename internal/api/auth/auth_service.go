package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

type ProfileService interface {
	GetProfile(ctx context.Context, identity *types.Identity) (*types.Member, error)
}

type ProfileServiceImpl struct {
	logger *slog.Logger
	repo   MemberRepository
}

var _ ProfileService = (*ProfileServiceImpl)(nil)

func NewProfileService(repo MemberRepository, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{logger: logger, repo: repo}
}

// GetProfile returns the member behind identity, registering it on first use.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, identity *types.Identity) (*types.Member, error) {
	if identity == nil || identity.UID == "" {
		return nil, types.ErrMissingToken
	}
	member, err := s.repo.UpsertMember(ctx, identity.UID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	s.logger.DebugContext(ctx, "Profile loaded", slog.String("uid", member.UID))
	return member, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
	repo "volunteerHub/internal/repository"
)

// AuthService resolves bearer tokens to callers.
type AuthService struct {
	volunteers VolunteerRepository
	tokens     TokenIssuer
}

func NewAuthService(volunteers VolunteerRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		volunteers: volunteers,
		tokens:     tokens,
	}
}

// Authorize verifies the token and loads the caller. With elevated set, only
// Domain Heads and Super Admins pass; an unknown identity is then reported as
// forbidden rather than not found.
func (s *AuthService) Authorize(ctx context.Context, token string, elevated bool) (volunteer.Caller, error) {
	if token == "" {
		return volunteer.Caller{}, NewUnauthenticated("missing bearer token", nil)
	}

	subject, err := s.tokens.Verify(token)
	if err != nil {
		logger.Warn("Service: token rejected", zap.Error(err))
		return volunteer.Caller{}, NewUnauthenticated("invalid token", err)
	}

	v, err := s.volunteers.GetVolunteerByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Service: token subject not found", zap.String("volunteer_id", subject.String()))
			if elevated {
				return volunteer.Caller{}, NewForbidden("access denied")
			}
			return volunteer.Caller{}, NewNotFound(ResourceVolunteer, subject.String())
		}
		return volunteer.Caller{}, fmt.Errorf("load caller: %w", err)
	}

	if elevated && !v.Role.IsElevated() {
		logger.Warn("Service: insufficient role",
			zap.String("volunteer_id", v.UUID.String()),
			zap.String("role", string(v.Role)))
		return volunteer.Caller{}, NewForbidden("access denied")
	}

	return v.Caller(), nil
}

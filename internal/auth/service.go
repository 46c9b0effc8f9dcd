package auth

import (
	"context"
	"fmt"
	"log/slog"
)

type UserRepository interface {
	// GetUserByID returns nil, nil when no user has that id.
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

// Service resolves demo bearer tokens to users
type Service struct {
	userRepo UserRepository
	secret   string
	logger   *slog.Logger
}

func NewService(userRepo UserRepository, secret string, logger *slog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		secret:   secret,
		logger:   logger,
	}
}

// Authenticate fails only for malformed tokens or a wrong secret. A user id that does
// not resolve still authenticates, as the anonymous user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	rawID, err := ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	id, ok := parseUserID(rawID)
	if !ok {
		s.logger.Warn("token names a non-numeric user id, continuing as anonymous", "user_id", rawID)
		return AnonymousUser(), nil
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", id, err)
	}
	if user == nil {
		s.logger.Info("token user not found, continuing as anonymous", "user_id", id)
		return AnonymousUser(), nil
	}

	return user, nil
}

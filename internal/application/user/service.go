package user

import (
	"context"

	"github.com/hd-auth-api/internal/domain"
)

// Store is the read side of the credential store this service needs.
type Store interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	users Store
}

func NewService(users Store) Service {
	return &service{users: users}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

package services

import (
	"context"
	"fmt"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/pkg/pagination"
)

// UserService handles user administration
type UserService struct {
	store repositories.Store
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store}
}

// ListUsers lists users with their roles, newest first
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) (*pagination.Response, error) {
	users, total, err := s.store.Users().List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}

	return pagination.NewResponse(out, params, total), nil
}

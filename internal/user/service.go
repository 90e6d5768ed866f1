package user

import (
	"context"
	"fmt"

	"records-service/internal/integrity"
)

type Service interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetAllUsers(ctx context.Context, role string, limit, offset int) ([]User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	UpdateUser(ctx context.Context, id int, patch Update) (*User, error)
	DeleteUser(ctx context.Context, id int) (int64, error)
}

type service struct {
	repo    Repository
	cascade *integrity.Cascade
}

func NewService(repo Repository, cascade *integrity.Cascade) Service {
	return &service{
		repo:    repo,
		cascade: cascade,
	}
}

func (s *service) CreateUser(ctx context.Context, user *User) (*User, error) {
	return s.repo.Create(ctx, user)
}

func (s *service) GetAllUsers(ctx context.Context, role string, limit, offset int) ([]User, error) {
	return s.repo.GetAll(ctx, role, limit, offset)
}

func (s *service) GetUserByID(ctx context.Context, id int) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id int, patch Update) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteUser removes the user and all rows referencing them, except that a
// user with authored announcements is refused (integrity.ErrReferentialBlock).
// Returns the number of rows removed including the cascade set.
func (s *service) DeleteUser(ctx context.Context, id int) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("user %d: %w", id, integrity.ErrNotFound)
	}
	return s.cascade.DeleteUser(ctx, id)
}

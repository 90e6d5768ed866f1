package class

import (
	"context"
	"fmt"

	"records-service/internal/integrity"
)

type Service interface {
	CreateClass(ctx context.Context, class *Class) (*Class, error)
	GetAllClasses(ctx context.Context, limit, offset int) ([]Class, error)
	GetClassByID(ctx context.Context, id int) (*Class, error)
	UpdateClass(ctx context.Context, id int, patch Update) (*Class, error)
	DeleteClass(ctx context.Context, id int) (int64, error)
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

func (s *service) CreateClass(ctx context.Context, class *Class) (*Class, error) {
	return s.repo.Create(ctx, class)
}

func (s *service) GetAllClasses(ctx context.Context, limit, offset int) ([]Class, error) {
	return s.repo.GetAll(ctx, limit, offset)
}

func (s *service) GetClassByID(ctx context.Context, id int) (*Class, error) {
	if id <= 0 {
		return nil, fmt.Errorf("class %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateClass(ctx context.Context, id int, patch Update) (*Class, error) {
	if id <= 0 {
		return nil, fmt.Errorf("class %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteClass removes the class with its assignments, their submissions and
// attachments, roster rows and announcements, in one transaction. Returns the
// number of rows removed including the cascade set.
func (s *service) DeleteClass(ctx context.Context, id int) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("class %d: %w", id, integrity.ErrNotFound)
	}
	return s.cascade.DeleteClass(ctx, id)
}

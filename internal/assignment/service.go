package assignment

import (
	"context"
	"fmt"

	"records-service/internal/integrity"
)

// ClassChecker verifies the owning class exists before an assignment is
// created under it.
type ClassChecker interface {
	ClassExists(ctx context.Context, classID int) (bool, error)
}

type Service interface {
	CreateAssignment(ctx context.Context, assignment *Assignment) (*Assignment, error)
	GetAllAssignments(ctx context.Context, classID, limit, offset int) ([]Assignment, error)
	GetAssignmentByID(ctx context.Context, id int) (*Assignment, error)
	UpdateAssignment(ctx context.Context, id int, patch Update) (*Assignment, error)
	DeleteAssignment(ctx context.Context, id int) (int64, error)
}

type service struct {
	repo    Repository
	classes ClassChecker
	cascade *integrity.Cascade
}

func NewService(repo Repository, classes ClassChecker, cascade *integrity.Cascade) Service {
	return &service{
		repo:    repo,
		classes: classes,
		cascade: cascade,
	}
}

func (s *service) CreateAssignment(ctx context.Context, assignment *Assignment) (*Assignment, error) {
	ok, err := s.classes.ClassExists(ctx, assignment.ClassID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("class %d: %w", assignment.ClassID, integrity.ErrNotFound)
	}
	return s.repo.Create(ctx, assignment)
}

func (s *service) GetAllAssignments(ctx context.Context, classID, limit, offset int) ([]Assignment, error) {
	return s.repo.GetAll(ctx, classID, limit, offset)
}

func (s *service) GetAssignmentByID(ctx context.Context, id int) (*Assignment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("assignment %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateAssignment(ctx context.Context, id int, patch Update) (*Assignment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("assignment %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteAssignment removes the assignment with its submissions and their
// attachments in one transaction, returning the number of rows removed.
func (s *service) DeleteAssignment(ctx context.Context, id int) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("assignment %d: %w", id, integrity.ErrNotFound)
	}
	return s.cascade.DeleteAssignment(ctx, id)
}

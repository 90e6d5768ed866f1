package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"records-service/internal/integrity"
	"records-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, assignment *Assignment) (*Assignment, error)
	GetAll(ctx context.Context, classID, limit, offset int) ([]Assignment, error)
	GetByID(ctx context.Context, id int) (*Assignment, error)
	Update(ctx context.Context, id int, patch Update) (*Assignment, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, assignment *Assignment) (*Assignment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(assignment).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "assignments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) GetAll(ctx context.Context, classID, limit, offset int) ([]Assignment, error) {
	start := time.Now()
	var assignments []Assignment
	q := r.db.NewSelect().Model(&assignments).Order("due_at ASC", "id ASC").Limit(limit).Offset(offset)
	if classID > 0 {
		q = q.Where("class_id = ?", classID)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "assignments", time.Since(start), err)

	return assignments, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Assignment, error) {
	start := time.Now()
	assignment := new(Assignment)
	err := r.db.NewSelect().Model(assignment).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "assignments", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment %d: %w", id, integrity.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

func (r *repository) Update(ctx context.Context, id int, patch Update) (*Assignment, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	q := r.db.NewUpdate().Model((*Assignment)(nil)).Where("id = ?", id)
	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	if patch.DueAt != nil {
		q = q.Set("due_at = ?", *patch.DueAt)
	}
	result, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "assignments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("assignment %d: %w", id, integrity.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

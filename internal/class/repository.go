package class

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
	Create(ctx context.Context, class *Class) (*Class, error)
	GetAll(ctx context.Context, limit, offset int) ([]Class, error)
	GetByID(ctx context.Context, id int) (*Class, error)
	Update(ctx context.Context, id int, patch Update) (*Class, error)
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

func (r *repository) Create(ctx context.Context, class *Class) (*Class, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(class).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "classes", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("class code %q: %w", class.Code, integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	return class, nil
}

func (r *repository) GetAll(ctx context.Context, limit, offset int) ([]Class, error) {
	start := time.Now()
	var classes []Class
	err := r.db.NewSelect().Model(&classes).Order("id ASC").Limit(limit).Offset(offset).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "classes", time.Since(start), err)

	return classes, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Class, error) {
	start := time.Now()
	class := new(Class)
	err := r.db.NewSelect().Model(class).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "classes", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("class %d: %w", id, integrity.ErrNotFound)
		}
		return nil, err
	}
	return class, nil
}

func (r *repository) Update(ctx context.Context, id int, patch Update) (*Class, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	q := r.db.NewUpdate().Model((*Class)(nil)).Where("id = ?", id)
	if patch.Code != nil {
		q = q.Set("code = ?", *patch.Code)
	}
	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	result, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "classes", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("class code already in use: %w", integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("class %d: %w", id, integrity.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

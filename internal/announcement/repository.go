package announcement

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
	Create(ctx context.Context, a *Announcement) (*Announcement, error)
	GetAll(ctx context.Context, classID, limit, offset int) ([]Announcement, error)
	GetByID(ctx context.Context, id int) (*Announcement, error)
	Delete(ctx context.Context, id int) error
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

func (r *repository) Create(ctx context.Context, a *Announcement) (*Announcement, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(a).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "announcements", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) GetAll(ctx context.Context, classID, limit, offset int) ([]Announcement, error) {
	start := time.Now()
	var rows []Announcement
	q := r.db.NewSelect().Model(&rows).Order("posted_at DESC", "id DESC").Limit(limit).Offset(offset)
	if classID > 0 {
		q = q.Where("class_id = ?", classID)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "announcements", time.Since(start), err)

	return rows, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Announcement, error) {
	start := time.Now()
	a := new(Announcement)
	err := r.db.NewSelect().Model(a).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "announcements", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("announcement %d: %w", id, integrity.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Announcement)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "announcements", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("announcement %d: %w", id, integrity.ErrNotFound)
	}
	return nil
}

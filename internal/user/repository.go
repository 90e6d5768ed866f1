package user

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
	Create(ctx context.Context, user *User) (*User, error)
	GetAll(ctx context.Context, role string, limit, offset int) ([]User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Update(ctx context.Context, id int, patch Update) (*User, error)
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

func (r *repository) Create(ctx context.Context, user *User) (*User, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", user.Email, integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) GetAll(ctx context.Context, role string, limit, offset int) ([]User, error) {
	start := time.Now()
	var users []User
	q := r.db.NewSelect().Model(&users).Order("id ASC").Limit(limit).Offset(offset)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	return users, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	start := time.Now()
	user := new(User)
	err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, integrity.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) Update(ctx context.Context, id int, patch Update) (*User, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	q := r.db.NewUpdate().Model((*User)(nil)).Where("id = ?", id)
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.FullName != nil {
		q = q.Set("full_name = ?", *patch.FullName)
	}
	if patch.Role != nil {
		q = q.Set("role = ?", *patch.Role)
	}
	result, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "users", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email already in use: %w", integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("user %d: %w", id, integrity.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

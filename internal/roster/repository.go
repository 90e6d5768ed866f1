package roster

import (
	"context"
	"fmt"
	"time"

	"records-service/internal/integrity"
	"records-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	CreateTeacherClass(ctx context.Context, tc *TeacherClass) (*TeacherClass, error)
	ListTeacherClasses(ctx context.Context, teacherID, classID, limit, offset int) ([]TeacherClass, error)
	DeleteTeacherClass(ctx context.Context, teacherID, classID int) error

	CreateEnrollment(ctx context.Context, e *Enrollment) (*Enrollment, error)
	ListEnrollments(ctx context.Context, userID, classID, limit, offset int) ([]Enrollment, error)
	DeleteEnrollment(ctx context.Context, userID, classID int) error
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

func (r *repository) CreateTeacherClass(ctx context.Context, tc *TeacherClass) (*TeacherClass, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(tc).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "teacher_classes", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("teacher %d already assigned to class %d: %w",
				tc.TeacherID, tc.ClassID, integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	return tc, nil
}

func (r *repository) ListTeacherClasses(ctx context.Context, teacherID, classID, limit, offset int) ([]TeacherClass, error) {
	start := time.Now()
	var rows []TeacherClass
	q := r.db.NewSelect().Model(&rows).Order("teacher_id ASC", "class_id ASC").Limit(limit).Offset(offset)
	if teacherID > 0 {
		q = q.Where("teacher_id = ?", teacherID)
	}
	if classID > 0 {
		q = q.Where("class_id = ?", classID)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "teacher_classes", time.Since(start), err)

	return rows, err
}

func (r *repository) DeleteTeacherClass(ctx context.Context, teacherID, classID int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*TeacherClass)(nil)).
		Where("teacher_id = ? AND class_id = ?", teacherID, classID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "teacher_classes", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("teacher %d / class %d: %w", teacherID, classID, integrity.ErrNotFound)
	}
	return nil
}

func (r *repository) CreateEnrollment(ctx context.Context, e *Enrollment) (*Enrollment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(e).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "enrollments", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %d already enrolled in class %d: %w",
				e.UserID, e.ClassID, integrity.ErrDuplicateKey)
		}
		return nil, err
	}
	return e, nil
}

func (r *repository) ListEnrollments(ctx context.Context, userID, classID, limit, offset int) ([]Enrollment, error) {
	start := time.Now()
	var rows []Enrollment
	q := r.db.NewSelect().Model(&rows).Order("class_id ASC", "user_id ASC").Limit(limit).Offset(offset)
	if userID > 0 {
		q = q.Where("user_id = ?", userID)
	}
	if classID > 0 {
		q = q.Where("class_id = ?", classID)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "enrollments", time.Since(start), err)

	return rows, err
}

func (r *repository) DeleteEnrollment(ctx context.Context, userID, classID int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Enrollment)(nil)).
		Where("user_id = ? AND class_id = ?", userID, classID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "enrollments", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d / class %d: %w", userID, classID, integrity.ErrNotFound)
	}
	return nil
}

package submission

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
	// MaxAttempt returns the highest attempt_number recorded for the pair,
	// 0 when the pair has no submissions yet.
	MaxAttempt(ctx context.Context, assignmentID, studentID int) (int, error)
	// Insert persists the submission. A clash on the attempt-number triple is
	// returned as integrity.ErrDuplicateKey so the sequencer can retry.
	Insert(ctx context.Context, sub *Submission) error
	GetAll(ctx context.Context, assignmentID, studentID, limit, offset int) ([]Submission, error)
	GetByID(ctx context.Context, id int) (*Submission, error)
	Update(ctx context.Context, id int, patch Update) (*Submission, error)

	AddAttachment(ctx context.Context, att *Attachment) (*Attachment, error)
	ListAttachments(ctx context.Context, submissionID int) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, submissionID, attachmentID int) error
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

func (r *repository) MaxAttempt(ctx context.Context, assignmentID, studentID int) (int, error) {
	start := time.Now()
	var max int
	err := r.db.NewSelect().
		Model((*Submission)(nil)).
		ColumnExpr("COALESCE(MAX(attempt_number), 0)").
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Scan(ctx, &max)

	r.metrics.Database.RecordQuery(ctx, "select", "submissions", time.Since(start), err)

	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *repository) Insert(ctx context.Context, sub *Submission) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(sub).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "submissions", time.Since(start), err)

	if err != nil {
		if integrity.IsUniqueViolation(err) {
			return fmt.Errorf("attempt %d for assignment %d / student %d: %w",
				sub.AttemptNumber, sub.AssignmentID, sub.StudentID, integrity.ErrDuplicateKey)
		}
		return err
	}
	return nil
}

func (r *repository) GetAll(ctx context.Context, assignmentID, studentID, limit, offset int) ([]Submission, error) {
	start := time.Now()
	var subs []Submission
	q := r.db.NewSelect().Model(&subs).
		Order("assignment_id ASC", "student_id ASC", "attempt_number ASC").
		Limit(limit).Offset(offset)
	if assignmentID > 0 {
		q = q.Where("assignment_id = ?", assignmentID)
	}
	if studentID > 0 {
		q = q.Where("student_id = ?", studentID)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "submissions", time.Since(start), err)

	return subs, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Submission, error) {
	start := time.Now()
	sub := new(Submission)
	err := r.db.NewSelect().Model(sub).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "submissions", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %d: %w", id, integrity.ErrNotFound)
		}
		return nil, err
	}
	return sub, nil
}

func (r *repository) Update(ctx context.Context, id int, patch Update) (*Submission, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	q := r.db.NewUpdate().Model((*Submission)(nil)).Where("id = ?", id)
	if patch.Grade != nil {
		q = q.Set("grade = ?", *patch.Grade)
	}
	if patch.Feedback != nil {
		q = q.Set("feedback = ?", *patch.Feedback)
	}
	result, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "submissions", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("submission %d: %w", id, integrity.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *repository) AddAttachment(ctx context.Context, att *Attachment) (*Attachment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(att).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "submission_attachments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return att, nil
}

func (r *repository) ListAttachments(ctx context.Context, submissionID int) ([]Attachment, error) {
	start := time.Now()
	var atts []Attachment
	err := r.db.NewSelect().Model(&atts).
		Where("submission_id = ?", submissionID).
		Order("id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "submission_attachments", time.Since(start), err)

	return atts, err
}

func (r *repository) DeleteAttachment(ctx context.Context, submissionID, attachmentID int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Attachment)(nil)).
		Where("id = ? AND submission_id = ?", attachmentID, submissionID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "submission_attachments", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("attachment %d on submission %d: %w", attachmentID, submissionID, integrity.ErrNotFound)
	}
	return nil
}

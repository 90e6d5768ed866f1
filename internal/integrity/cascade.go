package integrity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"records-service/internal/metrics"
)

// Cascade removes a parent row together with everything that references it,
// inside one transaction. Partial application is not possible: either the
// whole cascade set commits with the trigger row, or nothing does. The store
// schema carries matching ON DELETE clauses as a backstop for writers that
// bypass this path.
type Cascade struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewCascade(db *bun.DB, m *metrics.Metrics) *Cascade {
	return &Cascade{db: db, metrics: m}
}

// DeleteUser removes a user and their teacher assignments, enrollments,
// submissions and submission attachments. A user who has authored
// announcements is refused with ErrReferentialBlock; authorship history is
// preserved until the announcements themselves are removed.
func (c *Cascade) DeleteUser(ctx context.Context, userID int) (int64, error) {
	var total int64
	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		authored, err := tx.NewSelect().
			Table("announcements").
			Where("author_id = ?", userID).
			Count(ctx)
		if err != nil {
			return err
		}
		if authored > 0 {
			return fmt.Errorf("user %d has %d authored announcements: %w", userID, authored, ErrReferentialBlock)
		}

		steps := []struct {
			table string
			where string
		}{
			{"submission_attachments", "submission_id IN (SELECT id FROM submissions WHERE student_id = ?)"},
			{"submissions", "student_id = ?"},
			{"enrollments", "user_id = ?"},
			{"teacher_classes", "teacher_id = ?"},
		}
		for _, step := range steps {
			n, err := deleteWhere(ctx, tx, step.table, step.where, userID)
			if err != nil {
				return err
			}
			total += n
		}

		n, err := deleteWhere(ctx, tx, "users", "id = ?", userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.metrics.RecordCascade(ctx, "user", total)
	return total, nil
}

// DeleteClass removes a class with its assignments, their submissions and
// attachments, its roster rows and its announcements.
func (c *Cascade) DeleteClass(ctx context.Context, classID int) (int64, error) {
	var total int64
	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		steps := []struct {
			table string
			where string
		}{
			{"submission_attachments", "submission_id IN (SELECT s.id FROM submissions s JOIN assignments a ON a.id = s.assignment_id WHERE a.class_id = ?)"},
			{"submissions", "assignment_id IN (SELECT id FROM assignments WHERE class_id = ?)"},
			{"assignments", "class_id = ?"},
			{"enrollments", "class_id = ?"},
			{"teacher_classes", "class_id = ?"},
			{"announcements", "class_id = ?"},
		}
		for _, step := range steps {
			n, err := deleteWhere(ctx, tx, step.table, step.where, classID)
			if err != nil {
				return err
			}
			total += n
		}

		n, err := deleteWhere(ctx, tx, "classes", "id = ?", classID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("class %d: %w", classID, ErrNotFound)
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.metrics.RecordCascade(ctx, "class", total)
	return total, nil
}

// DeleteAssignment removes an assignment with its submissions and their
// attachments.
func (c *Cascade) DeleteAssignment(ctx context.Context, assignmentID int) (int64, error) {
	var total int64
	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		n, err := deleteWhere(ctx, tx, "submission_attachments",
			"submission_id IN (SELECT id FROM submissions WHERE assignment_id = ?)", assignmentID)
		if err != nil {
			return err
		}
		total += n

		n, err = deleteWhere(ctx, tx, "submissions", "assignment_id = ?", assignmentID)
		if err != nil {
			return err
		}
		total += n

		n, err = deleteWhere(ctx, tx, "assignments", "id = ?", assignmentID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.metrics.RecordCascade(ctx, "assignment", total)
	return total, nil
}

// DeleteSubmission removes a submission with its attachments.
func (c *Cascade) DeleteSubmission(ctx context.Context, submissionID int) (int64, error) {
	var total int64
	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		n, err := deleteWhere(ctx, tx, "submission_attachments", "submission_id = ?", submissionID)
		if err != nil {
			return err
		}
		total += n

		n, err = deleteWhere(ctx, tx, "submissions", "id = ?", submissionID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.metrics.RecordCascade(ctx, "submission", total)
	return total, nil
}

func deleteWhere(ctx context.Context, tx bun.Tx, table, where string, arg int) (int64, error) {
	res, err := tx.NewDelete().
		Table(table).
		Where(where, arg).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

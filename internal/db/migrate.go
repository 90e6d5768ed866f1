package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
)

// Table constraints here are the storage-layer backstop: a writer that
// bypasses the constraint engine still cannot break column enums, uniqueness
// or foreign-key existence. Role and prerequisite rules live in the engine
// only. ON DELETE clauses mirror the explicit cascade transactions;
// announcements.author_id is the one RESTRICT.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		full_name   TEXT NOT NULL,
		role        TEXT NOT NULL CHECK (role IN ('teacher','student','admin')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id          BIGSERIAL PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL,
		description TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_classes (
		teacher_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		class_id    BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		PRIMARY KEY (teacher_id, class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		class_id    BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id          BIGSERIAL PRIMARY KEY,
		class_id    BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT,
		due_at      TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id             BIGSERIAL PRIMARY KEY,
		assignment_id  BIGINT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		student_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		attempt_number INTEGER NOT NULL DEFAULT 1,
		submitted_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		grade          DOUBLE PRECISION,
		feedback       TEXT,
		UNIQUE (assignment_id, student_id, attempt_number)
	)`,
	`CREATE TABLE IF NOT EXISTS submission_attachments (
		id            BIGSERIAL PRIMARY KEY,
		submission_id BIGINT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		kind          TEXT NOT NULL CHECK (kind IN ('url','file')),
		value         TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS announcements (
		id         BIGSERIAL PRIMARY KEY,
		class_id   BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL,
		posted_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teacher_classes_class ON teacher_classes (class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_class ON enrollments (class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_class ON assignments (class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_assignment ON submissions (assignment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions (student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_submission ON submission_attachments (submission_id)`,
	`CREATE INDEX IF NOT EXISTS idx_announcements_class ON announcements (class_id)`,
}

func RunMigrations(ctx context.Context, db *bun.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	slog.Info("database migrations completed successfully")
	return nil
}

package submission_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"records-service/internal/integrity"
	"records-service/internal/metrics"
	"records-service/internal/submission"
	"records-service/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var rosterTables = []string{
	"submission_attachments", "submissions", "assignments",
	"enrollments", "teacher_classes", "classes", "users",
}

// seedAssignment creates a class, an enrolled student and one assignment,
// returning (assignmentID, studentID).
func seedAssignment(t *testing.T, db *bun.DB) (int, int) {
	t.Helper()
	ctx := context.Background()

	var studentID, classID, assignmentID int
	err := db.QueryRowContext(ctx,
		"INSERT INTO users (email, full_name, role) VALUES ('student@school.test', 'Stu Dent', 'student') RETURNING id").Scan(&studentID)
	require.NoError(t, err)
	err = db.QueryRowContext(ctx,
		"INSERT INTO classes (code, title) VALUES ('PHY-201', 'Mechanics') RETURNING id").Scan(&classID)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO enrollments (user_id, class_id) VALUES (?, ?)", studentID, classID)
	require.NoError(t, err)
	err = db.QueryRowContext(ctx,
		"INSERT INTO assignments (class_id, title, due_at) VALUES (?, 'Lab report', now() + interval '3 days') RETURNING id", classID).Scan(&assignmentID)
	require.NoError(t, err)

	return assignmentID, studentID
}

func TestSubmissionRepository_Shared(t *testing.T) {
	// Cleanup runs in TestSubmissionLifecycle, the last container test in
	// this package.
	pgContainer := testdb.SetupSharedPostgres(t)

	pgContainer.RunMigrations(t)

	repo := submission.NewRepository(pgContainer.DB, metrics.NewMock())
	ctx := context.Background()

	t.Run("MaxAttempt_EmptyPairIsZero", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, rosterTables...)
		assignmentID, studentID := seedAssignment(t, pgContainer.DB)

		max, err := repo.MaxAttempt(ctx, assignmentID, studentID)
		require.NoError(t, err)
		assert.Zero(t, max)
	})

	t.Run("Insert_DuplicateAttemptNumber", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, rosterTables...)
		assignmentID, studentID := seedAssignment(t, pgContainer.DB)

		first := &submission.Submission{AssignmentID: assignmentID, StudentID: studentID, AttemptNumber: 1}
		require.NoError(t, repo.Insert(ctx, first))

		clash := &submission.Submission{AssignmentID: assignmentID, StudentID: studentID, AttemptNumber: 1}
		err := repo.Insert(ctx, clash)
		assert.ErrorIs(t, err, integrity.ErrDuplicateKey)

		max, err := repo.MaxAttempt(ctx, assignmentID, studentID)
		require.NoError(t, err)
		assert.Equal(t, 1, max)
	})

	t.Run("Attachments", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, rosterTables...)
		assignmentID, studentID := seedAssignment(t, pgContainer.DB)

		sub := &submission.Submission{AssignmentID: assignmentID, StudentID: studentID, AttemptNumber: 1}
		require.NoError(t, repo.Insert(ctx, sub))

		att, err := repo.AddAttachment(ctx, &submission.Attachment{
			SubmissionID: sub.ID,
			Kind:         "url",
			Value:        "https://work.test/report.pdf",
		})
		require.NoError(t, err)
		assert.NotZero(t, att.ID)

		listed, err := repo.ListAttachments(ctx, sub.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "url", listed[0].Kind)
	})

	t.Run("DeleteAttachment", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, rosterTables...)
		assignmentID, studentID := seedAssignment(t, pgContainer.DB)

		sub := &submission.Submission{AssignmentID: assignmentID, StudentID: studentID, AttemptNumber: 1}
		require.NoError(t, repo.Insert(ctx, sub))

		att, err := repo.AddAttachment(ctx, &submission.Attachment{
			SubmissionID: sub.ID,
			Kind:         "file",
			Value:        "/uploads/report.pdf",
		})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteAttachment(ctx, sub.ID, att.ID))

		listed, err := repo.ListAttachments(ctx, sub.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)

		// Already gone, and the submission itself is untouched.
		err = repo.DeleteAttachment(ctx, sub.ID, att.ID)
		assert.ErrorIs(t, err, integrity.ErrNotFound)

		_, err = repo.GetByID(ctx, sub.ID)
		assert.NoError(t, err)
	})
}

// TestSubmissionLifecycle drives the service end to end against the store:
// repeated submissions by one student take attempt numbers 1 and 2, and
// grading the second flips it from pending to graded.
func TestSubmissionLifecycle(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)
	testdb.CleanupTables(t, pgContainer.DB, rosterTables...)

	assignmentID, studentID := seedAssignment(t, pgContainer.DB)

	repo := submission.NewRepository(pgContainer.DB, metrics.NewMock())
	engine := integrity.NewEngine(integrity.NewStoreView(pgContainer.DB))
	cascade := integrity.NewCascade(pgContainer.DB, metrics.NewMock())
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := submission.NewService(repo, engine, cascade, nil, metrics.NewMock(), logger, 5)

	ctx := context.Background()

	first, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: assignmentID, StudentID: studentID})
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.False(t, first.Graded())

	second, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: assignmentID, StudentID: studentID})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)

	grade := 90.0
	graded, err := svc.UpdateSubmission(ctx, second.ID, submission.Update{Grade: &grade})
	require.NoError(t, err)
	assert.True(t, graded.Graded())
	assert.Equal(t, 90.0, *graded.Grade)

	// The first attempt keeps its own state.
	still, err := svc.GetSubmissionByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, still.Graded())

	// An outsider who is not enrolled cannot submit.
	var outsiderID int
	err = pgContainer.DB.QueryRowContext(ctx,
		"INSERT INTO users (email, full_name, role) VALUES ('outsider@school.test', 'Out Sider', 'student') RETURNING id").Scan(&outsiderID)
	require.NoError(t, err)

	_, err = svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: assignmentID, StudentID: outsiderID})
	assert.ErrorIs(t, err, integrity.ErrPrerequisiteViolation)
}

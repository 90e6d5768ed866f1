package submission_test

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"

	"records-service/internal/integrity"
	"records-service/internal/metrics"
	"records-service/internal/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAll struct{}

func (allowAll) ValidateSubmissionEligibility(context.Context, int, int) error { return nil }

type denyAll struct{}

func (denyAll) ValidateSubmissionEligibility(context.Context, int, int) error {
	return integrity.ErrPrerequisiteViolation
}

type pairKey struct {
	assignmentID int
	studentID    int
}

type attemptKey struct {
	pairKey
	attempt int
}

// memRepo holds submissions in memory behind a mutex and enforces the same
// uniqueness the store's constraint would, so lost races surface exactly the
// way the service sees them in production. staleReads, when set, makes
// MaxAttempt return an outdated value that many times, forcing collisions.
type memRepo struct {
	mu         sync.Mutex
	nextID     int
	rows       map[attemptKey]*submission.Submission
	staleReads int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[attemptKey]*submission.Submission{}}
}

func (r *memRepo) MaxAttempt(_ context.Context, assignmentID, studentID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	max := 0
	for key := range r.rows {
		if key.assignmentID == assignmentID && key.studentID == studentID && key.attempt > max {
			max = key.attempt
		}
	}
	if r.staleReads > 0 && max > 0 {
		r.staleReads--
		max--
	}
	return max, nil
}

func (r *memRepo) Insert(_ context.Context, sub *submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attemptKey{pairKey{sub.AssignmentID, sub.StudentID}, sub.AttemptNumber}
	if _, taken := r.rows[key]; taken {
		return integrity.ErrDuplicateKey
	}

	r.nextID++
	sub.ID = r.nextID
	stored := *sub
	r.rows[key] = &stored
	return nil
}

func (r *memRepo) GetAll(_ context.Context, assignmentID, studentID, _, _ int) ([]submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []submission.Submission
	for key, row := range r.rows {
		if assignmentID > 0 && key.assignmentID != assignmentID {
			continue
		}
		if studentID > 0 && key.studentID != studentID {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id int) (*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, integrity.ErrNotFound
}

func (r *memRepo) Update(_ context.Context, id int, patch submission.Update) (*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.ID == id {
			if patch.Grade != nil {
				row.Grade = patch.Grade
			}
			if patch.Feedback != nil {
				row.Feedback = patch.Feedback
			}
			copied := *row
			return &copied, nil
		}
	}
	return nil, integrity.ErrNotFound
}

func (r *memRepo) AddAttachment(_ context.Context, att *submission.Attachment) (*submission.Attachment, error) {
	return att, nil
}

func (r *memRepo) ListAttachments(context.Context, int) ([]submission.Attachment, error) {
	return nil, nil
}

func (r *memRepo) DeleteAttachment(context.Context, int, int) error {
	return nil
}

func newTestService(repo submission.Repository, eligibility submission.EligibilityChecker, maxRetries int) submission.Service {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return submission.NewService(repo, eligibility, nil, nil, metrics.NewMock(), logger, maxRetries)
}

func TestCreateSubmission_SequentialAttempts(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, allowAll{}, 5)
	ctx := context.Background()

	for want := 1; want <= 4; want++ {
		created, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
		require.NoError(t, err)
		assert.Equal(t, want, created.AttemptNumber)
	}

	// A different pair starts its own sequence at 1.
	created, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, created.AttemptNumber)
}

func TestCreateSubmission_IneligibleStudent(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, denyAll{}, 5)

	_, err := svc.CreateSubmission(context.Background(), &submission.Submission{AssignmentID: 1, StudentID: 2})
	assert.ErrorIs(t, err, integrity.ErrPrerequisiteViolation)
	assert.Empty(t, repo.rows)
}

func TestCreateSubmission_RetriesAfterCollision(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, allowAll{}, 5)
	ctx := context.Background()

	_, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
	require.NoError(t, err)

	// The next two reads return a stale max, so the first two candidate
	// numbers collide with the existing row before the cycle succeeds.
	repo.staleReads = 2
	created, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, created.AttemptNumber)
}

func TestCreateSubmission_ContentionExhaustsRetries(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, allowAll{}, 3)
	ctx := context.Background()

	_, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
	require.NoError(t, err)

	// Every read loses the race within the budget.
	repo.staleReads = 3
	_, err = svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
	assert.ErrorIs(t, err, integrity.ErrContention)
}

func TestCreateSubmission_ConcurrentCallersGetDenseSequence(t *testing.T) {
	repo := newMemRepo()
	// A generous budget so every goroutine eventually wins a number.
	svc := newTestService(repo, allowAll{}, 64)
	ctx := context.Background()

	const callers = 16
	results := make(chan int, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 7, StudentID: 9})
			if err != nil {
				errs <- err
				return
			}
			results <- created.AttemptNumber
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}

	var attempts []int
	for n := range results {
		attempts = append(attempts, n)
	}
	sort.Ints(attempts)

	require.Len(t, attempts, callers)
	for i, n := range attempts {
		assert.Equal(t, i+1, n, "attempt numbers must be dense with no gaps or duplicates")
	}
}

func TestUpdateSubmission_GradeFlipsPendingToGraded(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, allowAll{}, 5)
	ctx := context.Background()

	created, err := svc.CreateSubmission(ctx, &submission.Submission{AssignmentID: 1, StudentID: 2})
	require.NoError(t, err)
	assert.False(t, created.Graded())

	grade := 90.0
	feedback := "solid work"
	updated, err := svc.UpdateSubmission(ctx, created.ID, submission.Update{Grade: &grade, Feedback: &feedback})
	require.NoError(t, err)

	assert.True(t, updated.Graded())
	assert.Equal(t, 90.0, *updated.Grade)
	assert.Equal(t, "solid work", *updated.Feedback)
}

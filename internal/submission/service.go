package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"records-service/internal/integrity"
	"records-service/internal/metrics"
)

// EligibilityChecker is the slice of the integrity engine this package needs.
type EligibilityChecker interface {
	ValidateSubmissionEligibility(ctx context.Context, assignmentID, studentID int) error
}

// EventPublisher fans accepted submissions out to interested consumers.
type EventPublisher interface {
	Publish(event string, value interface{}) error
}

type Service interface {
	CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error)
	GetAllSubmissions(ctx context.Context, assignmentID, studentID, limit, offset int) ([]Submission, error)
	GetSubmissionByID(ctx context.Context, id int) (*Submission, error)
	UpdateSubmission(ctx context.Context, id int, patch Update) (*Submission, error)
	DeleteSubmission(ctx context.Context, id int) (int64, error)

	AddAttachment(ctx context.Context, att *Attachment) (*Attachment, error)
	ListAttachments(ctx context.Context, submissionID int) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, submissionID, attachmentID int) error
}

type service struct {
	repo        Repository
	eligibility EligibilityChecker
	cascade     *integrity.Cascade
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	maxRetries  int
}

func NewService(
	repo Repository,
	eligibility EligibilityChecker,
	cascade *integrity.Cascade,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	maxRetries int,
) Service {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &service{
		repo:        repo,
		eligibility: eligibility,
		cascade:     cascade,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
		maxRetries:  maxRetries,
	}
}

// CreateSubmission assigns the next attempt number for the
// (assignment, student) pair and persists the row. The read of the current
// max and the insert are not one atomic unit, so a concurrent caller for the
// same pair can win the candidate number first; the unique constraint on
// (assignment_id, student_id, attempt_number) turns that lost race into a
// duplicate-key error and the cycle is re-run. Distinct pairs never collide,
// so they proceed fully in parallel. The retry budget bounds how long a
// caller can keep losing; exhausting it surfaces integrity.ErrContention.
func (s *service) CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error) {
	if err := s.eligibility.ValidateSubmissionEligibility(ctx, sub.AssignmentID, sub.StudentID); err != nil {
		return nil, err
	}

	for try := 0; try < s.maxRetries; try++ {
		max, err := s.repo.MaxAttempt(ctx, sub.AssignmentID, sub.StudentID)
		if err != nil {
			return nil, err
		}

		candidate := *sub
		candidate.ID = 0
		candidate.AttemptNumber = max + 1

		err = s.repo.Insert(ctx, &candidate)
		if err == nil {
			s.metrics.RecordSubmissionAccepted(ctx)
			s.publishEvent("submission.received", &candidate)
			return &candidate, nil
		}
		if !errors.Is(err, integrity.ErrDuplicateKey) {
			return nil, err
		}

		s.metrics.RecordSequencerRetry(ctx)
		s.logger.WarnContext(ctx, "attempt number collision, retrying",
			"assignment_id", sub.AssignmentID,
			"student_id", sub.StudentID,
			"lost_attempt", candidate.AttemptNumber,
		)
	}

	s.metrics.RecordSequencerExhausted(ctx)
	return nil, fmt.Errorf("assignment %d / student %d: %w",
		sub.AssignmentID, sub.StudentID, integrity.ErrContention)
}

func (s *service) GetAllSubmissions(ctx context.Context, assignmentID, studentID, limit, offset int) ([]Submission, error) {
	return s.repo.GetAll(ctx, assignmentID, studentID, limit, offset)
}

func (s *service) GetSubmissionByID(ctx context.Context, id int) (*Submission, error) {
	if id <= 0 {
		return nil, fmt.Errorf("submission %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateSubmission records grade and feedback. A nil grade before the update
// means pending; setting it flips the submission to graded.
func (s *service) UpdateSubmission(ctx context.Context, id int, patch Update) (*Submission, error) {
	if id <= 0 {
		return nil, fmt.Errorf("submission %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *service) DeleteSubmission(ctx context.Context, id int) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("submission %d: %w", id, integrity.ErrNotFound)
	}
	return s.cascade.DeleteSubmission(ctx, id)
}

func (s *service) AddAttachment(ctx context.Context, att *Attachment) (*Attachment, error) {
	// The submission must exist; the FK would also catch this, but the typed
	// error is nicer than a driver failure.
	if _, err := s.repo.GetByID(ctx, att.SubmissionID); err != nil {
		return nil, err
	}
	return s.repo.AddAttachment(ctx, att)
}

func (s *service) ListAttachments(ctx context.Context, submissionID int) ([]Attachment, error) {
	if _, err := s.repo.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, submissionID)
}

func (s *service) DeleteAttachment(ctx context.Context, submissionID, attachmentID int) error {
	if submissionID <= 0 || attachmentID <= 0 {
		return fmt.Errorf("attachment %d on submission %d: %w", attachmentID, submissionID, integrity.ErrNotFound)
	}
	return s.repo.DeleteAttachment(ctx, submissionID, attachmentID)
}

func (s *service) publishEvent(event string, value interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event, value); err != nil {
		s.logger.Warn("failed to publish event", "event", event, "error", err)
	}
}

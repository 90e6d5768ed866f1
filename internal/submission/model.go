package submission

import (
	"time"

	"github.com/uptrace/bun"
)

// Submission is one attempt by a student at an assignment. The triple
// (assignment_id, student_id, attempt_number) is unique; attempt numbers form
// a dense sequence 1..N per pair, assigned by the sequencer in Service.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	AssignmentID  int       `bun:"assignment_id,notnull" json:"assignmentId" validate:"required,gt=0"`
	StudentID     int       `bun:"student_id,notnull" json:"studentId" validate:"required,gt=0"`
	AttemptNumber int       `bun:"attempt_number,notnull" json:"attemptNumber"`
	SubmittedAt   time.Time `bun:"submitted_at,notnull,default:current_timestamp" json:"submittedAt"`
	Grade         *float64  `bun:"grade" json:"grade,omitempty"`
	Feedback      *string   `bun:"feedback" json:"feedback,omitempty"`
}

// Graded reports whether a grade has been recorded; a nil grade means the
// submission is still pending.
func (s *Submission) Graded() bool {
	return s.Grade != nil
}

// Update carries the gradable fields; nil leaves the column alone.
type Update struct {
	Grade    *float64 `json:"grade" validate:"omitempty,gte=0"`
	Feedback *string  `json:"feedback"`
}

func (u Update) Empty() bool {
	return u.Grade == nil && u.Feedback == nil
}

// Attachment is the stored reference (URL or file path) to submitted work;
// the bytes themselves live elsewhere.
type Attachment struct {
	bun.BaseModel `bun:"table:submission_attachments,alias:sa"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	SubmissionID int       `bun:"submission_id,notnull" json:"submissionId" validate:"required,gt=0"`
	Kind         string    `bun:"kind,notnull" json:"kind" validate:"required,oneof=url file"`
	Value        string    `bun:"value,notnull" json:"value" validate:"required"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

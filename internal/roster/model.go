package roster

import (
	"time"

	"github.com/uptrace/bun"
)

// TeacherClass links a teacher to a class (M:N). The constraint engine
// guarantees the referenced user carries the teacher role.
type TeacherClass struct {
	bun.BaseModel `bun:"table:teacher_classes,alias:tc"`

	TeacherID int `bun:"teacher_id,pk" json:"teacherId" validate:"required,gt=0"`
	ClassID   int `bun:"class_id,pk" json:"classId" validate:"required,gt=0"`
}

// Enrollment links a student to a class. The constraint engine guarantees the
// referenced user carries the student role.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	UserID     int       `bun:"user_id,pk" json:"userId" validate:"required,gt=0"`
	ClassID    int       `bun:"class_id,pk" json:"classId" validate:"required,gt=0"`
	EnrolledAt time.Time `bun:"enrolled_at,notnull,default:current_timestamp" json:"enrolledAt"`
}

package integrity

import (
	"context"
	"fmt"
)

// Engine gates every mutation that creates a cross-entity reference. Rules
// span two or three tables, so they cannot live as single-table constraints;
// they run here before anything durable changes. Checks are ordered:
// existence of the referenced rows first, then role, then prerequisite
// relationship. The first violation wins.
type Engine struct {
	view View
}

func NewEngine(view View) *Engine {
	return &Engine{view: view}
}

// ValidateTeacherAssignment checks that teacher_id may be linked to class_id.
func (e *Engine) ValidateTeacherAssignment(ctx context.Context, teacherID, classID int) error {
	ok, err := e.view.ClassExists(ctx, classID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("class %d: %w", classID, ErrNotFound)
	}

	role, err := e.view.UserRole(ctx, teacherID)
	if err != nil {
		return err
	}
	if role != RoleTeacher {
		return fmt.Errorf("user %d has role %q, teacher required: %w", teacherID, role, ErrRoleViolation)
	}
	return nil
}

// ValidateEnrollment checks that user_id may be enrolled in class_id.
func (e *Engine) ValidateEnrollment(ctx context.Context, userID, classID int) error {
	ok, err := e.view.ClassExists(ctx, classID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("class %d: %w", classID, ErrNotFound)
	}

	role, err := e.view.UserRole(ctx, userID)
	if err != nil {
		return err
	}
	if role != RoleStudent {
		return fmt.Errorf("user %d has role %q, student required: %w", userID, role, ErrRoleViolation)
	}
	return nil
}

// ValidateSubmissionEligibility checks that student_id may submit for
// assignment_id: the student exists with role student and is enrolled in the
// class that owns the assignment.
func (e *Engine) ValidateSubmissionEligibility(ctx context.Context, assignmentID, studentID int) error {
	classID, err := e.view.AssignmentClass(ctx, assignmentID)
	if err != nil {
		return err
	}

	role, err := e.view.UserRole(ctx, studentID)
	if err != nil {
		return err
	}
	if role != RoleStudent {
		return fmt.Errorf("user %d has role %q, student required: %w", studentID, role, ErrRoleViolation)
	}

	enrolled, err := e.view.IsEnrolled(ctx, studentID, classID)
	if err != nil {
		return err
	}
	if !enrolled {
		return fmt.Errorf("student %d is not enrolled in class %d: %w", studentID, classID, ErrPrerequisiteViolation)
	}
	return nil
}

// ValidateAnnouncementAuthorship checks that author_id is a teacher currently
// assigned to class_id.
func (e *Engine) ValidateAnnouncementAuthorship(ctx context.Context, classID, authorID int) error {
	ok, err := e.view.ClassExists(ctx, classID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("class %d: %w", classID, ErrNotFound)
	}

	if _, err := e.view.UserRole(ctx, authorID); err != nil {
		return err
	}

	assigned, err := e.view.IsAssignedTeacher(ctx, authorID, classID)
	if err != nil {
		return err
	}
	if !assigned {
		return fmt.Errorf("user %d is not an assigned teacher of class %d: %w", authorID, classID, ErrPrerequisiteViolation)
	}
	return nil
}

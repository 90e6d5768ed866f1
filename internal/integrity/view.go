package integrity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Roles a user row may carry.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// View is the read-only slice of the relational state the constraint engine
// needs. Keeping it an interface lets the validators run against an in-memory
// fake in tests, without a live store.
type View interface {
	UserRole(ctx context.Context, userID int) (string, error)
	ClassExists(ctx context.Context, classID int) (bool, error)
	AssignmentClass(ctx context.Context, assignmentID int) (int, error)
	IsEnrolled(ctx context.Context, userID, classID int) (bool, error)
	IsAssignedTeacher(ctx context.Context, teacherID, classID int) (bool, error)
}

type storeView struct {
	db bun.IDB
}

// NewStoreView returns a View backed by the relational store.
func NewStoreView(db bun.IDB) View {
	return &storeView{db: db}
}

func (v *storeView) UserRole(ctx context.Context, userID int) (string, error) {
	var role string
	err := v.db.NewSelect().
		Table("users").
		Column("role").
		Where("id = ?", userID).
		Scan(ctx, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return "", err
	}
	return role, nil
}

func (v *storeView) ClassExists(ctx context.Context, classID int) (bool, error) {
	count, err := v.db.NewSelect().
		Table("classes").
		Where("id = ?", classID).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (v *storeView) AssignmentClass(ctx context.Context, assignmentID int) (int, error) {
	var classID int
	err := v.db.NewSelect().
		Table("assignments").
		Column("class_id").
		Where("id = ?", assignmentID).
		Scan(ctx, &classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
		}
		return 0, err
	}
	return classID, nil
}

func (v *storeView) IsEnrolled(ctx context.Context, userID, classID int) (bool, error) {
	count, err := v.db.NewSelect().
		Table("enrollments").
		Where("user_id = ? AND class_id = ?", userID, classID).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (v *storeView) IsAssignedTeacher(ctx context.Context, teacherID, classID int) (bool, error) {
	count, err := v.db.NewSelect().
		Table("teacher_classes").
		Where("teacher_id = ? AND class_id = ?", teacherID, classID).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

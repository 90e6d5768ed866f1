package integrity_test

import (
	"context"
	"testing"

	"records-service/internal/integrity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeView is an in-memory relational state for exercising the validators
// without a live store.
type fakeView struct {
	roles       map[int]string
	classes     map[int]bool
	assignments map[int]int         // assignment ID -> class ID
	enrollments map[[2]int]bool     // {student, class}
	teaching    map[[2]int]bool     // {teacher, class}
}

func (f *fakeView) UserRole(_ context.Context, userID int) (string, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", integrity.ErrNotFound
	}
	return role, nil
}

func (f *fakeView) ClassExists(_ context.Context, classID int) (bool, error) {
	return f.classes[classID], nil
}

func (f *fakeView) AssignmentClass(_ context.Context, assignmentID int) (int, error) {
	classID, ok := f.assignments[assignmentID]
	if !ok {
		return 0, integrity.ErrNotFound
	}
	return classID, nil
}

func (f *fakeView) IsEnrolled(_ context.Context, userID, classID int) (bool, error) {
	return f.enrollments[[2]int{userID, classID}], nil
}

func (f *fakeView) IsAssignedTeacher(_ context.Context, teacherID, classID int) (bool, error) {
	return f.teaching[[2]int{teacherID, classID}], nil
}

func newFakeView() *fakeView {
	return &fakeView{
		roles:       map[int]string{1: integrity.RoleTeacher, 2: integrity.RoleStudent, 3: integrity.RoleAdmin},
		classes:     map[int]bool{10: true},
		assignments: map[int]int{100: 10},
		enrollments: map[[2]int]bool{{2, 10}: true},
		teaching:    map[[2]int]bool{{1, 10}: true},
	}
}

func TestValidateTeacherAssignment(t *testing.T) {
	engine := integrity.NewEngine(newFakeView())
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, engine.ValidateTeacherAssignment(ctx, 1, 10))
	})

	t.Run("ClassMissing", func(t *testing.T) {
		err := engine.ValidateTeacherAssignment(ctx, 1, 99)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("UserMissing", func(t *testing.T) {
		err := engine.ValidateTeacherAssignment(ctx, 42, 10)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("StudentCannotTeach", func(t *testing.T) {
		err := engine.ValidateTeacherAssignment(ctx, 2, 10)
		assert.ErrorIs(t, err, integrity.ErrRoleViolation)
	})

	t.Run("AdminCannotTeach", func(t *testing.T) {
		err := engine.ValidateTeacherAssignment(ctx, 3, 10)
		assert.ErrorIs(t, err, integrity.ErrRoleViolation)
	})

	t.Run("MissingClassWinsOverBadRole", func(t *testing.T) {
		// Both the class and the role are wrong; the existence check runs
		// first.
		err := engine.ValidateTeacherAssignment(ctx, 2, 99)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
		assert.NotErrorIs(t, err, integrity.ErrRoleViolation)
	})
}

func TestValidateEnrollment(t *testing.T) {
	engine := integrity.NewEngine(newFakeView())
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, engine.ValidateEnrollment(ctx, 2, 10))
	})

	t.Run("TeacherCannotEnroll", func(t *testing.T) {
		err := engine.ValidateEnrollment(ctx, 1, 10)
		assert.ErrorIs(t, err, integrity.ErrRoleViolation)
	})

	t.Run("ClassMissing", func(t *testing.T) {
		err := engine.ValidateEnrollment(ctx, 2, 99)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})
}

func TestValidateSubmissionEligibility(t *testing.T) {
	view := newFakeView()
	engine := integrity.NewEngine(view)
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, engine.ValidateSubmissionEligibility(ctx, 100, 2))
	})

	t.Run("AssignmentMissing", func(t *testing.T) {
		err := engine.ValidateSubmissionEligibility(ctx, 999, 2)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("TeacherCannotSubmit", func(t *testing.T) {
		err := engine.ValidateSubmissionEligibility(ctx, 100, 1)
		assert.ErrorIs(t, err, integrity.ErrRoleViolation)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		view.roles[4] = integrity.RoleStudent
		err := engine.ValidateSubmissionEligibility(ctx, 100, 4)
		assert.ErrorIs(t, err, integrity.ErrPrerequisiteViolation)
	})
}

func TestValidateAnnouncementAuthorship(t *testing.T) {
	view := newFakeView()
	engine := integrity.NewEngine(view)
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, engine.ValidateAnnouncementAuthorship(ctx, 10, 1))
	})

	t.Run("ClassMissing", func(t *testing.T) {
		err := engine.ValidateAnnouncementAuthorship(ctx, 99, 1)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("AuthorMissing", func(t *testing.T) {
		err := engine.ValidateAnnouncementAuthorship(ctx, 10, 42)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("UnassignedTeacher", func(t *testing.T) {
		view.roles[5] = integrity.RoleTeacher
		err := engine.ValidateAnnouncementAuthorship(ctx, 10, 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, integrity.ErrPrerequisiteViolation)
	})
}

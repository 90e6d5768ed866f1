package roster

import "context"

// ConstraintEngine is the slice of the integrity engine this package needs.
type ConstraintEngine interface {
	ValidateTeacherAssignment(ctx context.Context, teacherID, classID int) error
	ValidateEnrollment(ctx context.Context, userID, classID int) error
}

type Service interface {
	AssignTeacher(ctx context.Context, tc *TeacherClass) (*TeacherClass, error)
	ListTeacherClasses(ctx context.Context, teacherID, classID, limit, offset int) ([]TeacherClass, error)
	UnassignTeacher(ctx context.Context, teacherID, classID int) error

	EnrollStudent(ctx context.Context, e *Enrollment) (*Enrollment, error)
	ListEnrollments(ctx context.Context, userID, classID, limit, offset int) ([]Enrollment, error)
	UnenrollStudent(ctx context.Context, userID, classID int) error
}

type service struct {
	repo   Repository
	engine ConstraintEngine
}

func NewService(repo Repository, engine ConstraintEngine) Service {
	return &service{
		repo:   repo,
		engine: engine,
	}
}

func (s *service) AssignTeacher(ctx context.Context, tc *TeacherClass) (*TeacherClass, error) {
	if err := s.engine.ValidateTeacherAssignment(ctx, tc.TeacherID, tc.ClassID); err != nil {
		return nil, err
	}
	return s.repo.CreateTeacherClass(ctx, tc)
}

func (s *service) ListTeacherClasses(ctx context.Context, teacherID, classID, limit, offset int) ([]TeacherClass, error) {
	return s.repo.ListTeacherClasses(ctx, teacherID, classID, limit, offset)
}

func (s *service) UnassignTeacher(ctx context.Context, teacherID, classID int) error {
	return s.repo.DeleteTeacherClass(ctx, teacherID, classID)
}

func (s *service) EnrollStudent(ctx context.Context, e *Enrollment) (*Enrollment, error) {
	if err := s.engine.ValidateEnrollment(ctx, e.UserID, e.ClassID); err != nil {
		return nil, err
	}
	return s.repo.CreateEnrollment(ctx, e)
}

func (s *service) ListEnrollments(ctx context.Context, userID, classID, limit, offset int) ([]Enrollment, error) {
	return s.repo.ListEnrollments(ctx, userID, classID, limit, offset)
}

func (s *service) UnenrollStudent(ctx context.Context, userID, classID int) error {
	return s.repo.DeleteEnrollment(ctx, userID, classID)
}

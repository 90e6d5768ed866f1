package integrity

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrRoleViolation         = errors.New("referenced user does not have the required role")
	ErrPrerequisiteViolation = errors.New("required relationship is missing")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrContention            = errors.New("retry budget exhausted racing a concurrent writer")
	ErrReferentialBlock      = errors.New("record is still referenced and cannot be deleted")
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Repositories use it to translate raw driver errors into
// ErrDuplicateKey; the submission sequencer uses it to detect a lost race.
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == uniqueViolationCode
	}
	return false
}

package announcement

import (
	"time"

	"github.com/uptrace/bun"
)

// Announcement is authored by a teacher assigned to the class. The author
// reference is the one RESTRICT foreign key in the schema: the authoring user
// cannot be deleted while the announcement exists.
type Announcement struct {
	bun.BaseModel `bun:"table:announcements,alias:an"`

	ID       int       `bun:"id,pk,autoincrement" json:"id"`
	ClassID  int       `bun:"class_id,notnull" json:"classId" validate:"required,gt=0"`
	AuthorID int       `bun:"author_id,notnull" json:"authorId" validate:"required,gt=0"`
	Title    string    `bun:"title,notnull" json:"title" validate:"required"`
	Body     string    `bun:"body,notnull" json:"body" validate:"required"`
	PostedAt time.Time `bun:"posted_at,notnull,default:current_timestamp" json:"postedAt"`
}

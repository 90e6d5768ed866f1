package assignment

import (
	"time"

	"github.com/uptrace/bun"
)

type Assignment struct {
	bun.BaseModel `bun:"table:assignments,alias:a"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	ClassID     int       `bun:"class_id,notnull" json:"classId" validate:"required,gt=0"`
	Title       string    `bun:"title,notnull" json:"title" validate:"required"`
	Description string    `bun:"description" json:"description"`
	DueAt       time.Time `bun:"due_at,notnull" json:"dueAt" validate:"required"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type Update struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"dueAt"`
}

func (u Update) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueAt == nil
}

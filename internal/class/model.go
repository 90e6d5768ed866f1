package class

import (
	"time"

	"github.com/uptrace/bun"
)

type Class struct {
	bun.BaseModel `bun:"table:classes,alias:c"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Code        string    `bun:"code,unique,notnull" json:"code" validate:"required"`
	Title       string    `bun:"title,notnull" json:"title" validate:"required"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type Update struct {
	Code        *string `json:"code" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

func (u Update) Empty() bool {
	return u.Code == nil && u.Title == nil && u.Description == nil
}

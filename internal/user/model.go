package user

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email" validate:"required,email"`
	FullName  string    `bun:"full_name,notnull" json:"fullName" validate:"required,min=1,max=200"`
	Role      string    `bun:"role,notnull" json:"role" validate:"required,oneof=teacher student admin"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Update carries only the fields a caller wants to change; nil means leave
// the column alone.
type Update struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=teacher student admin"`
}

func (u Update) Empty() bool {
	return u.Email == nil && u.FullName == nil && u.Role == nil
}

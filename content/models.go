package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles a user may hold.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Category groups tips.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt   time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Tip is a short piece of advice filed under exactly one category.
type Tip struct {
	bun.BaseModel `bun:"table:tips,alias:tip"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title      string    `bun:"title,notnull" json:"title"`
	Content    string    `bun:"content,notnull" json:"content"`
	CategoryID uuid.UUID `bun:"category_id,type:uuid,notnull" json:"category_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt  time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// User is an admin backend account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name,notnull" json:"name"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Models lists every table model, in creation order.
func Models() []any {
	return []any{
		(*Category)(nil),
		(*Tip)(nil),
		(*User)(nil),
	}
}

package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Roles        []string  `json:"roles"`
}

type Role struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Role names seeded by the initial migration.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
	RoleUser   = "user"
)

type UserPatch struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
}

func (p UserPatch) Apply(u *User) {
	if v, ok := p.Username.Value(); ok {
		u.Username = v
	}
	if v, ok := p.Email.Value(); ok {
		u.Email = v
	}
}

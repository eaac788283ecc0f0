package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated actor in the system. Users are created by
// registration or the createadmin bootstrap and are never updated or
// deleted by the application afterwards.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified claim set of a session token, attached to the
// request context by the auth middleware.
type Identity struct {
	ID       uint
	Username string
	Email    string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
)

// User is a staff account row in the `users` table. Email is stored
// lower-cased; role is fixed at registration.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Identity is the token claim for this user.
func (u *User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Role: u.Role}
}

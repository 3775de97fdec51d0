package models

import "github.com/thenoetrevino/checklist/internal/types"

// User is a registered account. Users are never mutated or deleted.
// Password is kept as submitted; hashing is out of scope for this service.
type User struct {
	ID       types.UserID `json:"id"`
	Username string       `json:"username"`
	Password string       `json:"-"`
}

// PublicUser is the identity shape returned to clients
type PublicUser struct {
	ID       types.UserID `json:"id"`
	Username string       `json:"username"`
}

// Public strips the password from a user
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

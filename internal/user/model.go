package user

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is the projection attached to requests and echoed at login.
// It has no password field at all, so no serialization path can leak the
// hash.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Username,
		Email: u.Email,
	}
}

// Account is the profile projection for /api/account.
type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken indicates a registration with a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned for any failed login, never
	// revealing whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Never expose password hash in JSON
	CreatedAt time.Time `json:"createdAt"`
}

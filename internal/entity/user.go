package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// User is a portal credential record. Username always equals the email; a
// user is created only as a side effect of a trial signup that also created
// a new customer. PasswordSet separates accounts still on their delivered
// one-time token from accounts that have chosen a password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Active       bool      `json:"active"`
	PasswordSet  bool      `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(email, firstName, lastName, passwordHash string) (*User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	return &User{
		ID:           uuid.New().String(),
		Username:     email,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Active:       true,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

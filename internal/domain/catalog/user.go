package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is the local projection of a registered user.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	updatedAt time.Time
}

// NewUser creates a user projection from an upstream record.
func NewUser(id uuid.UUID, name, email string) (*User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("user ID is required")
	}
	if email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	return &User{
		id:        id,
		name:      name,
		email:     email,
		updatedAt: time.Now().UTC(),
	}, nil
}

// ReconstructUser rebuilds a User from persistence data (no validation).
func ReconstructUser(id uuid.UUID, name, email string, updatedAt time.Time) *User {
	return &User{id: id, name: name, email: email, updatedAt: updatedAt}
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) Email() string { return u.email }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

package users

import "context"

// Repo is the identity store for one tenant's storage unit.
type Repo interface {
	// Create persists a new identity. Returns errors.ErrUserExists if the
	// username is already taken within the unit.
	Create(ctx context.Context, user *User) error
	// GetByUsername returns the identity, or errors.ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)
}

package errors

import (
	"errors"
	"fmt"
)

// Common error types for the key-value server
var (
	// Identity errors
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Namespace errors
	ErrKeyExists   = errors.New("key already exists")
	ErrKeyNotFound = errors.New("key not found")

	// Request errors
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidUsername = errors.New("invalid username")

	// Startup errors
	ErrMissingSeed = errors.New("missing required SEED")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

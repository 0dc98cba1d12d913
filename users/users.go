package users

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-kv-server/internal/errors"
)

// User is the identity record for a single tenant. The username doubles as
// the tenant identifier: it addresses the tenant's storage unit.
type User struct {
	Username            string    `json:"username"`
	PasswordHash        string    `json:"-"` // Hashed version of the user's password - never serialize
	EncryptedPassphrase string    `json:"-"` // Passphrase ciphertext - never serialize
	DateJoined          time.Time `json:"date_joined,omitempty"`
}

const maxUsernameLength = 63

// SanitizeUsername normalises a username into the identity key used to
// address the tenant's storage unit. Only lowercase letters, digits and
// underscores are accepted so a username can never escape into another
// tenant's unit.
func SanitizeUsername(username string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if name == "" || len(name) > maxUsernameLength {
		return "", errors.ErrInvalidUsername
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return "", errors.ErrInvalidUsername
		}
	}
	return name, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Package auth implements the credential service: registration (hash the
// password, mint and encrypt a passphrase) and login (verify the password,
// decrypt the passphrase, issue a bearer token).
package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-kv-server/internal/config"
	"github.com/jrsteele09/go-kv-server/internal/cryptox"
	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/jrsteele09/go-kv-server/tenantstore"
	"github.com/jrsteele09/go-kv-server/token"
	"github.com/jrsteele09/go-kv-server/users"
)

// CredentialService handles registration and login against per-tenant
// identity stores.
type CredentialService struct {
	store    tenantstore.Provider
	tokens   *token.Creator
	security config.SecurityConfig
}

// NewCredentialService initializes a new CredentialService with required dependencies.
func NewCredentialService(store tenantstore.Provider, tokens *token.Creator, security config.SecurityConfig) (*CredentialService, error) {
	if store == nil {
		return nil, errors.New("[NewCredentialService] tenant store is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewCredentialService] token creator is required")
	}
	if security == nil {
		return nil, errors.New("[NewCredentialService] security config is required")
	}
	return &CredentialService{store: store, tokens: tokens, security: security}, nil
}

// LoginResult is what a successful login hands back to the caller: the
// bearer token plus the decrypted passphrase.
type LoginResult struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Passphrase string `json:"passphrase"`
}

// Register creates a new identity and returns the minted passphrase in
// plaintext for one-time display. It is persisted only in encrypted form;
// after this call it is recoverable solely by decryption at login.
func (cs *CredentialService) Register(ctx context.Context, username, password string) (string, error) {
	name, err := users.SanitizeUsername(username)
	if err != nil {
		return "", err
	}

	unit, err := cs.store.Open(ctx, name)
	if err != nil {
		return "", errors.Wrap(err, "[Register] failed to open tenant store")
	}
	defer unit.Close()

	if _, err := unit.Users().GetByUsername(ctx, name); err == nil {
		return "", apperrors.ErrUserExists
	} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return "", errors.Wrap(err, "[Register] identity lookup failed")
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", errors.Wrap(err, "[Register] failed to hash password")
	}

	seed, err := cs.security.GetSeed()
	if err != nil {
		return "", err
	}

	passphrase, err := cryptox.GeneratePassphrase()
	if err != nil {
		return "", errors.Wrap(err, "[Register] failed to mint passphrase")
	}

	encrypted, err := cryptox.EncryptPassphrase(passphrase, cryptox.DeriveKey(seed))
	if err != nil {
		return "", errors.Wrap(err, "[Register] failed to encrypt passphrase")
	}

	user := &users.User{
		Username:            name,
		PasswordHash:        passwordHash,
		EncryptedPassphrase: encrypted,
	}
	// The unique constraint is the final arbiter for concurrent registrations.
	if err := unit.Users().Create(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.ErrUserExists) {
			return "", apperrors.ErrUserExists
		}
		return "", errors.Wrap(err, "[Register] failed to persist identity")
	}

	return passphrase, nil
}

// Login verifies the password, decrypts the stored passphrase and issues a
// signed bearer token. A passphrase that no longer decrypts (e.g. the seed
// was rotated) surfaces as an authentication failure, never as wrong
// plaintext.
func (cs *CredentialService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	name, err := users.SanitizeUsername(username)
	if err != nil {
		return nil, err
	}

	unit, err := cs.store.Open(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] failed to open tenant store")
	}
	defer unit.Close()

	user, err := unit.Users().GetByUsername(ctx, name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "[Login] identity lookup failed")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	seed, err := cs.security.GetSeed()
	if err != nil {
		return nil, err
	}

	passphrase, err := cryptox.DecryptPassphrase(user.EncryptedPassphrase, cryptox.DeriveKey(seed))
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "passphrase decryption failed")
	}

	bearer, err := cs.tokens.Create(name)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] failed to issue token")
	}

	return &LoginResult{Token: bearer, Username: name, Passphrase: passphrase}, nil
}

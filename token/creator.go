// Package token creates and verifies the signed, time-boxed bearer tokens
// that assert tenant identity. Tokens are stateless: nothing is persisted,
// validity rests entirely on the signature and the exp claim.
package token

import (
	stderrors "errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator handles bearer token creation and verification
type Creator struct {
	signer   Signer
	validity time.Duration
}

// NewCreator creates a new token creator. validity is the lifetime of each
// issued token.
func NewCreator(signer Signer, validity time.Duration) *Creator {
	return &Creator{
		signer:   signer,
		validity: validity,
	}
}

// Create issues a signed token bound to the username. The claim set matches
// the wire contract: user_id carries the subject, exp the unix expiry.
func (c *Creator) Create(username string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"user_id": username,
		"iat":     now.Unix(),
		"exp":     now.Add(c.validity).Unix(),
		"jti":     uuid.New().String(),
	}
	return c.signer.Sign(claims)
}

// Verify checks the signature and expiry of a raw token and returns the
// username it asserts. Expired tokens map to ErrTokenExpired, everything
// else that fails maps to ErrInvalidToken.
func (c *Creator) Verify(rawToken string) (string, error) {
	parsed, err := jwtlib.Parse(rawToken, c.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
	)
	if err != nil {
		if stderrors.Is(err, jwtlib.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrInvalidToken
	}
	if !parsed.Valid {
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", apperrors.ErrInvalidToken
	}
	username, ok := claims["user_id"].(string)
	if !ok || username == "" {
		return "", apperrors.ErrInvalidToken
	}
	return username, nil
}

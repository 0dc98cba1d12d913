package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-kv-server/internal/errors"
)

const testSecret = "test-signing-secret"

func TestCreateAndVerify(t *testing.T) {
	creator := NewCreator(NewHMACSigner(testSecret), time.Hour)

	raw, err := creator.Create("alice")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	username, err := creator.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	creator := NewCreator(NewHMACSigner(testSecret), time.Hour)
	other := NewCreator(NewHMACSigner("a-different-secret"), time.Hour)

	raw, err := creator.Create("alice")
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	creator := NewCreator(NewHMACSigner(testSecret), time.Hour)

	issuedAt := time.Now()
	NowTimeFunc = func() time.Time { return issuedAt }
	defer func() { NowTimeFunc = time.Now }()

	raw, err := creator.Create("alice")
	require.NoError(t, err)

	// Still valid just inside the window
	NowTimeFunc = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	username, err := creator.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", username)

	// Rejected once the clock passes expiry
	NowTimeFunc = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = creator.Verify(raw)
	require.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	creator := NewCreator(NewHMACSigner(testSecret), time.Hour)

	_, err := creator.Verify("not.a.token")
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	_, err = creator.Verify("")
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}

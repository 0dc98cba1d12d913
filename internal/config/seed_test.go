package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFromEnv(t *testing.T) {
	t.Setenv("SEED", "env-seed-value")

	s, err := loadSeed(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "env-seed-value", s)
}

func TestLoadSeedFromSecretsFile(t *testing.T) {
	t.Setenv("SEED", "")

	path := filepath.Join(t.TempDir(), "secrets.env")
	contents := "OTHER=abc\nSEED=file-seed-value\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	s, err := loadSeed(path)
	require.NoError(t, err)
	require.Equal(t, "file-seed-value", s)
}

func TestLoadSeedMissingIsFatalError(t *testing.T) {
	t.Setenv("SEED", "")

	_, err := loadSeed(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, errors.ErrMissingSeed)
}

func TestSeedFromFileIgnoresUnrelatedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.env")
	contents := "# comment\nSEED=\nSECRET_KEY=nope\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	_, err := seedFromFile(path)
	require.ErrorIs(t, err, errors.ErrMissingSeed)
}

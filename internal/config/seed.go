package config

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/jrsteele09/go-kv-server/internal/errors"
)

const (
	seedEnvVar     = "SEED"
	secretsEnvPath = "/etc/secrets.env"
)

var (
	seedOnce sync.Once
	seed     string
	seedErr  error
)

// GetSeed returns the process-wide seed used to derive the passphrase
// encryption key. It is loaded at most once per process, from the SEED
// environment variable or, failing that, from /etc/secrets.env. A missing
// seed is fatal: callers must abort rather than run with undefined crypto
// behaviour. The seed value itself is never logged.
func (Security) GetSeed() (string, error) {
	seedOnce.Do(func() {
		seed, seedErr = loadSeed(secretsEnvPath)
	})
	return seed, seedErr
}

func loadSeed(secretsPath string) (string, error) {
	if s := os.Getenv(seedEnvVar); s != "" {
		return s, nil
	}
	s, err := seedFromFile(secretsPath)
	if err != nil {
		return "", err
	}
	return s, nil
}

func seedFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.ErrMissingSeed
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, seedEnvVar+"="); ok && value != "" {
			return value, nil
		}
	}
	return "", errors.ErrMissingSeed
}

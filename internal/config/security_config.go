package config

import "time"

type SecurityConfig interface {
	GetTokenSigningSecret() string
	GetTokenValidity() time.Duration
	GetSeed() (string, error)
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetTokenSigningSecret returns the process-wide HMAC secret for bearer tokens.
// The default is insecure and must be overridden outside of development.
func (Security) GetTokenSigningSecret() string {
	return GetEnv("SECRET_KEY", "some_super_secret_key")
}

func (Security) GetTokenValidity() time.Duration {
	return 1 * time.Hour // Tokens expire one hour after issuance
}

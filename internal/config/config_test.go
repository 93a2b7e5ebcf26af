package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Security: SecurityConfig{JWTSecret: "secret"},
		Postgres: PostgresConfig{DSN: "postgres://localhost/ratescope"},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateMissingJWTSecretIsFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingPostgresDSNIsFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.DSN = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingProviderKeysIsNotFatal(t *testing.T) {
	cfg := validConfig()
	cfg.AlphaVantage.APIKey = ""
	cfg.Gemini.APIKey = ""
	assert.NoError(t, cfg.Validate())
}

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Secrets are never kept in the TOML file.
type Secrets struct {
	RedisPassword    string `env:"HOOSFIT_REDIS_PASS"`
	PostgresPassword string `env:"HOOSFIT_POSTGRES_PASSWORD"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"hoosfit"`
}

// LoadSecrets loads the optional dotenv files first, so values already in
// the process environment win, then parses the environment.
func LoadSecrets(dotEnvFiles ...string) (*Secrets, error) {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugf("dotenv file [%s] not found, skipping", f)
				continue
			}
			return nil, fmt.Errorf("load dotenv file %s: %w", f, err)
		}
	}

	secrets := &Secrets{}
	if err := env.Parse(secrets); err != nil {
		return nil, fmt.Errorf("parse env secrets: %w", err)
	}

	if secrets.RedisPassword == "" {
		log.Warnln("redis password not set. use HOOSFIT_REDIS_PASS")
	}
	if secrets.HoneycombEnabled && secrets.HoneycombAPIKey == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	return secrets, nil
}

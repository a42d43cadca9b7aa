package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration so main stays lean.
//
// DatabaseURL empty means the in-memory stores are used; set it to a postgres
// DSN for durable storage.
type Server struct {
	Addr          string        `env:"CATALOG_ADDR" envDefault:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"48h"`

	// StrictAudit surfaces an audit-append failure as an internal error to the
	// caller. The primary mutation is never rolled back either way.
	StrictAudit bool `env:"STRICT_AUDIT" envDefault:"false"`
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

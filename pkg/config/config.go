// pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// OIDC / JWT verification
	Issuer   string
	Audience string
	JWKSURL  string

	// Keycloak admin API (identity sync). Missing credentials are not a
	// startup error; they surface as failed provider calls at runtime.
	KeycloakBaseURL       string
	KeycloakRealm         string
	KeycloakAdminUsername string
	KeycloakAdminPassword string
	KeycloakAdminClientID string
	SyncInterval          time.Duration

	// Postgres resource store; empty falls back to the in-memory store.
	DatabaseURL string
	// Optional YAML file with resources to seed at startup.
	ResourceSeedFile string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:                   env("SENTRA_ENV", "dev"),
		HTTPAddr:              env("SENTRA_HTTP_ADDR", ":8080"),
		Issuer:                env("OIDC_ISSUER", ""),
		Audience:              env("OIDC_AUDIENCE", ""),
		JWKSURL:               env("JWKS_URL", ""),
		KeycloakBaseURL:       env("KEYCLOAK_BASE_URL", "http://localhost:8180"),
		KeycloakRealm:         env("KEYCLOAK_REALM", "master"),
		KeycloakAdminUsername: env("KEYCLOAK_ADMIN_USERNAME", "admin"),
		KeycloakAdminPassword: env("KEYCLOAK_ADMIN_PASSWORD", "admin"),
		KeycloakAdminClientID: env("KEYCLOAK_ADMIN_CLIENT_ID", "admin-cli"),
		SyncInterval:          envDur("USER_SYNC_INTERVAL_SEC", 3600) * time.Second,
		DatabaseURL:           env("DATABASE_URL", ""),
		ResourceSeedFile:      env("RESOURCE_SEED_FILE", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		if i > 0 {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}

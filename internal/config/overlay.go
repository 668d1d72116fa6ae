// config/overlay.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies the deployment environment on top of the file.
// Variable names match the keys of the deployment .env file.
func OverlayEnv(cfg *Config) {
	if v := env("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	}
	if v := env("COURSEMATE_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := env("COURSEMATE_DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := env("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := env("DB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = n
		}
	}
	if v := env("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := env("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := env("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := env("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := env("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"coursemate-engine/internal/config"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "coursemate"
)

var ErrNotFound = errors.New("secret not found")

// JWTSecret returns the token signing key: config (already overlaid with
// JWT_SECRET) first, then the keyring.
func JWTSecret(cfg config.Config) (string, error) {
	if s := strings.TrimSpace(cfg.Auth.JWTSecret); s != "" {
		return s, nil
	}
	if s, err := get(cfg.Auth.KeyringAccount); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("jwt secret: %w (set auth.jwt_secret, JWT_SECRET or the keyring)", ErrNotFound)
}

func SetJWTSecret(cfg config.Config, secret string) error {
	return set(cfg.Auth.KeyringAccount, secret)
}

func DeleteJWTSecret(cfg config.Config) error {
	return del(cfg.Auth.KeyringAccount)
}

// DBPassword resolves the MariaDB password the same way. An empty password
// is allowed, so a miss is not an error.
func DBPassword(cfg config.Config) string {
	if cfg.Database.Password != "" {
		return cfg.Database.Password
	}
	s, err := get(DBKeyringAccount(cfg))
	if err != nil {
		return ""
	}
	return s
}

func SetDBPassword(cfg config.Config, password string) error {
	return set(DBKeyringAccount(cfg), password)
}

func DBKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf(
		"coursemate:db:%s@%s",
		cfg.Database.User,
		cfg.Database.Host,
	)
}

func get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", ErrNotFound
	}
	s, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(s) == "" {
		return "", ErrNotFound
	}
	return s, nil
}

func set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func del(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Driver                 string `yaml:"driver"` // mysql | sqlite
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Name                   string `yaml:"name"`
	Path                   string `yaml:"path"` // sqlite file, relative to app.data_dir
	MaxOpenConns           int    `yaml:"max_open_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
}

// Security is the admin-editable part of the config.
type Security struct {
	LoginFailedLimit int     `yaml:"login_failed_limit" json:"loginFailedLimit"`
	LockMinutes      int     `yaml:"lock_minutes" json:"lockMinutes"`
	AllowNewAdmins   bool    `yaml:"allow_new_admins" json:"allowNewAdmins"`
	LoginRatePerSec  float64 `yaml:"login_rate_per_sec" json:"-"`
	LoginBurst       int     `yaml:"login_burst" json:"-"`

	// TrustedProxies lists the reverse proxies (IP or CIDR) whose
	// X-Forwarded-For is believed. Empty means the peer address is the client.
	TrustedProxies []string `yaml:"trusted_proxies" json:"-"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Database Database `yaml:"database"`

	Auth struct {
		JWTSecret      string `yaml:"jwt_secret"`
		TokenTTLHours  int    `yaml:"token_ttl_hours"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"auth"`

	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Security Security `yaml:"security"`

	Cors struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Default mirrors config/config.yml so a missing key never leaves a zero value.
func Default() Config {
	var c Config
	c.App.Port = 3000
	c.App.DataDir = "."
	c.Database = Database{
		Driver:                 "mysql",
		Host:                   "127.0.0.1",
		Port:                   3306,
		Name:                   "coursemate",
		Path:                   "coursemate.db",
		MaxOpenConns:           10,
		ConnMaxLifetimeSeconds: 300,
	}
	c.Auth.TokenTTLHours = 24
	c.Auth.KeyringAccount = "coursemate:jwt"
	c.Admin.Username = "admin"
	c.Security = Security{
		LoginFailedLimit: 5,
		LockMinutes:      10,
		LoginRatePerSec:  1,
		LoginBurst:       5,
	}
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	return c
}

func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	OverlayEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the yaml over Default without the environment overlay,
// which is what gets written back when settings are edited.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

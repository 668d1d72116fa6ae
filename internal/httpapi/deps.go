package httpapi

import (
	"sync/atomic"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/config"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/ratelimit"
	"coursemate-engine/internal/store"
)

type Deps struct {
	Store *store.DB

	Hub *events.Hub
	JWT *auth.JWTManager

	LoginLimiter *ratelimit.KeyLimiter
	Lockout      *ratelimit.Lockout

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Called after the admin saves new settings.
	OnConfigChange func(config.Config)
}

package config

import (
	"fmt"
	"net/netip"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Cors.AllowedOrigins = trimList(out.Cors.AllowedOrigins)
	out.Database.Driver = strings.ToLower(strings.TrimSpace(out.Database.Driver))

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Database.Driver {
	case "mysql":
		if strings.TrimSpace(out.Database.Host) == "" {
			res.addErr("database.host is required when database.driver=mysql")
		}
		if strings.TrimSpace(out.Database.Name) == "" {
			res.addErr("database.name is required when database.driver=mysql")
		}
	case "sqlite":
		if strings.TrimSpace(out.Database.Path) == "" {
			res.addErr("database.path is required when database.driver=sqlite")
		}
	default:
		res.addErr("database.driver must be mysql or sqlite, got %q", out.Database.Driver)
	}
	if out.Database.MaxOpenConns <= 0 {
		res.addErr("database.max_open_conns must be > 0")
	}

	if out.Auth.TokenTTLHours <= 0 {
		res.addErr("auth.token_ttl_hours must be > 0")
	}
	if s := out.Auth.JWTSecret; s != "" && len(s) < 32 {
		res.addWarn("auth.jwt_secret is shorter than 32 characters.")
	}

	if strings.TrimSpace(out.Admin.Username) == "" {
		res.addErr("admin.username is required")
	}

	// security
	if out.Security.LoginFailedLimit < 0 {
		res.addErr("security.login_failed_limit must be >= 0")
	} else if out.Security.LoginFailedLimit == 0 {
		res.addWarn("security.login_failed_limit is 0; account lockout is disabled.")
	}
	if out.Security.LockMinutes < 0 {
		res.addErr("security.lock_minutes must be >= 0")
	}
	if out.Security.LoginRatePerSec <= 0 {
		res.addErr("security.login_rate_per_sec must be > 0")
	}
	if out.Security.LoginBurst <= 0 {
		res.addErr("security.login_burst must be > 0")
	}

	out.Security.TrustedProxies = trimList(out.Security.TrustedProxies)
	for _, p := range out.Security.TrustedProxies {
		if _, err := ParseProxy(p); err != nil {
			res.addErr("security.trusted_proxies: %q is not an IP or CIDR", p)
		}
	}

	if len(out.Cors.AllowedOrigins) == 0 {
		res.addWarn("cors.allowed_origins is empty; every origin will be reflected.")
	}

	switch strings.ToLower(out.Log.Format) {
	case "", "json", "console":
	default:
		res.addErr("log.format must be json or console")
	}

	return out, res
}

// ParseProxy reads a trusted proxy entry. A bare address covers itself only.
func ParseProxy(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		return p.Masked(), err
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	a = a.Unmap()
	return netip.PrefixFrom(a, a.BitLen()), nil
}

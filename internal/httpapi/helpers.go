package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"coursemate-engine/internal/config"
	"coursemate-engine/internal/validation"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body into v and validates it. On failure the 400
// response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON"
		if !errors.Is(err, io.EOF) {
			msg = fmt.Sprintf("invalid JSON: %v", err)
		}
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, msg)
		return false
	}
	if err := validation.Struct(v); err != nil {
		var re *validation.RequestError
		if errors.As(err, &re) {
			WriteResult(w, http.StatusBadRequest, codeBadRequest, re.Error(), result{"fields": re.Fields})
			return false
		}
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, err.Error())
		return false
	}
	return true
}

// clientIP is the rate-limit key for anonymous endpoints. X-Forwarded-For
// is only read when the peer is one of the trusted proxies, and then the
// nearest hop that is not itself a trusted proxy wins.
func clientIP(r *http.Request, trusted []string) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if len(trusted) == 0 {
		return host
	}
	proxies := make([]netip.Prefix, 0, len(trusted))
	for _, t := range trusted {
		if p, err := config.ParseProxy(t); err == nil {
			proxies = append(proxies, p)
		}
	}
	isProxy := func(s string) bool {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return false
		}
		a = a.Unmap()
		for _, p := range proxies {
			if p.Contains(a) {
				return true
			}
		}
		return false
	}
	if !isProxy(host) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" || isProxy(hop) {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		return hop
	}
	return host
}

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor finds the client address of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the address of the TCP peer. It cannot be spoofed
// and is the right choice when the server is not behind a proxy.
type RemoteAddrExtractor struct{}

// ExtractIP strips the port from r.RemoteAddr.
func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig lists the reverse proxies whose forwarding headers are believed.
type TrustedProxyConfig struct {
	Enabled      bool
	AllowedCIDRs []netip.Prefix
}

// ParseTrustedProxies builds a config from IPs or CIDR ranges. An empty list
// disables header trust.
//
//	ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
func ParseTrustedProxies(entries []string) (TrustedProxyConfig, error) {
	var cfg TrustedProxyConfig
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			addr, addrErr := netip.ParseAddr(raw)
			if addrErr != nil {
				return TrustedProxyConfig{}, fmt.Errorf("invalid trusted proxy %q: want an IP or a CIDR range", raw)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		cfg.AllowedCIDRs = append(cfg.AllowedCIDRs, prefix)
	}
	cfg.Enabled = len(cfg.AllowedCIDRs) > 0
	return cfg, nil
}

// IsTrusted reports whether remoteAddr ("ip:port") is one of the proxies.
func (c TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// TrustedProxyExtractor reads X-Forwarded-For, then X-Real-IP, but only on
// requests coming from a trusted proxy. Everything else falls back to RemoteAddr.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

// NewTrustedProxyExtractor creates an extractor for config.
func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

// NewIPExtractor picks the extractor matching config.
func NewIPExtractor(config TrustedProxyConfig) IPExtractor {
	if !config.Enabled {
		return &RemoteAddrExtractor{}
	}
	return NewTrustedProxyExtractor(config)
}

// ExtractIP returns the client address of r.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.Enabled {
		return extractIPFromAddr(r.RemoteAddr)
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("forwarding header from untrusted peer ignored",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if ip := parseFirstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip, nil
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String(), nil
	}
	return extractIPFromAddr(r.RemoteAddr)
}

// extractIPFromAddr accepts "ip:port", "[ipv6]:port" or a bare IP.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(strings.Trim(addr, "[]")); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// parseFirstIP returns the client entry of an X-Forwarded-For list, or "".
func parseFirstIP(s string) string {
	first, _, _ := strings.Cut(s, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}

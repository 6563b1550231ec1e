package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	authservice "blog-publication/internal/service/auth"
)

// MinSecretLength is the shortest accepted cookie secret, in bytes.
const MinSecretLength = 32

// SecurityConfig represents the security section of the configuration.
type SecurityConfig struct {
	CSPEnabled    bool `yaml:"csp_enabled"`
	CSPReportOnly bool `yaml:"csp_report_only"`

	// CSPReportURI is where browsers post policy violations. Empty sends
	// no reports.
	CSPReportURI string `yaml:"csp_report_uri"`

	// LoginRateLimit is the number of login attempts allowed per minute and
	// client address. Zero disables the limiter.
	LoginRateLimit int `yaml:"login_rate_limit"`

	// TrustedProxies lists the CIDRs whose X-Forwarded-For header is
	// believed. Empty means the peer address is always used.
	TrustedProxies []string `yaml:"trusted_proxies"`

	Password struct {
		MinLength     int      `yaml:"min_length"`
		WeakPasswords []string `yaml:"weak_passwords"`
	} `yaml:"password"`
}

// DefaultSecurity returns the security defaults: CSP on, five login
// attempts a minute, the built-in password policy.
func DefaultSecurity() SecurityConfig {
	req := authservice.DefaultRequirements()
	s := SecurityConfig{CSPEnabled: true, LoginRateLimit: 5}
	s.Password.MinLength = req.MinPasswordLength
	s.Password.WeakPasswords = req.WeakPasswords
	return s
}

// Validate checks the security section.
func (s SecurityConfig) Validate() error {
	if s.CSPReportURI != "" {
		u, err := url.Parse(s.CSPReportURI)
		if err != nil || (u.Scheme == "" && !strings.HasPrefix(u.Path, "/")) {
			return fmt.Errorf("csp_report_uri must be absolute or start with /, got %q", s.CSPReportURI)
		}
	}
	if s.LoginRateLimit < 0 {
		return fmt.Errorf("login_rate_limit must not be negative, got %d", s.LoginRateLimit)
	}
	for _, cidr := range s.TrustedProxies {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
	}
	if s.Password.MinLength < 8 {
		return fmt.Errorf("password min_length must be at least 8, got %d", s.Password.MinLength)
	}
	return nil
}

// PasswordRequirements returns the policy applied to operator-created accounts.
func (s SecurityConfig) PasswordRequirements() authservice.CredentialRequirements {
	return authservice.CredentialRequirements{
		MinPasswordLength: s.Password.MinLength,
		WeakPasswords:     s.Password.WeakPasswords,
	}
}

var weakSecrets = []string{"secret", "changeme", "password", "default", "test"}

// validateSecret rejects short secrets and obvious placeholders.
func validateSecret(secret string) error {
	if secret == "" {
		return errors.New("is required")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Contains(lower, weak) {
			return fmt.Errorf("must not contain %q", weak)
		}
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return errors.New("must not repeat a single character")
	}
	return nil
}

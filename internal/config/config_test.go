package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-publication/internal/infra/db"
)

const (
	sessionSecret = "0123456789abcdefghijklmnopqrstuv"
	csrfSecret    = "vutsrqponmlkjihgfedcba9876543210"
	flashKey      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("BLOG_CONFIG", "")
	t.Setenv("SESSION_SECRET", sessionSecret)
	t.Setenv("CSRF_SECRET", csrfSecret)
	t.Setenv("FLASH_HASH_KEY", flashKey)
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, db.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:blog.db", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Pagination.ListPageSize)
	assert.Equal(t, 15, cfg.Pagination.SearchPageSize)
	assert.Equal(t, 2000, cfg.Validation.CommentMaxLength)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Security.CSPEnabled)
	assert.Equal(t, 5, cfg.Security.LoginRateLimit)
	assert.Equal(t, db.DefaultConnectionConfig(), cfg.Database.Pool())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	setSecrets(t)
	path := writeYAML(t, `
server:
  addr: ":9000"
  request_timeout: 5s
database:
  driver: postgres
  url: postgres://blog@localhost/blog
pagination:
  list_page_size: 20
  search_page_size: 30
validation:
  comment_max_length: 500
security:
  trusted_proxies: ["10.0.0.0/8"]
  login_rate_limit: 3
  csp_report_uri: /csp-report
`)
	t.Setenv("SEARCH_PAGE_SIZE", "40")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, db.DriverPostgres, cfg.Database.Driver, "postgres is an alias of pgx")
	assert.Equal(t, 20, cfg.Pagination.ListPageSize)
	assert.Equal(t, 40, cfg.Pagination.SearchPageSize, "environment wins over the file")
	assert.Equal(t, 500, cfg.Validation.CommentMaxLength)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Security.TrustedProxies)
	assert.Equal(t, 3, cfg.Security.LoginRateLimit)
	assert.Equal(t, "/csp-report", cfg.Security.CSPReportURI)
}

func TestLoad_ConfigFromEnvVariable(t *testing.T) {
	setSecrets(t)
	t.Setenv("BLOG_CONFIG", writeYAML(t, "log:\n  level: debug\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown key", yaml: "server:\n  port: 80\n", wantErr: "field port not found"},
		{name: "missing secret", env: map[string]string{"SESSION_SECRET": ""}, wantErr: "SESSION_SECRET: is required"},
		{name: "short secret", env: map[string]string{"CSRF_SECRET": "short"}, wantErr: "CSRF_SECRET: must be at least 32 bytes"},
		{name: "placeholder secret", env: map[string]string{"FLASH_HASH_KEY": "changeme-changeme-changeme-changeme"}, wantErr: `must not contain "changeme"`},
		{name: "repeated secret", env: map[string]string{"SESSION_SECRET": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}, wantErr: "single character"},
		{name: "list page size", env: map[string]string{"LIST_PAGE_SIZE": "0"}, wantErr: "list_page_size"},
		{name: "search page size", env: map[string]string{"SEARCH_PAGE_SIZE": "-1"}, wantErr: "search_page_size"},
		{name: "comment as long as article", env: map[string]string{"COMMENT_MAX_LENGTH": "20000"}, wantErr: "comment_max_length"},
		{name: "driver", env: map[string]string{"DB_DRIVER": "mysql"}, wantErr: `driver "mysql"`},
		{name: "session ttl", env: map[string]string{"SESSION_TTL": "1s"}, wantErr: "session ttl"},
		{name: "rate limit", env: map[string]string{"LOGIN_RATE_LIMIT": "-1"}, wantErr: "login_rate_limit"},
		{name: "proxy cidr", env: map[string]string{"TRUSTED_PROXIES": "10.0.0.1"}, wantErr: "trusted proxy"},
		{name: "csp report uri", env: map[string]string{"CSP_REPORT_URI": "csp-report"}, wantErr: "csp_report_uri"},
		{name: "password policy", yaml: "security:\n  password:\n    min_length: 4\n", wantErr: "min_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setSecrets(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeYAML(t, tt.yaml)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	setSecrets(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestSecurityConfig_PasswordRequirements(t *testing.T) {
	s := DefaultSecurity()
	s.Password.MinLength = 12
	s.Password.WeakPasswords = []string{"hunter2"}

	req := s.PasswordRequirements()
	assert.Equal(t, 12, req.MinPasswordLength)
	assert.Equal(t, []string{"hunter2"}, req.WeakPasswords)
	assert.NoError(t, s.Validate())
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("BLOG_CONFIG", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Read("")
	require.NoError(t, err, "secrets are not needed to read")
	require.NoError(t, cfg.Database.Validate())
	assert.Equal(t, db.DriverPostgres, cfg.Database.Driver)
}

func TestLoad_Metrics(t *testing.T) {
	setSecrets(t)
	before := testutil.ToFloat64(validationErrorsTotal.WithLabelValues("pagination"))

	t.Setenv("LIST_PAGE_SIZE", "0")
	_, err := Load("")
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(validationErrorsTotal.WithLabelValues("pagination")))

	t.Setenv("LIST_PAGE_SIZE", "10")
	_, err = Load("")
	require.NoError(t, err)
	assert.Greater(t, testutil.ToFloat64(loadTimestamp), 0.0)
}

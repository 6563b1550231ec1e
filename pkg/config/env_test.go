package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("BLOG_TEST_ADDR", ":9090")
	assert.Equal(t, ":9090", GetEnvString("BLOG_TEST_ADDR", ":8080"))
	assert.Equal(t, ":8080", GetEnvString("BLOG_TEST_UNSET", ":8080"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 10},
		{"valid", "25", 25},
		{"surrounding spaces", " 7 ", 7},
		{"negative", "-3", -3},
		{"not a number", "ten", 10},
		{"trailing garbage", "12abc", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BLOG_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("BLOG_TEST_INT", 10))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"false", false},
		{"0", false},
		{"TRUE", true},
		{"yes", true}, // invalid, default kept
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BLOG_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("BLOG_TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("BLOG_TEST_TTL", "90m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("BLOG_TEST_TTL", time.Hour))

	t.Setenv("BLOG_TEST_TTL", "soon")
	assert.Equal(t, time.Hour, GetEnvDuration("BLOG_TEST_TTL", time.Hour))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("BLOG_TEST_LIST", "10.0.0.0/8, ,172.16.0.0/12 ,")
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12"}, GetEnvStringList("BLOG_TEST_LIST", nil))

	t.Setenv("BLOG_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("BLOG_TEST_LIST", []string{"x"}))
}

func TestValidateDurationRange(t *testing.T) {
	assert.NoError(t, ValidateDurationRange(time.Hour, time.Minute, 24*time.Hour))
	assert.Error(t, ValidateDurationRange(time.Second, time.Minute, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Minute, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Minute))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.NoError(t, ValidateNonNegativeDuration(0))
}

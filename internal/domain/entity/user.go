package entity

import (
	"slices"
	"strings"
	"time"
)

// Role names stored on users.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a registered account. Every user implicitly holds RoleUser.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Pseudonym    string
	RegisteredAt time.Time
	Roles        []string
}

// EffectiveRoles returns the stored roles plus RoleUser, without duplicates.
func (u User) EffectiveRoles() []string {
	roles := make([]string, 0, len(u.Roles)+1)
	roles = append(roles, RoleUser)
	for _, r := range u.Roles {
		if r != "" && !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasRole reports whether the user holds role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.EffectiveRoles(), role)
}

// FormatRoles encodes roles for storage in a single text column.
func FormatRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// ParseRoles decodes a roles column written by FormatRoles.
func ParseRoles(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

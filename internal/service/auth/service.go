// Package auth checks user credentials and registers accounts.
// It is framework-agnostic: the HTTP login handler and the operator CLI both
// go through it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by Lookup when the user no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// Credentials represents authentication credentials.
type Credentials struct {
	Email    string
	Password string
}

// Service handles authentication business logic.
type Service struct {
	Users        repository.UserRepository
	Requirements CredentialRequirements

	// Cost is the bcrypt cost for new hashes. Zero means bcrypt.DefaultCost.
	Cost int

	// Now stamps registration dates. Nil means time.Now.
	Now func() time.Time
}

// NewService creates an authentication service with the default password policy.
func NewService(users repository.UserRepository) *Service {
	return &Service{Users: users, Requirements: DefaultRequirements()}
}

// dummyHash keeps unknown-email logins as slow as wrong-password logins.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("blog-publication-dummy"), bcrypt.DefaultCost)

// Authenticate returns the user owning creds.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*entity.User, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Lookup returns the user with id, used to rebuild the principal of a session.
func (s *Service) Lookup(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// RegisterInput describes an account created by an operator.
type RegisterInput struct {
	Email     string
	Pseudonym string
	Password  string
	Roles     []string
}

// Register creates an account after checking the password policy.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.TrimSpace(in.Email)
	pseudonym := strings.TrimSpace(in.Pseudonym)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("register: invalid email %q", email)
	}
	if pseudonym == "" {
		return nil, errors.New("register: pseudonym must not be empty")
	}
	if err := s.Requirements.Check(in.Password); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := HashPassword(in.Password, s.Cost)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Pseudonym:    pseudonym,
		RegisteredAt: now(),
		Roles:        in.Roles,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// HashPassword hashes password with bcrypt at cost (bcrypt.DefaultCost when 0).
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

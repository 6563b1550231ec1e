package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

// stubUsers is an in-memory UserRepository.
type stubUsers struct {
	byID   map[int64]*entity.User
	nextID int64
	err    error
}

func newStubUsers() *stubUsers {
	return &stubUsers{byID: map[int64]*entity.User{}, nextID: 1}
}

func (s *stubUsers) Get(_ context.Context, id int64) (*entity.User, error) {
	return s.byID[id], s.err
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) Create(_ context.Context, u *entity.User) error {
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.byID[u.ID] = u
	return nil
}

func newTestService() (*Service, *stubUsers) {
	users := newStubUsers()
	svc := NewService(users)
	svc.Cost = bcrypt.MinCost
	svc.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, users
}

func TestService_RegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: " Admin@Example.com ", Pseudonym: "Batman",
		Password: "correct-horse-battery", Roles: []string{entity.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, "Admin@Example.com", u.Email)
	assert.NotEqual(t, "correct-horse-battery", u.PasswordHash)
	assert.True(t, u.HasRole(entity.RoleAdmin))

	got, err := svc.Authenticate(ctx, Credentials{Email: "admin@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "wrong password", creds: Credentials{Email: "admin@example.com", Password: "nope"}},
		{name: "unknown email", creds: Credentials{Email: "ghost@example.com", Password: "correct-horse-battery"}},
		{name: "empty email", creds: Credentials{Password: "correct-horse-battery"}},
		{name: "empty password", creds: Credentials{Email: "admin@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.creds)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestService_Register_Rejects(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Pseudonym: "x", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(ctx, RegisterInput{Email: "not-an-email", Pseudonym: "x", Password: "long-enough-pass"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Pseudonym: " ", Password: "long-enough-pass"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Pseudonym: "x", Password: "long-enough-pass"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.C", Pseudonym: "y", Password: "long-enough-pass"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestService_Lookup(t *testing.T) {
	svc, users := newTestService()
	users.byID[4] = &entity.User{ID: 4, Pseudonym: "Robin"}

	got, err := svc.Lookup(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Robin", got.Pseudonym)

	_, err = svc.Lookup(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)

	users.err = errors.New("db down")
	_, err = svc.Lookup(context.Background(), 4)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestCredentialRequirements_Check(t *testing.T) {
	req := DefaultRequirements()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "passphrase", password: "correct-horse-battery", wantErr: false},
		{name: "too short", password: "abc", wantErr: true},
		{name: "repeated", password: "aaaaaaaaaaaa", wantErr: true},
		{name: "ascending digits", password: "1234567890", wantErr: true},
		{name: "descending digits", password: "0987654321", wantErr: true},
		{name: "keyboard row", password: "xxqwertyuiopxx", wantErr: true},
		{name: "reversed keyboard row", password: "poiuytrewq12", wantErr: true},
		{name: "padded common password", password: "password2024", wantErr: true},
		{name: "common prefix but long", password: "password-is-a-long-phrase", wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := req.Check(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

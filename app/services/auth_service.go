// Package services holds the business logic between controllers and
// the store.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/auth"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/metrics"
)

// ErrInvalidCredentials is returned for every login failure. Unknown
// username and wrong password produce the same error so a caller
// cannot probe which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Seed admin created when the store holds no admin at all.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// AuthService implements the admin gate: login, token issue and the
// one-time seed-admin bootstrap.
type AuthService struct {
	store     store.Store
	bootstrap sync.Once
}

func NewAuthService(s store.Store) *AuthService {
	return &AuthService{store: s}
}

// Login resolves username+password to an admin record. Password
// comparison runs even when the username is unknown, keeping timing
// roughly uniform across both failure cases.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		auth.CheckPassword(dummyHash, password)
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(admin.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return admin, nil
}

// IssueToken returns a Bearer JWT for non-browser admin clients.
func (s *AuthService) IssueToken(admin *models.Admin) (string, error) {
	return auth.GenerateToken(admin.ID, admin.Username)
}

// EnsureDefaultAdmin creates the seed admin when no admin record
// exists yet. It runs at most once per process, before the server
// accepts requests, so concurrent first requests cannot race to
// create duplicates.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	var err error
	s.bootstrap.Do(func() {
		var existing *models.Admin
		existing, err = s.store.GetAdminByUsername(ctx, DefaultAdminUsername)
		if err != nil || existing != nil {
			return
		}

		var hash string
		hash, err = auth.HashPassword(DefaultAdminPassword)
		if err != nil {
			return
		}
		_, err = s.store.CreateAdmin(ctx, models.InsertAdmin{
			Username: DefaultAdminUsername,
			Password: hash,
		})
		if err == nil {
			logger.Info("auth: seed admin created", "username", DefaultAdminUsername)
		}
	})
	return err
}

// dummyHash is a bcrypt hash of a throwaway value, compared against
// when the username does not exist.
var dummyHash = func() string {
	h, _ := auth.HashPassword("charvi-dummy-credential")
	return h
}()

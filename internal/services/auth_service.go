package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidSecret = errors.New("invalid admin secret")

const minSecretLength = 8

// Authenticator decides whether a presented shared secret grants operator access.
type Authenticator interface {
	Authenticate(ctx context.Context, secret string) error
}

// SecretAuthenticator checks the secret stored in admin_config. The stored
// value may be a bcrypt hash or plain text. When the store cannot be read and
// a fallback secret is configured, the fallback is checked instead.
type SecretAuthenticator struct {
	store    repository.Store
	fallback string
	log      logrus.FieldLogger
}

func NewSecretAuthenticator(store repository.Store, fallback string, log logrus.FieldLogger) *SecretAuthenticator {
	return &SecretAuthenticator{store: store, fallback: fallback, log: log}
}

func (a *SecretAuthenticator) Authenticate(ctx context.Context, secret string) error {
	if secret == "" {
		return ErrInvalidSecret
	}

	stored, err := a.store.GetConfig(ctx, models.AdminPasswordKey)
	if err != nil {
		if a.fallback == "" {
			if errors.Is(err, repository.ErrNotFound) {
				a.log.Warn("no admin secret configured, refusing login")
				return ErrInvalidSecret
			}
			return fmt.Errorf("read admin secret: %w", err)
		}
		a.log.WithError(err).Warn("admin secret unavailable, checking fallback secret")
		stored = a.fallback
	}

	if !matchSecret(stored, secret) {
		return ErrInvalidSecret
	}
	return nil
}

func matchSecret(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// HashSecret is how new secrets are written to admin_config.
func HashSecret(secret string) (string, error) {
	if len(secret) < minSecretLength {
		return "", &models.ValidationError{Field: "secret", Message: fmt.Sprintf("Secret must be at least %d characters.", minSecretLength)}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// EnsureAdminSecret stores secret when admin_config has no secret yet.
func EnsureAdminSecret(ctx context.Context, store repository.Store, secret string) error {
	if secret == "" {
		return nil
	}
	_, err := store.GetConfig(ctx, models.AdminPasswordKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hashed, err := HashSecret(secret)
	if err != nil {
		return err
	}
	return store.SetConfig(ctx, models.AdminPasswordKey, hashed)
}

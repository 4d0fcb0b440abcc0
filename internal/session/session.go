package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/security"
	log "github.com/sirupsen/logrus"
)

// Storage keys for the two session values.
const (
	KeyToken = "authToken"
	KeyUser  = "userData"
)

// DefaultExpiry is the lifetime of a freshly saved session.
const DefaultExpiry = 7 * 24 * time.Hour

var (
	// ErrNoUser indicates no user record is stored.
	ErrNoUser = errors.New("session: no user")
	// ErrCorruptUser indicates the stored user record cannot be decoded.
	ErrCorruptUser = errors.New("session: corrupt user record")
)

// Store holds the bearer token and user copy for the signed-in account.
type Store struct {
	backend Backend
	sealer  *security.Sealer
	expiry  time.Duration
	now     func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithSealer encrypts stored values with sealer.
func WithSealer(sealer *security.Sealer) Option {
	return func(s *Store) { s.sealer = sealer }
}

// WithExpiry overrides the session lifetime.
func WithExpiry(expiry time.Duration) Option {
	return func(s *Store) {
		if expiry > 0 {
			s.expiry = expiry
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Store over backend.
func New(backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("session: nil backend")
	}
	s := &Store{backend: backend, expiry: DefaultExpiry, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save persists token and user with a fresh expiry, replacing any existing session.
// When the user write fails the token is removed again.
func (s *Store) Save(ctx context.Context, token string, user market.User) error {
	if s == nil || s.backend == nil {
		return fmt.Errorf("session: not initialized")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	userJSON, errMarshal := json.Marshal(user)
	if errMarshal != nil {
		return fmt.Errorf("session: marshal user: %w", errMarshal)
	}

	sealedToken, errSeal := s.seal(token)
	if errSeal != nil {
		return errSeal
	}
	sealedUser, errSeal := s.seal(string(userJSON))
	if errSeal != nil {
		return errSeal
	}

	expiresAt := s.now().Add(s.expiry)
	if errSet := s.backend.Set(ctx, KeyToken, sealedToken, expiresAt); errSet != nil {
		return fmt.Errorf("session: save token: %w", errSet)
	}
	if errSet := s.backend.Set(ctx, KeyUser, sealedUser, expiresAt); errSet != nil {
		errSave := fmt.Errorf("session: save user: %w", errSet)
		// A token without its user must not leave the session active.
		if errDelete := s.backend.Delete(ctx, KeyToken); errDelete != nil {
			return errors.Join(errSave, fmt.Errorf("session: roll back token: %w", errDelete))
		}
		return errSave
	}
	return nil
}

// Clear removes both session values. Clearing an empty session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.backend == nil {
		return fmt.Errorf("session: not initialized")
	}
	var errs []error
	for _, key := range []string{KeyToken, KeyUser} {
		if errDelete := s.backend.Delete(ctx, key); errDelete != nil {
			errs = append(errs, fmt.Errorf("session: clear %s: %w", key, errDelete))
		}
	}
	return errors.Join(errs...)
}

// Token returns the stored bearer token, or "" when absent or expired.
func (s *Store) Token(ctx context.Context) string {
	if s == nil || s.backend == nil {
		return ""
	}
	raw, ok, errGet := s.backend.Get(ctx, KeyToken)
	if errGet != nil {
		log.WithError(errGet).Warn("session: read token")
		return ""
	}
	if !ok {
		return ""
	}
	token, errOpen := s.open(raw)
	if errOpen != nil {
		log.WithError(errOpen).Warn("session: unseal token")
		return ""
	}
	return token
}

// IsActive reports whether a token is present and unexpired.
func (s *Store) IsActive(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// LoadUser returns the stored user, ErrNoUser when none is stored,
// or an error wrapping ErrCorruptUser when the stored value cannot be decoded.
func (s *Store) LoadUser(ctx context.Context) (*market.User, error) {
	if s == nil || s.backend == nil {
		return nil, fmt.Errorf("session: not initialized")
	}
	raw, ok, errGet := s.backend.Get(ctx, KeyUser)
	if errGet != nil {
		return nil, fmt.Errorf("session: read user: %w", errGet)
	}
	if !ok || raw == "" {
		return nil, ErrNoUser
	}
	plain, errOpen := s.open(raw)
	if errOpen != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUser, errOpen)
	}
	var user market.User
	if errParse := json.Unmarshal([]byte(plain), &user); errParse != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUser, errParse)
	}
	return &user, nil
}

// CurrentUser returns the stored user or nil. Decode failures are logged and
// reported as absent; the stored value is left untouched.
func (s *Store) CurrentUser(ctx context.Context) *market.User {
	user, err := s.LoadUser(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoUser) {
			log.WithError(err).Warn("session: load user")
		}
		return nil
	}
	return user
}

func (s *Store) seal(value string) (string, error) {
	if s.sealer == nil {
		return value, nil
	}
	sealed, errSeal := s.sealer.Seal(value)
	if errSeal != nil {
		return "", fmt.Errorf("session: seal value: %w", errSeal)
	}
	return sealed, nil
}

func (s *Store) open(value string) (string, error) {
	if s.sealer == nil {
		return value, nil
	}
	return s.sealer.Open(value)
}

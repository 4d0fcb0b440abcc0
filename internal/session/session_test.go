package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/security"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	store, err := New(backend, opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, backend
}

func TestStore_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	user := market.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if err := store.Save(ctx, "tok-1", user); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.IsActive(ctx) {
		t.Fatalf("expected active session")
	}
	if got := store.Token(ctx); got != "tok-1" {
		t.Fatalf("expected token=%q, got %q", "tok-1", got)
	}
	current := store.CurrentUser(ctx)
	if current == nil || current.Email != "ada@example.com" {
		t.Fatalf("expected stored user, got %+v", current)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_ = store.Save(ctx, "first", market.User{ID: "u1"})
	_ = store.Save(ctx, "second", market.User{ID: "u2"})

	if got := store.Token(ctx); got != "second" {
		t.Fatalf("expected token=%q, got %q", "second", got)
	}
	if current := store.CurrentUser(ctx); current == nil || current.ID != "u2" {
		t.Fatalf("expected user u2, got %+v", current)
	}
}

type failingUserBackend struct {
	*MemoryBackend
}

func (b failingUserBackend) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	if key == KeyUser {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, value, expiresAt)
}

func TestStore_SaveRollsBackTokenWhenUserWriteFails(t *testing.T) {
	ctx := context.Background()
	store, err := New(failingUserBackend{MemoryBackend: NewMemoryBackend()})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if errSave := store.Save(ctx, "tok-1", market.User{ID: "u1"}); errSave == nil {
		t.Fatalf("expected save error")
	}
	if store.IsActive(ctx) || store.Token(ctx) != "" {
		t.Fatalf("expected inactive session after failed save, got token=%q", store.Token(ctx))
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear empty: %v", err)
	}
	_ = store.Save(ctx, "tok", market.User{ID: "u1"})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	if store.IsActive(ctx) {
		t.Fatalf("expected inactive session after clear")
	}
	if store.CurrentUser(ctx) != nil {
		t.Fatalf("expected no user after clear")
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store, backend := newTestStore(t, WithClock(func() time.Time { return now }))
	backend.now = func() time.Time { return now.Add(7*24*time.Hour - time.Second) }

	_ = store.Save(ctx, "tok", market.User{ID: "u1"})
	if !store.IsActive(ctx) {
		t.Fatalf("expected session active just before expiry")
	}

	backend.now = func() time.Time { return now.Add(7 * 24 * time.Hour) }
	if store.IsActive(ctx) {
		t.Fatalf("expected session expired after 7 days")
	}
	if store.CurrentUser(ctx) != nil {
		t.Fatalf("expected expired user to read as absent")
	}
}

func TestStore_CorruptUser(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	_ = backend.Set(ctx, KeyUser, "{not json", time.Now().Add(time.Hour))

	if store.CurrentUser(ctx) != nil {
		t.Fatalf("expected corrupt user to read as nil")
	}
	if _, err := store.LoadUser(ctx); !errors.Is(err, ErrCorruptUser) {
		t.Fatalf("expected ErrCorruptUser, got %v", err)
	}
	raw, ok, _ := backend.Get(ctx, KeyUser)
	if !ok || raw != "{not json" {
		t.Fatalf("expected raw value untouched, got %q (ok=%v)", raw, ok)
	}
}

func TestStore_LoadUserAbsent(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.LoadUser(context.Background()); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestStore_Sealed(t *testing.T) {
	ctx := context.Background()
	sealer, err := security.NewSealer("s3cret")
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	store, backend := newTestStore(t, WithSealer(sealer))

	_ = store.Save(ctx, "tok-sealed", market.User{ID: "u1"})
	raw, _, _ := backend.Get(ctx, KeyToken)
	if raw == "tok-sealed" {
		t.Fatalf("expected sealed token at rest")
	}
	if got := store.Token(ctx); got != "tok-sealed" {
		t.Fatalf("expected token=%q, got %q", "tok-sealed", got)
	}

	other, _ := security.NewSealer("other")
	foreign, _ := New(backend, WithSealer(other))
	if foreign.IsActive(ctx) {
		t.Fatalf("expected token sealed with another key to read as absent")
	}
	if _, errLoad := foreign.LoadUser(ctx); !errors.Is(errLoad, ErrCorruptUser) {
		t.Fatalf("expected ErrCorruptUser, got %v", errLoad)
	}
}

func TestStore_Claims(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, err := store.Claims(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "u1",
		"role": "admin",
		"exp":  exp.Unix(),
	})
	signed, errSign := token.SignedString([]byte("backend-key"))
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}
	_ = store.Save(ctx, signed, market.User{ID: "u1"})

	claims, err := store.Claims(ctx)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expires_at=%s, got %v", exp, claims.ExpiresAt)
	}
}

func TestPeekClaims_Opaque(t *testing.T) {
	if _, err := PeekClaims("opaque-token"); err == nil {
		t.Fatalf("expected error for non-JWT token")
	}
}

package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Signup creates an account and stores the returned session.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Envelope[AuthData], error) {
	env, err := call[AuthData](ctx, c, OpSignup, http.MethodPost, "/api/auth/signup", nil, req)
	if err != nil {
		return nil, err
	}
	if errSave := c.persistSession(ctx, env); errSave != nil {
		return nil, errSave
	}
	return env, nil
}

// Login authenticates with credentials and stores the returned session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Envelope[AuthData], error) {
	env, err := call[AuthData](ctx, c, OpLogin, http.MethodPost, "/api/auth/login", nil, req)
	if err != nil {
		return nil, err
	}
	if errSave := c.persistSession(ctx, env); errSave != nil {
		return nil, errSave
	}
	return env, nil
}

// persistSession saves the session only for a successful envelope carrying a token.
func (c *Client) persistSession(ctx context.Context, env *Envelope[AuthData]) error {
	if env == nil || !env.Success || strings.TrimSpace(env.Data.Token) == "" {
		return nil
	}
	if errSave := c.session.Save(ctx, env.Data.Token, env.Data.User); errSave != nil {
		return fmt.Errorf("market: save session: %w", errSave)
	}
	return nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken indicates no bearer token is stored.
var ErrNoToken = errors.New("session: no token")

// Claims is an unverified view of the bearer token, for display only.
type Claims struct {
	Subject   string     `json:"subject,omitempty"`
	Role      string     `json:"role,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Claims decodes the stored token's payload without verifying its signature.
func (s *Store) Claims(ctx context.Context) (*Claims, error) {
	token := s.Token(ctx)
	if token == "" {
		return nil, ErrNoToken
	}
	return PeekClaims(token)
}

// PeekClaims decodes a JWT payload without verifying its signature.
func PeekClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, errParse := jwt.NewParser().ParseUnverified(token, mapClaims); errParse != nil {
		return nil, fmt.Errorf("session: parse token claims: %w", errParse)
	}

	out := &Claims{}
	if sub, errSub := mapClaims.GetSubject(); errSub == nil && sub != "" {
		out.Subject = sub
	} else if id, ok := mapClaims["id"].(string); ok {
		out.Subject = id
	} else if id, ok := mapClaims["userId"].(string); ok {
		out.Subject = id
	}
	if role, ok := mapClaims["role"].(string); ok {
		out.Role = role
	}
	if iat, errIat := mapClaims.GetIssuedAt(); errIat == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	if exp, errExp := mapClaims.GetExpirationTime(); errExp == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

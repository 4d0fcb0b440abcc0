package handlers

import (
	"context"

	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/session"
	"github.com/router-for-me/ModelMarket/internal/views"
)

// MarketClient is the backend surface the console handlers use.
type MarketClient interface {
	views.ModelGetter
	views.AdminClient
	Signup(ctx context.Context, req market.SignupRequest) (*market.Envelope[market.AuthData], error)
	Login(ctx context.Context, req market.LoginRequest) (*market.Envelope[market.AuthData], error)
	Logout(ctx context.Context) error
	ListMyModels(ctx context.Context) (*market.Envelope[market.ModelList], error)
	UploadModel(ctx context.Context, req market.UploadRequest) (*market.Envelope[market.UploadData], error)
}

// SessionReader exposes the stored session to the console.
type SessionReader interface {
	IsActive(ctx context.Context) bool
	CurrentUser(ctx context.Context) *market.User
	Claims(ctx context.Context) (*session.Claims, error)
}

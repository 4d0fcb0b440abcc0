package console

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/http/api/console/handlers"
	"github.com/router-for-me/ModelMarket/internal/ratelimit"
)

// Deps carries the collaborators the console routes need.
type Deps struct {
	Client  handlers.MarketClient
	Session handlers.SessionReader
	Limiter *ratelimit.Manager
}

// RegisterConsoleRoutes registers console routes, middleware, and handlers.
func RegisterConsoleRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.Client == nil || deps.Session == nil {
		return
	}

	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(requestLogMiddleware())

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/v0")
	api.Use(rateLimitMiddleware(deps.Limiter))

	sessionHandler := handlers.NewSessionHandler(deps.Session)
	api.GET("/session", sessionHandler.Get)

	authHandler := handlers.NewAuthHandler(deps.Client)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/logout", authHandler.Logout)

	homeHandler := handlers.NewHomeHandler(deps.Client)
	api.GET("/home", homeHandler.Get)

	modelHandler := handlers.NewModelHandler(deps.Client)
	api.GET("/models/:id", modelHandler.Get)

	authed := api.Group("")
	authed.Use(sessionRequiredMiddleware(deps.Session))
	authed.GET("/models/mine", modelHandler.Mine)
	authed.POST("/models", modelHandler.Upload)

	moderationHandler := handlers.NewModerationHandler(deps.Client)
	authed.GET("/admin/models", moderationHandler.List)
	authed.PUT("/admin/models/:id/status", moderationHandler.UpdateStatus)
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/market"
)

// LoginRedirect is where the console sends the browser after logout.
const LoginRedirect = "/login"

// AuthHandler forwards credential flows to the backend.
type AuthHandler struct {
	client MarketClient
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(client MarketClient) *AuthHandler {
	return &AuthHandler{client: client}
}

// Login exchanges credentials for a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var body market.LoginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	env, errLogin := h.client.Login(c.Request.Context(), body)
	if errLogin != nil {
		respondError(c, errLogin)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Signup creates an account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var body market.SignupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	env, errSignup := h.client.Signup(c.Request.Context(), body)
	if errSignup != nil {
		respondError(c, errSignup)
		return
	}
	c.JSON(http.StatusCreated, env)
}

// Logout clears the stored session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if errLogout := h.client.Logout(c.Request.Context()); errLogout != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear session failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": LoginRedirect})
}

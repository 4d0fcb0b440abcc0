package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/views"
)

// ModelHandler serves single records and the caller's uploads.
type ModelHandler struct {
	client MarketClient
}

// NewModelHandler constructs a ModelHandler.
func NewModelHandler(client MarketClient) *ModelHandler {
	return &ModelHandler{client: client}
}

// Get renders the detail view for an id or slug.
func (h *ModelHandler) Get(c *gin.Context) {
	detail := views.NewDetail(h.client)
	view := detail.Load(c.Request.Context(), c.Param("id")).View()
	if view.Error != "" {
		c.JSON(http.StatusNotFound, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Mine lists the caller's uploads.
func (h *ModelHandler) Mine(c *gin.Context) {
	env, errList := h.client.ListMyModels(c.Request.Context())
	if errList != nil {
		respondError(c, errList)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Upload submits a new model for review.
func (h *ModelHandler) Upload(c *gin.Context) {
	var body market.UploadRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	env, errUpload := h.client.UploadModel(c.Request.Context(), body)
	if errUpload != nil {
		respondError(c, errUpload)
		return
	}
	c.JSON(http.StatusCreated, env)
}

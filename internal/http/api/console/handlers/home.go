package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/views"
)

// HomeHandler renders the browse page.
type HomeHandler struct {
	client MarketClient
}

// NewHomeHandler constructs a HomeHandler.
func NewHomeHandler(client MarketClient) *HomeHandler {
	return &HomeHandler{client: client}
}

// Get loads the catalogue and applies the filters given in the query string.
func (h *HomeHandler) Get(c *gin.Context) {
	home := views.NewHome(h.client)
	home.Load(c.Request.Context())

	if search := c.Query("search"); search != "" {
		home.Dispatch(views.SearchChanged{Query: search})
	}
	if chip := strings.TrimSpace(c.Query("chip")); chip != "" {
		home.Dispatch(views.ChipSelected{Chip: chip})
	}
	for _, category := range c.QueryArray("category") {
		home.Dispatch(views.CategoryToggled{Category: category})
	}
	for _, pricing := range c.QueryArray("pricing") {
		home.Dispatch(views.PricingToggled{Pricing: pricing})
	}
	for _, capability := range c.QueryArray("capability") {
		home.Dispatch(views.CapabilityToggled{Capability: capability})
	}

	c.JSON(http.StatusOK, home.State().Sections())
}

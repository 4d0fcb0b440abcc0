package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/market"
)

// statusForError maps a client error onto the console response status.
// Backend HTTP errors keep their status; transport and envelope failures become 502.
func statusForError(err error) int {
	var apiErr *market.Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch {
	case apiErr.Status >= http.StatusBadRequest:
		return apiErr.Status
	case apiErr.Status == 0 || apiErr.Err != nil:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// respondError writes err as {"error": message}.
func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/views"
)

// ModerationHandler serves the admin review queue.
type ModerationHandler struct {
	client MarketClient
}

// NewModerationHandler constructs a ModerationHandler.
func NewModerationHandler(client MarketClient) *ModerationHandler {
	return &ModerationHandler{client: client}
}

type updateStatusRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

// List renders the queue for the status query (default pending).
func (h *ModerationHandler) List(c *gin.Context) {
	filter, ok := statusFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	admin := views.NewAdmin(h.client)
	c.JSON(http.StatusOK, loadFiltered(c, admin, filter).View())
}

// UpdateStatus moves a record to a new status and returns the refreshed queue.
// The queue is refetched with the status query (default pending).
func (h *ModerationHandler) UpdateStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	filter, ok := statusFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	var body updateStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status, ok := market.ParseStatus(body.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	admin := views.NewAdmin(h.client)
	admin.Dispatch(views.StatusFilterChanged{Status: filter})
	admin.SetReason(id, body.RejectionReason)

	state, errUpdate := admin.RequestStatus(c.Request.Context(), id, status)
	if errUpdate != nil {
		code := statusForError(errUpdate)
		if errors.Is(errUpdate, views.ErrRejectionReasonRequired) {
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"error": userMessage(errUpdate), "view": state.View()})
		return
	}
	c.JSON(http.StatusOK, state.View())
}

func statusFilter(c *gin.Context) (string, bool) {
	filter := strings.ToLower(strings.TrimSpace(c.DefaultQuery("status", views.FilterPending)))
	if filter == "" {
		filter = views.FilterPending
	}
	return filter, views.ValidStatusFilter(filter)
}

// loadFiltered fetches the queue for filter. Fetch failures stay in the view's notices.
func loadFiltered(c *gin.Context, admin *views.Admin, filter string) views.AdminState {
	var state views.AdminState
	if filter == views.FilterPending {
		state, _ = admin.Load(c.Request.Context())
	} else {
		state, _ = admin.SetStatusFilter(c.Request.Context(), filter)
	}
	return state
}

func userMessage(err error) string {
	if errors.Is(err, views.ErrRejectionReasonRequired) {
		return views.RejectionReasonMessage
	}
	return err.Error()
}

package market

import (
	"context"
	"net/http"
	"net/url"
)

// ListPendingModels returns models awaiting moderation.
func (c *Client) ListPendingModels(ctx context.Context, params PageParams) (*Envelope[ModelList], error) {
	return call[ModelList](ctx, c, OpListPendingModels, http.MethodGet, "/api/models/admin/pending", params.QueryParams(), nil)
}

// ListAdminModels returns models of any status. Status "all" or "" disables the filter.
func (c *Client) ListAdminModels(ctx context.Context, params AdminListParams) (*Envelope[ModelList], error) {
	return call[ModelList](ctx, c, OpListAdminModels, http.MethodGet, "/api/models/admin/all", params.QueryParams(), nil)
}

// UpdateModelStatus moves a model to status. The reason is sent only when non-empty.
func (c *Client) UpdateModelStatus(ctx context.Context, id string, status Status, reason string) (*Envelope[ModelData], error) {
	body := StatusUpdate{Status: status, RejectionReason: reason}
	return call[ModelData](ctx, c, OpUpdateModelStatus, http.MethodPut, "/api/models/admin/"+url.PathEscape(id)+"/status", nil, body)
}

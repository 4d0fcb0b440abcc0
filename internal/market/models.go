package market

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ListModels returns approved models matching params.
func (c *Client) ListModels(ctx context.Context, params ListParams) (*Envelope[ModelList], error) {
	return call[ModelList](ctx, c, OpListModels, http.MethodGet, "/api/models", params.QueryParams(), nil)
}

// ListMyModels returns the models uploaded by the signed-in user.
func (c *Client) ListMyModels(ctx context.Context) (*Envelope[ModelList], error) {
	return call[ModelList](ctx, c, OpListMyModels, http.MethodGet, "/api/models/my-models", nil, nil)
}

// GetModel fetches a single model by id or slug.
func (c *Client) GetModel(ctx context.Context, idOrSlug string) (*Envelope[ModelData], error) {
	return call[ModelData](ctx, c, OpGetModel, http.MethodGet, "/api/models/"+url.PathEscape(strings.TrimSpace(idOrSlug)), nil, nil)
}

// UploadModel submits a new model for moderation.
func (c *Client) UploadModel(ctx context.Context, req UploadRequest) (*Envelope[UploadData], error) {
	return call[UploadData](ctx, c, OpUploadModel, http.MethodPost, "/api/models", nil, req)
}

package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Session is the token and user store the client reads and writes.
type Session interface {
	Token(ctx context.Context) string
	Save(ctx context.Context, token string, user User) error
	Clear(ctx context.Context) error
	CurrentUser(ctx context.Context) *User
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration     // 0 keeps the transport default.
	Headers map[string]string // Sent on every request.
}

// Client issues typed requests against the marketplace backend.
type Client struct {
	http    *resty.Client
	session Session
}

// NewClient constructs a Client bound to session.
func NewClient(opts Options, session Session) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("market: missing base url")
	}
	if session == nil {
		return nil, fmt.Errorf("market: nil session")
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	for key, value := range opts.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpClient.SetHeader(key, value)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	c := &Client{http: httpClient, session: session}
	httpClient.OnBeforeRequest(c.attachBearer)
	httpClient.OnAfterResponse(logResponse)
	return c, nil
}

// attachBearer adds the session token to outgoing requests.
func (c *Client) attachBearer(_ *resty.Client, req *resty.Request) error {
	if token := c.session.Token(req.Context()); token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	if resp == nil || resp.Request == nil {
		return nil
	}
	log.WithFields(log.Fields{
		"method":  resp.Request.Method,
		"url":     resp.Request.URL,
		"status":  resp.StatusCode(),
		"latency": resp.Time().String(),
	}).Debug("market: backend response")
	return nil
}

// call performs one round trip and decodes a success envelope into T.
func call[T any](ctx context.Context, c *Client, op Op, method, path string, query map[string]string, body any) (*Envelope[T], error) {
	if c == nil || c.http == nil {
		return nil, &Error{Op: op, Message: op.FallbackMessage(), Err: fmt.Errorf("market: client not initialized")}
	}

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, errExec := req.Execute(method, path)
	if errExec != nil {
		status := 0
		var raw []byte
		if resp != nil && resp.RawResponse != nil {
			status = resp.StatusCode()
			raw = resp.Body()
		}
		return nil, newError(op, status, raw, errExec)
	}

	raw := resp.Body()
	if !resp.IsSuccess() {
		return nil, newError(op, resp.StatusCode(), raw, nil)
	}

	if !gjson.ValidBytes(raw) {
		return nil, &Error{Op: op, Status: resp.StatusCode(), Message: op.FallbackMessage(), Err: ErrMalformedResponse}
	}
	if gjson.GetBytes(raw, "success").Type != gjson.True {
		return nil, newError(op, resp.StatusCode(), raw, nil)
	}

	var env Envelope[T]
	if errParse := json.Unmarshal(raw, &env); errParse != nil {
		return nil, &Error{
			Op:      op,
			Status:  resp.StatusCode(),
			Message: op.FallbackMessage(),
			Err:     fmt.Errorf("market: decode %s response: %w", op, errParse),
		}
	}
	return &env, nil
}

// IsAuthenticated reports whether a session token is present.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.session.Token(ctx) != ""
}

// Token returns the current session token.
func (c *Client) Token(ctx context.Context) string {
	return c.session.Token(ctx)
}

// CurrentUser returns the stored user, or nil.
func (c *Client) CurrentUser(ctx context.Context) *User {
	return c.session.CurrentUser(ctx)
}

// Logout clears the local session. No backend call is made.
func (c *Client) Logout(ctx context.Context) error {
	if errClear := c.session.Clear(ctx); errClear != nil {
		return fmt.Errorf("market: logout: %w", errClear)
	}
	return nil
}

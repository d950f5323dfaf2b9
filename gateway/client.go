package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CredentialProvider supplies the bearer token for upstream calls. The core
// never reads ambient storage; callers inject whatever token source applies.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials is a fixed-token provider, mainly for tests and tooling.
type StaticCredentials string

func (s StaticCredentials) Token(context.Context) (string, error) {
	return string(s), nil
}

type contextTokenKey struct{}

// WithToken stores a caller's bearer token on the context so it can be
// forwarded upstream.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextTokenKey{}, token)
}

// ContextCredentials forwards the bearer token of the request being served.
type ContextCredentials struct{}

func (ContextCredentials) Token(ctx context.Context) (string, error) {
	token, _ := ctx.Value(contextTokenKey{}).(string)
	if token == "" {
		return "", ErrUnauthorized
	}
	return token, nil
}

// Client is a thin JSON client for the marketplace backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Creds      CredentialProvider
	Logger     *zap.Logger
}

// NewClient builds a gateway client for the given base URL.
func NewClient(baseURL string, creds CredentialProvider, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Creds:      creds,
		Logger:     logger,
	}
}

// GetJSON performs a GET against path and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	return c.do(req, out)
}

// PostJSON performs a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	token, err := c.Creds.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var body errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.Error != "" {
				apiErr.Message = body.Error
			}
			apiErr.BranchInfo = body.BranchInfo
			apiErr.StoreInfo = body.StoreInfo
		}
		c.Logger.Debug("upstream returned error",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}

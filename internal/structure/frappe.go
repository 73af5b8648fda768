package structure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fbts/job-offer/pkg/constants"
	"go.uber.org/zap"
)

// FrappeClient fetches salary structures from a Frappe site through the
// whitelisted structure components method.
type FrappeClient struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	method     string
	httpClient *http.Client
	logger     *zap.Logger
}

// FrappeOption customises a FrappeClient.
type FrappeOption func(*FrappeClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) FrappeOption {
	return func(f *FrappeClient) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithMethod overrides the server method path.
func WithMethod(method string) FrappeOption {
	return func(f *FrappeClient) {
		if method != "" {
			f.method = method
		}
	}
}

// NewFrappeClient creates a client for the site at baseURL authenticating
// with an API key/secret pair. An empty key sends no Authorization header.
func NewFrappeClient(logger *zap.Logger, baseURL, apiKey, apiSecret string, opts ...FrappeOption) *FrappeClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &FrappeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		method:     constants.FrappeStructureMethod,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type frappeResponse struct {
	Message *Structure `json:"message"`
}

type frappeError struct {
	ExcType        string `json:"exc_type"`
	Exception      string `json:"exception"`
	ServerMessages string `json:"_server_messages"`
}

// Lookup implements Provider.
func (c *FrappeClient) Lookup(ctx context.Context, name string) (*Structure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	endpoint := fmt.Sprintf("%s/api/method/%s?%s", c.baseURL, c.method, url.Values{"structure": {name}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build structure request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salary structure %s: %w", name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.DefaultMaxUploadSizeBytes*4))
	if err != nil {
		return nil, fmt.Errorf("failed to read salary structure %s: %w", name, err)
	}

	c.logger.Debug("fetched salary structure",
		zap.String("op", "structure.FrappeClient.Lookup"),
		zap.String("structure", name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyFrappeError(name, resp.StatusCode, body)
	}

	var payload frappeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode salary structure %s: %w", name, err)
	}
	if payload.Message == nil {
		return nil, fmt.Errorf("%w: no components returned for %s", ErrNotFound, name)
	}
	if payload.Message.Name == "" {
		payload.Message.Name = name
	}
	return payload.Message, nil
}

func classifyFrappeError(name string, status int, body []byte) error {
	var fe frappeError
	_ = json.Unmarshal(body, &fe)
	detail := strings.TrimSpace(fe.Exception)
	if detail == "" {
		detail = http.StatusText(status)
	}

	switch {
	case status == http.StatusForbidden || fe.ExcType == "PermissionError":
		return fmt.Errorf("%w: %s", ErrPermission, name)
	case status == http.StatusNotFound || fe.ExcType == "DoesNotExistError":
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	case strings.Contains(strings.ToLower(detail+fe.ServerMessages), "not found"):
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("salary structure %s: frappe returned %d: %s", name, status, detail)
}

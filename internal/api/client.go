// Package api is the HTTP client for the food ordering backend. Every
// request carries the bearer token currently held in device storage.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"foodapp/internal/models"
	"foodapp/internal/storage"

	"github.com/rs/zerolog"
)

const (
	EndpointSignup      = "/signup"
	EndpointLogin       = "/login"
	EndpointLogout      = "/logout"
	EndpointAddFoodItem = "/add-food-item"
	EndpointMenu        = "/menu"
	EndpointProfile     = "/profile"

	tokenKey = "token"
)

var (
	ErrInvalidLoginResponse = errors.New("invalid login response from server")
	ErrMissingUser          = errors.New("response carried no user")
)

type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	tokens         storage.Store
	onUnauthorized func(ctx context.Context)
	logger         zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTokenStorage makes the client read the bearer token from st before
// every request.
func WithTokenStorage(st storage.Store) Option {
	return func(c *Client) {
		c.tokens = st
	}
}

// WithUnauthorizedHandler registers fn to run whenever the backend answers
// 401. The request still fails with an *APIError.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   strings.TrimSuffix(u.String(), "/"),
		userAgent: "FoodApp/1.0",
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// doRequest sends a JSON body (if any) and decodes the envelope's data into
// result. It returns the envelope message.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}, result interface{}) (string, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, endpoint, reqBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, result)
}

func (c *Client) send(req *http.Request, result interface{}) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := c.handleErrorResponse(resp)
		if apiErr.IsUnauthorized() && c.onUnauthorized != nil {
			c.onUnauthorized(req.Context())
		}
		return "", apiErr
	}

	var apiResp models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if !apiResp.Success {
		return apiResp.Message, fmt.Errorf("API error: %s", apiResp.Error)
	}

	if result != nil && len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, result); err != nil {
			return apiResp.Message, fmt.Errorf("unmarshaling response data: %w", err)
		}
	}
	return apiResp.Message, nil
}

// newRequest builds a request with the common headers and, when a token is
// stored, the Authorization header.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.tokens != nil {
		if token, err := c.tokens.Get(ctx, tokenKey); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.logger.Debug().Err(err).Msg("Token lookup failed, sending request without it")
		}
	}
	return req, nil
}

func (c *Client) handleErrorResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var apiResp models.APIResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && (apiResp.Error != "" || apiResp.Message != "") {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiResp.Message,
			ErrorCode:  apiResp.Error,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
		ErrorCode:  fmt.Sprintf("HTTP_%d", resp.StatusCode),
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.ErrorCode)
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

// ErrorMessage returns the text to show the user for err.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong"
}

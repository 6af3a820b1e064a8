// Package upstream is the client for the remote users.get API.
//
// Requests carry the caller's access token as an OAuth2 bearer token and are
// paced by a token-bucket limiter. Every user record in a response is
// validated through the model package before it is returned.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const usersGetPath = "/method/users.get"

// errorCodeAuthFailed is the API error code for an invalid or expired token.
const errorCodeAuthFailed = 5

// maxErrorBody bounds how much of a failed response is kept for the error message.
const maxErrorBody = 512

// Error is a failure reported by the upstream API, either through a non-2xx
// status or an "error" object in the response body.
type Error struct {
	StatusCode int
	Code       int
	Message    string

	// Err is the underlying cause, e.g. the validation failure of a record.
	Err error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// ErrUnauthorized is returned when upstream rejects the access token.
var ErrUnauthorized = &Error{StatusCode: http.StatusUnauthorized, Message: "access token rejected"}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == e || (t.StatusCode == e.StatusCode && t.Code == e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client calls the users API.
type Client struct {
	baseURL    *url.URL
	apiVersion string
	transport  http.RoundTripper
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the base HTTP transport (mostly for tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// NewClient builds a Client from the upstream config.
func NewClient(cfg config.UpstreamConfig, logger *zerolog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:    base,
		apiVersion: cfg.APIVersion,
		transport:  http.DefaultTransport,
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type usersGetResponse struct {
	Response []map[string]any `json:"response"`
	Error    *struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_msg"`
	} `json:"error"`
}

// GetUsers fetches the users with the given ids using token.
//
// At most model.MaxUsersPerRequest ids may be requested at once. An empty
// ids slice returns an empty result without calling upstream.
func (c *Client) GetUsers(ctx context.Context, token model.AccessTokenRequest, ids []int) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	if len(ids) > model.MaxUsersPerRequest {
		return nil, fmt.Errorf("too many user ids: %d (max %d)", len(ids), model.MaxUsersPerRequest)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL(ids), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build users request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	defer resp.Body.Close()

	log := c.logger.With().
		Str("operation", "users_get").
		Int("ids", len(ids)).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Logger()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.Warn().Msg("upstream rejected access token")
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error().Msg("upstream returned non-success status")
		return nil, &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload usersGetResponse
	if err := dec.Decode(&payload); err != nil {
		log.Error().Err(err).Msg("failed to decode upstream response")
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	if payload.Error != nil {
		log.Warn().Int("error_code", payload.Error.Code).Msg("upstream returned an error object")
		status := resp.StatusCode
		if payload.Error.Code == errorCodeAuthFailed {
			status = http.StatusUnauthorized
		}
		return nil, &Error{StatusCode: status, Code: payload.Error.Code, Message: payload.Error.Message}
	}

	users, err := model.NewUsers(payload.Response)
	if err != nil {
		log.Error().Err(err).Msg("upstream returned invalid user records")
		return nil, &Error{StatusCode: resp.StatusCode, Message: "invalid users response", Err: err}
	}

	log.Debug().Int("users", len(users)).Msg("users fetched")

	return users, nil
}

func (c *Client) usersURL(ids []int) string {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}

	q := url.Values{}
	q.Set("user_ids", strings.Join(strIDs, ","))
	q.Set("v", c.apiVersion)

	u := c.baseURL.JoinPath(usersGetPath)
	u.RawQuery = q.Encode()

	return u.String()
}

func (c *Client) httpClient(token model.AccessTokenRequest) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token.AccessToken,
				TokenType:   "Bearer",
			}),
			Base: c.transport,
		},
	}
}

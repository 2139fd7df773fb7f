package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/greenpulse/pulse-client/apimodel"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout = 10 * time.Second

	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-ID"
)

// TokenSource yields the access token to attach to outgoing requests. An
// empty token sends the request unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Refresher obtains a new access token after the server rejected the current
// one. On success the new token must be readable from the TokenSource.
type Refresher interface {
	RefreshToken(ctx context.Context) error
}

// Request describes one logical API call.
type Request struct {
	Method   string
	Endpoint string // Path relative to the base URL, e.g. "/api/user/profile"
	Body     any    // Marshalled as JSON; nil sends no body

	// SkipRefresh disables the refresh-and-retry on 401. The refresh call
	// itself is sent this way.
	SkipRefresh bool

	// OmitToken sends the request without the stored bearer token, as the
	// auth endpoints expect.
	OmitToken bool
}

// Client is the REST client shared by every service. It attaches the bearer
// token, enforces the timeout and on a 401 refreshes the token once and
// retries once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	timeout    time.Duration
	logger     zerolog.Logger
	newID      func() string

	refresher    Refresher
	refresherMu  sync.RWMutex
	refreshGroup singleflight.Group
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client (which carries a cookie jar).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per attempt timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithRefresher(refresher Refresher) ClientOption {
	return func(c *Client) {
		c.refresher = refresher
	}
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, tokens TokenSource, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[apiclient.New] token source is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("[apiclient.New] cookiejar: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		tokens:     tokens,
		timeout:    DefaultTimeout,
		logger:     log.Logger,
		newID:      uuid.NewString,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// SetRefresher registers the component that handles 401 responses. The auth
// manager registers itself when it is created.
func (c *Client) SetRefresher(refresher Refresher) {
	c.refresherMu.Lock()
	defer c.refresherMu.Unlock()
	c.refresher = refresher
}

func (c *Client) getRefresher() Refresher {
	c.refresherMu.RLock()
	defer c.refresherMu.RUnlock()
	return c.refresher
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends method to endpoint with an optional JSON body and returns the
// raw JSON response.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	return c.Send(ctx, Request{Method: method, Endpoint: endpoint, Body: body})
}

// Send performs req. A 401 on a request that carried a token triggers at most
// one refresh followed by at most one retry; the retry's outcome is final.
func (c *Client) Send(ctx context.Context, req Request) (json.RawMessage, error) {
	op := req.Method + " " + req.Endpoint

	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("[Client.Send] %s: %w", op, err)
	}

	var sentToken string
	if !req.OmitToken {
		if sentToken, err = c.tokens.AccessToken(ctx); err != nil {
			return nil, fmt.Errorf("[Client.Send] %s: read token: %w", op, err)
		}
	}

	resp, err := c.attempt(ctx, op, req, payload, sentToken)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && sentToken != "" && !req.SkipRefresh {
		if refresher := c.getRefresher(); refresher != nil {
			retryToken, err := c.refreshedToken(ctx, refresher, sentToken)
			if err != nil {
				return nil, fmt.Errorf("[Client.Send] %s: %w", op, err)
			}
			if resp, err = c.attempt(ctx, op, req, payload, retryToken); err != nil {
				return nil, err
			}
		}
	}

	return c.decode(op, resp)
}

// refreshedToken returns the token to retry with. When another call already
// replaced sentToken the new one is used without refreshing again; concurrent
// refreshes share a single round trip.
func (c *Client) refreshedToken(ctx context.Context, refresher Refresher, sentToken string) (string, error) {
	current, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if current != "" && current != sentToken {
		return current, nil
	}

	_, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		return nil, refresher.RefreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug().Bool("shared", shared).Msg("access token refreshed")

	if current, err = c.tokens.AccessToken(ctx); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return current, nil
}

type response struct {
	status     int
	statusText string
	body       []byte
}

func (c *Client) attempt(ctx context.Context, op string, req Request, payload []byte, token string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Endpoint, body)
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: err}
	}

	requestID := c.newID()
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(requestIDHeader, requestID)
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(httpReq)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := &apperrors.TransportError{Op: op, Err: classify(ctx, err)}
		c.logger.Warn().Err(transportErr).Str("request_id", requestID).Msg("API request failed")
		return nil, transportErr
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		transportErr := &apperrors.TransportError{Op: op, Err: classify(ctx, err)}
		c.logger.Warn().Err(transportErr).Str("request_id", requestID).Msg("API response read failed")
		return nil, transportErr
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("endpoint", req.Endpoint).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	return &response{
		status:     httpResp.StatusCode,
		statusText: strings.TrimSpace(strings.TrimPrefix(httpResp.Status, strconv.Itoa(httpResp.StatusCode))),
		body:       raw,
	}, nil
}

func (c *Client) decode(op string, resp *response) (json.RawMessage, error) {
	if resp.status < 200 || resp.status > 299 {
		message := apimodel.ErrorMessage(resp.body)
		if message == "" {
			statusText := resp.statusText
			if statusText == "" {
				statusText = http.StatusText(resp.status)
			}
			message = fmt.Sprintf("HTTP %d: %s", resp.status, statusText)
		}
		return nil, &apperrors.HTTPError{Status: resp.status, Message: message}
	}

	if resp.status == http.StatusNoContent && len(bytes.TrimSpace(resp.body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(resp.body) {
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("%w: body is not JSON", apperrors.ErrMalformedResponse)}
	}
	return json.RawMessage(resp.body), nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.ErrRequestExpired
	case errors.Is(err, context.Canceled):
		return context.Canceled
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return payload, nil
}

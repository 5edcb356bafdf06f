// Package gateway is the authenticated HTTP client every dashboard view
// talks through. It attaches the bearer credential, normalizes API errors
// and turns a 401 into a forced logout broadcast.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	"github.com/refi-rr/crypto-dss/internal/client/store"
)

const defaultTimeout = 20 * time.Second

// ErrUnauthorized is returned when the API rejects the credential. The
// gateway has already cleared the token and broadcast a logout by the time a
// caller sees it; callers must not retry.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response other than 401. Detail carries the
// server-provided message when the body included one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// errorBody is the envelope the API uses for failures.
type errorBody struct {
	Detail string `json:"detail"`
}

// Gateway issues JSON requests against the trading API.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      *store.Store
	bus        *bus.Bus
	log        zerolog.Logger
}

// New builds a Gateway. If httpClient is nil a default client with a request
// timeout is used.
func New(baseURL string, st *store.Store, b *bus.Bus, log zerolog.Logger, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      st,
		bus:        b,
		log:        log,
	}
}

// requestOptions control per-call behavior.
type requestOptions struct {
	skipAuth bool
}

// Option customizes a single request.
type Option func(*requestOptions)

// SkipAuth omits the Authorization header. Used by login, registration and
// password-reset requests.
func SkipAuth() Option {
	return func(o *requestOptions) { o.skipAuth = true }
}

// Request performs one API call. in (when non-nil) is JSON-encoded as the
// body; a successful response is decoded into out (when non-nil).
func (g *Gateway) Request(ctx context.Context, method, path string, in, out any, opts ...Option) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("gateway: encode body: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if !ro.skipAuth {
		if token, ok := g.store.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if err := g.store.ClearToken(); err != nil {
			g.log.Error().Err(err).Msg("clearing credential after 401")
		}
		g.bus.PublishLogout()
		return ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := "request failed"
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Detail != "" {
			detail = eb.Detail
		}
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
	}
	return nil
}

package duckchat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Wire constants of the duck.ai protocol.
const (
	headerToken       = "x-vqd-4"
	headerTokenAccept = "x-vqd-accept"

	defaultStatusURL = "https://duckduckgo.com/duckchat/v1/status"
	defaultChatURL   = "https://duckduckgo.com/duckchat/v1/chat"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultPerMinute  = 60
	rateBurst         = 5
	maxErrorBodyBytes = 8 << 10

	userAgent = "duck-chat"
)

// TransportConfig configures the HTTP layer.
type TransportConfig struct {
	// StatusURL is the token handshake endpoint. Defaults to the public
	// duck.ai status URL.
	StatusURL string

	// ChatURL is the exchange endpoint. Defaults to the public duck.ai
	// chat URL.
	ChatURL string

	// Timeout bounds the wait for response headers. The request itself
	// carries no overall deadline: reply bodies stream for as long as
	// the model talks. Defaults to 30s.
	Timeout time.Duration

	// RequestsPerMinute paces outbound requests. Defaults to 60.
	RequestsPerMinute int

	// Client overrides the HTTP client; tests use it. When nil, a
	// streaming-safe client is built from Timeout.
	Client *http.Client
}

func (c *TransportConfig) setDefaults() {
	if c.StatusURL == "" {
		c.StatusURL = defaultStatusURL
	}
	if c.ChatURL == "" {
		c.ChatURL = defaultChatURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = defaultPerMinute
	}
}

func (c *TransportConfig) validate() error {
	for _, raw := range []string{c.StatusURL, c.ChatURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid endpoint URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint URL %q must use http or https", raw)
		}
		if u.Host == "" {
			return fmt.Errorf("endpoint URL %q has no host", raw)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	return nil
}

// Transport issues the protocol's HTTP requests: header attachment,
// request pacing, and uniform error surfacing. Successful responses hand
// the caller a live body stream to read and close.
type Transport struct {
	client    *http.Client
	limiter   *rate.Limiter
	statusURL string
	chatURL   string
	logger    *slog.Logger
}

// NewTransport builds a Transport from cfg, filling defaults for zero
// values and validating the endpoints.
func NewTransport(cfg TransportConfig, logger *slog.Logger) (*Transport, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("transport config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: cfg.Timeout,
			},
		}
	}

	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	return &Transport{
		client:    client,
		limiter:   rate.NewLimiter(perSecond, rateBurst),
		statusURL: cfg.StatusURL,
		chatURL:   cfg.ChatURL,
		logger:    logger,
	}, nil
}

// Get issues a GET with the given headers. Error semantics match Post.
func (t *Transport) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, nil, header)
}

// Post issues a POST carrying body. Any failure (request construction,
// the network, or a non-2xx status) returns a [*TransportError] and no
// response; the error body, when present, is captured into it. On success
// the caller owns the response and must close its body.
func (t *Transport) Post(ctx context.Context, rawURL string, body []byte, header http.Header) (*http.Response, error) {
	return t.do(ctx, http.MethodPost, rawURL, body, header)
}

func (t *Transport) do(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*http.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Reason: "rate limit wait: " + err.Error(), err: err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &TransportError{Reason: err.Error(), err: err}
	}
	if header != nil {
		req.Header = header.Clone()
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	t.logger.Debug("request", "method", method, "url", rawURL)
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Reason: err.Error(), err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		terr := &TransportError{
			Status: resp.StatusCode,
			Reason: http.StatusText(resp.StatusCode),
			Body:   strings.TrimSpace(string(snippet)),
		}
		t.logger.Debug("request failed", "method", method, "url", rawURL, "status", resp.StatusCode)
		return nil, terr
	}
	return resp, nil
}

// StatusURL returns the handshake endpoint.
func (t *Transport) StatusURL() string { return t.statusURL }

// ChatURL returns the exchange endpoint.
func (t *Transport) ChatURL() string { return t.chatURL }

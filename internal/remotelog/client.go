package remotelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

const DefaultTimeout = 10 * time.Second

var ErrNotConfigured = errors.New("remote endpoint not configured")

// Config describes the remote spreadsheet endpoint.
type Config struct {
	Endpoint string
	// WriteOnly treats the endpoint as opaque: once a request is sent the
	// status and body are never inspected.
	WriteOnly bool
	Timeout   time.Duration
}

// TransportError is a failed submission. The survey flow treats it as a
// notice, never as a reason to stop.
type TransportError struct {
	Op       string
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s %s: status %d: %v", e.Op, e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client posts configuration snapshots and survey responses.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
	now  func() time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.cfg.Endpoint != ""
}

func (c *Client) Config() Config {
	return c.cfg
}

// LogConfiguration records a configuration snapshot remotely.
func (c *Client) LogConfiguration(ctx context.Context, cfg store.Configuration) error {
	return c.post(ctx, "log configuration", ConfigurationPayload(cfg))
}

// SubmitResponse records a completed survey remotely.
func (c *Client) SubmitResponse(ctx context.Context, resp survey.Response) error {
	return c.post(ctx, "submit response", ResponsePayload(resp, c.now()))
}

// Ping sends an empty test payload to check the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.post(ctx, "ping", testPayload())
}

func (c *Client) post(ctx context.Context, op string, p Payload) error {
	if !c.Configured() {
		c.log.Warn("remote endpoint not configured", zap.String("op", op))
		return ErrNotConfigured
	}

	body, err := json.Marshal(p)
	if err != nil {
		return &TransportError{Op: op, Endpoint: c.cfg.Endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, Endpoint: c.cfg.Endpoint, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	log := c.log.With(zap.String("op", op), zap.String("request_id", requestID), zap.String("payload", p.describe()))

	res, err := c.http.Do(req)
	if err != nil {
		log.Warn("remote submission failed", zap.Error(err))
		return &TransportError{Op: op, Endpoint: c.cfg.Endpoint, Err: err}
	}
	defer res.Body.Close()

	if c.cfg.WriteOnly {
		io.Copy(io.Discard, res.Body)
		log.Debug("remote submission dispatched")
		return nil
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		log.Warn("remote submission rejected", zap.Int("status", res.StatusCode))
		return &TransportError{
			Op:       op,
			Endpoint: c.cfg.Endpoint,
			Status:   res.StatusCode,
			Err:      fmt.Errorf("unexpected response %q", bytes.TrimSpace(snippet)),
		}
	}
	io.Copy(io.Discard, res.Body)
	log.Debug("remote submission accepted", zap.Int("status", res.StatusCode))
	return nil
}

// Package capture commits payloads to the Numbers Protocol Capture API, the
// append-only ledger that anchors events and photos.
//
// The ledger confirms assets asynchronously: a commit returns a stable asset
// NID right away and, at best, a workflow id for the pending chain
// transaction. No chain transaction hash is ever available synchronously.
//
// The client does not dedupe. Calling Commit twice for the same logical
// submission against the live API creates two assets.
package capture

import (
	"context"
	"log/slog"
	"net/http"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/config"
	"proofsy/internal/platform/metrics"
)

// Kind distinguishes event commits from photo commits.
type Kind string

const (
	KindEvent Kind = "event"
	KindPhoto Kind = "photo"
)

// Payload is one asset submission.
type Payload struct {
	Kind           Kind
	FileName       string
	ContentType    string
	Content        []byte
	Headline       string
	Caption        string
	// CustomMetadata is canonicalized before sending. A json.RawMessage is
	// taken as already canonical and sent verbatim.
	CustomMetadata any
}

// Client commits a payload and returns its receipt or an *UpstreamError.
type Client interface {
	Commit(ctx context.Context, payload Payload) (*models.CommitReceipt, error)
	Live() bool
}

// Option configures the client built by New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// WithHTTPClient replaces the transport used in live mode.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records commit latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New returns a live client when cfg carries a usable API key, otherwise a
// mock that never touches the network.
func New(cfg config.CaptureConfig, opts ...Option) Client {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if !cfg.Live() {
		o.logger.Warn("capture api key not configured, commits are mocked")
		return NewMock(cfg.Chain, o.metrics)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		chain:   cfg.Chain,
		http:    o.httpClient,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"proofsy/internal/capture"
	"proofsy/internal/evidence"
	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/metrics"
)

// Store is the reservation protocol of the ledger store.
type Store interface {
	Reserve(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
	Complete(ctx context.Context, record *models.LedgerRecord) error
	GetByKey(ctx context.Context, key string) (*models.LedgerRecord, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*models.LedgerRecord, error)
}

// Committer anchors a payload on the external ledger.
type Committer interface {
	Commit(ctx context.Context, payload capture.Payload) (*models.CommitReceipt, error)
}

// Notifier receives records after they are persisted.
type Notifier interface {
	Publish(ctx context.Context, record *models.LedgerRecord) error
}

// EvidenceLinker commits photos ahead of the event that references them.
type EvidenceLinker interface {
	Link(ctx context.Context, bookingID, uploaderID string, files []evidence.File) *evidence.Result
}

// MediaIndex lists photos committed on their own, per booking.
type MediaIndex interface {
	AddMedia(ctx context.Context, record *models.MediaRecord) error
	FindMediaByBooking(ctx context.Context, bookingID string) ([]*models.MediaRecord, error)
}

var tracer = otel.Tracer("proofsy/internal/ledger/service")

// Service is the event intake gate and the timeline assembler.
type Service struct {
	store     Store
	committer Committer
	assetBase string
	linker    EvidenceLinker
	media     MediaIndex
	notifier  Notifier
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNotifier publishes every persisted record.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithEvidenceLinker enables SubmitWithEvidence.
func WithEvidenceLinker(l EvidenceLinker) Option {
	return func(s *Service) {
		s.linker = l
	}
}

// WithMediaIndex records every committed photo and enables Media.
func WithMediaIndex(idx MediaIndex) Option {
	return func(s *Service) {
		s.media = idx
	}
}

// New constructs a Service. explorerAssetBase prefixes asset links in
// timelines.
func New(store Store, committer Committer, explorerAssetBase string, opts ...Option) *Service {
	s := &Service{
		store:     store,
		committer: committer,
		assetBase: explorerAssetBase,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Package evidence commits uploaded photos to the ledger and turns the
// receipts into PhotoEvidence entries for the owning event.
package evidence

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"proofsy/internal/capture"
	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/metrics"
	"proofsy/pkg/requestcontext"
)

const defaultConcurrency = 4

// ErrAllEvidenceFailed is returned by Result.Err when no file was committed.
var ErrAllEvidenceFailed = errors.New("all evidence uploads failed")

// File is one uploaded photo. URL points at the bytes in the media store.
type File struct {
	Name        string
	ContentType string
	URL         string
	Data        []byte
}

// Failure records a file whose commit failed.
type Failure struct {
	Index    int
	FileName string
	Err      error
}

// Outcome is the partial-failure policy applied to a batch.
type Outcome int

const (
	Proceed Outcome = iota
	ProceedWithWarning
	Abort
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case ProceedWithWarning:
		return "proceed_with_warning"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Result holds evidence in upload order. Failed files are skipped.
type Result struct {
	Evidence  []models.PhotoEvidence
	Failures  []Failure
	Succeeded int
	Failed    int
}

// Outcome reports whether the owning event may be submitted.
func (r *Result) Outcome() Outcome {
	switch {
	case r.Failed == 0:
		return Proceed
	case r.Succeeded == 0:
		return Abort
	default:
		return ProceedWithWarning
	}
}

// Err returns ErrAllEvidenceFailed when the batch must abort.
func (r *Result) Err() error {
	if r.Outcome() == Abort {
		return ErrAllEvidenceFailed
	}
	return nil
}

// Positions returns the input index of each Evidence entry for a batch of n
// files.
func (r *Result) Positions(n int) []int {
	failed := make(map[int]bool, len(r.Failures))
	for _, f := range r.Failures {
		failed[f.Index] = true
	}
	out := make([]int, 0, len(r.Evidence))
	for i := 0; i < n && len(out) < len(r.Evidence); i++ {
		if !failed[i] {
			out = append(out, i)
		}
	}
	return out
}

// Linker drives one ledger commit per file.
type Linker struct {
	committer   capture.Client
	assetBase   string
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Linker)

// WithConcurrency bounds the number of commits in flight.
func WithConcurrency(n int) Option {
	return func(l *Linker) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) { l.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Linker) { l.metrics = m }
}

// New builds a Linker. explorerAssetBase prefixes every verifyUrl.
func New(committer capture.Client, explorerAssetBase string, opts ...Option) (*Linker, error) {
	if committer == nil {
		return nil, errors.New("committer is required")
	}
	l := &Linker{
		committer:   committer,
		assetBase:   explorerAssetBase,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Link commits every file. Workers write into the slot of their input
// position, so Evidence keeps upload order regardless of completion order.
func (l *Linker) Link(ctx context.Context, bookingID, uploaderID string, files []File) *Result {
	uploadedAt := requestcontext.Now(ctx)
	slots := make([]*models.PhotoEvidence, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, f := range files {
		g.Go(func() error {
			receipt, err := l.committer.Commit(ctx, capture.PhotoPayload(capture.Photo{
				BookingID:   bookingID,
				UploadedBy:  uploaderID,
				FileName:    f.Name,
				ContentType: f.ContentType,
				Content:     f.Data,
				UploadedAt:  uploadedAt,
			}))
			if err != nil {
				errs[i] = err
				return nil
			}
			slots[i] = &models.PhotoEvidence{
				NID:        receipt.AssetNID,
				FileName:   f.Name,
				UploadedBy: uploaderID,
				UploadedAt: uploadedAt,
				URL:        f.URL,
				VerifyURL:  l.assetBase + receipt.AssetNID,
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{Evidence: make([]models.PhotoEvidence, 0, len(files))}
	for i := range files {
		if errs[i] != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{Index: i, FileName: files[i].Name, Err: errs[i]})
			l.logger.WarnContext(ctx, "evidence commit failed",
				"booking_id", bookingID,
				"file_name", files[i].Name,
				"error", errs[i],
			)
			continue
		}
		res.Succeeded++
		res.Evidence = append(res.Evidence, *slots[i])
	}
	l.metrics.AddEvidence(res.Succeeded, res.Failed)

	if len(files) > 0 {
		l.logger.InfoContext(ctx, "evidence linked",
			"booking_id", bookingID,
			"succeeded", res.Succeeded,
			"failed", res.Failed,
			"outcome", res.Outcome().String(),
		)
	}
	return res
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"proofsy/internal/capture"
	"proofsy/internal/evidence"
	"proofsy/internal/ledger/models"
	dErrors "proofsy/pkg/domain-errors"
	"proofsy/pkg/platform/sentinel"
	"proofsy/pkg/requestcontext"
)

// Submission outcomes recorded in metrics.
const (
	outcomeOK            = "ok"
	outcomeValidation    = "validation"
	outcomeConflict      = "conflict"
	outcomeUpstream      = "upstream"
	outcomeInconsistency = "inconsistency"
	outcomeInternal      = "internal"
)

// Submit validates the event, reserves the idempotency key, commits the event
// to the external ledger and records the receipt.
//
// A record becomes visible only after its commit succeeded. When the commit
// fails the reservation is released and the key may be retried. When the
// commit succeeds but the record cannot be written, the asset exists upstream
// without a local record: the reservation is kept so a retry reports a
// conflict instead of committing a second asset, and the error carries
// CodeInconsistency for manual reconciliation.
func (s *Service) Submit(ctx context.Context, event models.Event, idempotencyKey string) (*models.LedgerRecord, error) {
	ctx, span := tracer.Start(ctx, "ledger.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("ledger.idempotency_key", idempotencyKey),
		attribute.String("ledger.booking_id", event.BookingID),
	)

	start := time.Now()
	record, outcome, err := s.submit(ctx, event, idempotencyKey)
	s.metrics.IncSubmission(outcome)
	s.metrics.ObserveSubmit(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	span.SetAttributes(attribute.String("ledger.asset_nid", record.Receipt.AssetNID))
	return record, nil
}

func (s *Service) submit(ctx context.Context, event models.Event, key string) (*models.LedgerRecord, string, error) {
	if key == "" {
		return nil, outcomeValidation, dErrors.New(dErrors.CodeValidation, "Idempotency-Key header is required")
	}
	if err := event.Validate(); err != nil {
		return nil, outcomeValidation, err
	}
	event.Metadata = event.Metadata.Clone()

	payload, err := capture.EventPayload(event, key)
	if err != nil {
		return nil, outcomeValidation, dErrors.Wrap(err, dErrors.CodeValidation, "metadata cannot be anchored")
	}

	if err := s.store.Reserve(ctx, key); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, outcomeConflict, dErrors.New(dErrors.CodeConflict, "idempotency key already used")
		}
		return nil, outcomeInternal, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve idempotency key")
	}

	receipt, err := s.committer.Commit(ctx, payload)
	if err != nil {
		// the caller may be gone; the key must still be freed
		if relErr := s.store.Release(context.WithoutCancel(ctx), key); relErr != nil {
			s.logger.ErrorContext(ctx, "failed to release idempotency key after commit failure",
				"idempotency_key", key,
				"error", relErr,
			)
		}
		s.logger.WarnContext(ctx, "event commit failed",
			"idempotency_key", key,
			"booking_id", event.BookingID,
			"error", err,
		)
		return nil, outcomeUpstream, dErrors.Wrap(err, dErrors.CodeUpstream, "ledger commit failed")
	}

	record := &models.LedgerRecord{
		IdempotencyKey: key,
		Event:          event,
		Receipt:        receipt,
		RecordedAt:     requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Complete(context.WithoutCancel(ctx), record); err != nil {
		s.metrics.IncInconsistency()
		s.logger.ErrorContext(ctx, "inconsistency window: asset committed upstream but ledger record not persisted",
			"idempotency_key", key,
			"booking_id", event.BookingID,
			"asset_nid", receipt.AssetNID,
			"workflow_ref", receipt.WorkflowRef,
			"error", err,
		)
		return nil, outcomeInconsistency, dErrors.Wrap(err, dErrors.CodeInconsistency,
			fmt.Sprintf("asset %s committed but not recorded", receipt.AssetNID))
	}

	s.logger.InfoContext(ctx, "ledger event recorded",
		"idempotency_key", key,
		"booking_id", event.BookingID,
		"event_type", event.EventType,
		"asset_nid", receipt.AssetNID,
		"receipt_status", receipt.Status,
	)
	s.publish(ctx, record)
	return record, outcomeOK, nil
}

func (s *Service) publish(ctx context.Context, record *models.LedgerRecord) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to publish ledger record",
			"idempotency_key", record.IdempotencyKey,
			"error", err,
		)
	}
}

// EvidenceSubmission is the result of SubmitWithEvidence. Evidence is set
// whenever linking ran, including when the submission failed afterwards.
type EvidenceSubmission struct {
	Record   *models.LedgerRecord
	Evidence *evidence.Result
	Warning  string
}

// SubmitWithEvidence commits the photos, applies the partial-failure policy
// and submits the event with the committed photos appended to its
// photoEvidence. If every photo fails the event is not submitted.
func (s *Service) SubmitWithEvidence(ctx context.Context, event models.Event, idempotencyKey, uploaderID string, files []evidence.File) (*EvidenceSubmission, error) {
	if s.linker == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "evidence linking is not configured")
	}
	if idempotencyKey == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Idempotency-Key header is required")
	}
	if uploaderID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "uploadedBy is required")
	}
	if err := validateWithPendingEvidence(event, len(files)); err != nil {
		return nil, err
	}
	// avoids committing photos for an obvious replay; Reserve stays the guard
	if _, err := s.store.GetByKey(ctx, idempotencyKey); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "idempotency key already used")
	}

	result := s.linker.Link(ctx, event.BookingID, uploaderID, files)
	s.indexMedia(ctx, event.BookingID, files, result)
	sub := &EvidenceSubmission{Evidence: result}
	switch result.Outcome() {
	case evidence.Abort:
		return sub, dErrors.Wrap(result.Err(), dErrors.CodeUpstream, "all evidence uploads failed; event not submitted")
	case evidence.ProceedWithWarning:
		sub.Warning = fmt.Sprintf("%d of %d photos failed to upload and were not attached", result.Failed, len(files))
		s.logger.WarnContext(ctx, "submitting event with partial evidence",
			"idempotency_key", idempotencyKey,
			"booking_id", event.BookingID,
			"failed", result.Failed,
		)
	}

	if len(result.Evidence) > 0 {
		md, err := event.Metadata.WithPhotoEvidence(result.Evidence)
		if err != nil {
			return sub, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach evidence")
		}
		event.Metadata = md
	}

	record, err := s.Submit(ctx, event, idempotencyKey)
	if err != nil {
		s.logOrphanedEvidence(ctx, idempotencyKey, event.BookingID, result, err)
		return sub, err
	}
	sub.Record = record
	return sub, nil
}

// logOrphanedEvidence reports photos that were committed for an event that
// was then not recorded. They stay on the ledger and in the media index.
func (s *Service) logOrphanedEvidence(ctx context.Context, key, bookingID string, result *evidence.Result, err error) {
	if len(result.Evidence) == 0 {
		return
	}
	nids := make([]string, 0, len(result.Evidence))
	urls := make([]string, 0, len(result.Evidence))
	for _, e := range result.Evidence {
		nids = append(nids, e.NID)
		urls = append(urls, e.URL)
	}
	s.logger.ErrorContext(ctx, "orphaned evidence: photos committed but event not recorded",
		"idempotency_key", key,
		"booking_id", bookingID,
		"asset_nids", nids,
		"urls", urls,
		"error", err,
	)
}

// validateWithPendingEvidence validates event as it will look once n photos
// are attached, so an event whose metadata holds only photos passes.
func validateWithPendingEvidence(event models.Event, n int) error {
	if n > 0 {
		placeholders := make([]models.PhotoEvidence, n)
		for i := range placeholders {
			placeholders[i].NID = "pending"
		}
		md, err := event.Metadata.WithPhotoEvidence(placeholders)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "invalid metadata")
		}
		event.Metadata = md
	}
	return event.Validate()
}

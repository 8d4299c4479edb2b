package service

import (
	"context"
	"slices"
	"strings"

	"proofsy/internal/ledger/models"
	dErrors "proofsy/pkg/domain-errors"
)

// Timeline returns the booking's events ordered by occurredAt. Records with
// equal timestamps keep the order the store returned them in.
func (s *Service) Timeline(ctx context.Context, bookingID string) (*models.Timeline, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "bookingId is required")
	}
	records, err := s.store.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking events")
	}

	slices.SortStableFunc(records, func(a, b *models.LedgerRecord) int {
		return a.Event.OccurredAt.Compare(b.Event.OccurredAt)
	})

	events := make([]models.DisplayEvent, 0, len(records))
	for _, r := range records {
		events = append(events, s.display(r))
	}
	return &models.Timeline{BookingID: bookingID, Events: events}, nil
}

// display never renders the workflow reference as a chain link: it is not a
// transaction hash.
func (s *Service) display(r *models.LedgerRecord) models.DisplayEvent {
	d := models.DisplayEvent{
		ID:         r.IdempotencyKey,
		EventType:  r.Event.EventType,
		BookingID:  r.Event.BookingID,
		PropertyID: r.Event.PropertyID,
		Actor:      r.Event.Actor,
		OccurredAt: r.Event.OccurredAt,
		RecordedAt: r.RecordedAt,
		Metadata:   r.Event.Metadata,
		Status:     models.DisplayStatusPending,
	}
	if r.Receipt != nil {
		d.AssetNID = r.Receipt.AssetNID
		d.WorkflowRef = r.Receipt.WorkflowRef
		d.Chain = r.Receipt.Chain
		d.ReceiptStatus = r.Receipt.Status
		d.Status = models.DisplayStatusCompleted
		d.Links.Asset = s.assetBase + r.Receipt.AssetNID
	}
	return d
}

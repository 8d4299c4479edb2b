package capture

import (
	"encoding/json"
	"fmt"
	"time"

	"proofsy/internal/ledger/models"
)

const (
	eventSource = "Proofsy - Rental Booking System"
	photoSource = "Proofsy - Photo Evidence"
)

// EventPayload builds the ledger submission for a lifecycle event. The ledger
// requires a file, so the event is committed as a small canonical JSON text
// file named after the event type and idempotency key. The custom metadata is
// canonicalized here, so a document the canonical form cannot carry fails
// before anything is reserved or sent.
func EventPayload(event models.Event, idempotencyKey string) (Payload, error) {
	occurredAt := event.OccurredAt.UTC().Format(time.RFC3339Nano)
	content, err := canonicalJSON(map[string]string{
		"bookingId": event.BookingID,
		"eventType": string(event.EventType),
		"timestamp": occurredAt,
	})
	if err != nil {
		return Payload{}, fmt.Errorf("encode event file: %w", err)
	}
	metadata, err := event.Metadata.MarshalJSON()
	if err != nil {
		return Payload{}, fmt.Errorf("encode event metadata: %w", err)
	}
	custom, err := canonicalJSON(map[string]any{
		"proofsy": map[string]any{
			"eventType":      event.EventType,
			"bookingId":      event.BookingID,
			"propertyId":     event.PropertyID,
			"actor":          event.Actor,
			"occurredAt":     occurredAt,
			"metadata":       json.RawMessage(metadata),
			"idempotencyKey": idempotencyKey,
			"source":         eventSource,
		},
	})
	if err != nil {
		return Payload{}, fmt.Errorf("canonicalize event metadata: %w", err)
	}

	return Payload{
		Kind:           KindEvent,
		FileName:       fmt.Sprintf("%s_%s.txt", event.EventType, idempotencyKey),
		ContentType:    "text/plain",
		Content:        content,
		Headline:       fmt.Sprintf("%s - %s", event.EventType, event.BookingID),
		Caption:        fmt.Sprintf("Rental event: %s for booking %s", event.EventType, event.BookingID),
		CustomMetadata: json.RawMessage(custom),
	}, nil
}

// Photo describes an uploaded photo to commit as evidence.
type Photo struct {
	BookingID   string
	UploadedBy  string
	FileName    string
	ContentType string
	Content     []byte
	UploadedAt  time.Time
}

// PhotoPayload builds the ledger submission for an evidence photo.
func PhotoPayload(p Photo) Payload {
	return Payload{
		Kind:        KindPhoto,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		Content:     p.Content,
		Headline:    "Photo for booking " + p.BookingID,
		Caption:     fmt.Sprintf("Evidence photo uploaded by %s for booking %s", p.UploadedBy, p.BookingID),
		CustomMetadata: map[string]any{
			"proofsy_media": map[string]any{
				"bookingId":  p.BookingID,
				"uploadedBy": p.UploadedBy,
				"fileName":   p.FileName,
				"fileSize":   len(p.Content),
				"mimeType":   p.ContentType,
				"uploadedAt": p.UploadedAt.UTC().Format(time.RFC3339Nano),
				"source":     photoSource,
			},
		},
	}
}

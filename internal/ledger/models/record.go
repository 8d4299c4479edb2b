package models

import "time"

// LedgerRecord is the durable unit: written once after a successful commit,
// never updated or deleted.
type LedgerRecord struct {
	IdempotencyKey string         `json:"idempotencyKey"`
	Event          Event          `json:"event"`
	Receipt        *CommitReceipt `json:"receipt"`
	RecordedAt     time.Time      `json:"recordedAt"`
}

// Display statuses. Every persisted record has a receipt, so only
// DisplayStatusCompleted is produced today.
const (
	DisplayStatusCompleted = "completed"
	DisplayStatusPending   = "pending"
)

// DisplayEvent is one entry of a booking timeline.
type DisplayEvent struct {
	ID            string        `json:"id"`
	EventType     EventType     `json:"eventType"`
	BookingID     string        `json:"bookingId"`
	PropertyID    string        `json:"propertyId"`
	Actor         string        `json:"actor"`
	OccurredAt    time.Time     `json:"occurredAt"`
	RecordedAt    time.Time     `json:"recordedAt"`
	Metadata      Metadata      `json:"metadata"`
	AssetNID      string        `json:"assetNid,omitempty"`
	WorkflowRef   string        `json:"workflowRef,omitempty"`
	Chain         string        `json:"chain,omitempty"`
	ReceiptStatus ReceiptStatus `json:"receiptStatus,omitempty"`
	Status        string        `json:"status"`
	Links         DisplayLinks  `json:"links"`
}

// DisplayLinks carries explorer links. There is deliberately no tx link:
// workflow references do not resolve on a chain explorer.
type DisplayLinks struct {
	Asset string `json:"asset,omitempty"`
}

// Timeline is the ordered history of one booking.
type Timeline struct {
	BookingID string         `json:"bookingId"`
	Events    []DisplayEvent `json:"events"`
}

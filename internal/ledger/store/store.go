// Package store persists ledger records keyed by idempotency key.
//
// Every implementation provides the same reservation protocol:
//   - Reserve claims a key atomically; a reserved or recorded key is a conflict
//   - Release drops a reservation whose commit failed
//   - Complete turns a reservation into an immutable record
//
// InsertIfAbsent does reserve and complete in one atomic step. Reserved keys
// are invisible to GetByKey and FindByBooking. No implementation updates or
// deletes a completed record.
//
// Each implementation also indexes photos committed on their own: AddMedia
// appends a MediaRecord, unique by asset NID, and FindMediaByBooking lists a
// booking's media in insertion order.
package store

import (
	"proofsy/internal/ledger/models"
)

func cloneRecord(r *models.LedgerRecord) *models.LedgerRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Event.Metadata = r.Event.Metadata.Clone()
	if r.Receipt != nil {
		receipt := *r.Receipt
		out.Receipt = &receipt
	}
	return &out
}

package store

import (
	"context"
	"sync"

	"proofsy/internal/ledger/models"
	"proofsy/pkg/platform/sentinel"
)

// InMemory keeps records in process memory. Suitable for tests and single
// instance development only.
type InMemory struct {
	mu        sync.RWMutex
	reserved  map[string]struct{}
	records   map[string]*models.LedgerRecord
	byBooking map[string][]string
	mediaNIDs map[string]struct{}
	media     map[string][]models.MediaRecord
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		reserved:  make(map[string]struct{}),
		records:   make(map[string]*models.LedgerRecord),
		byBooking: make(map[string][]string),
		mediaNIDs: make(map[string]struct{}),
		media:     make(map[string][]models.MediaRecord),
	}
}

func (s *InMemory) taken(key string) bool {
	if _, ok := s.reserved[key]; ok {
		return true
	}
	_, ok := s.records[key]
	return ok
}

func (s *InMemory) Reserve(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(key) {
		return sentinel.ErrConflict
	}
	s.reserved[key] = struct{}{}
	return nil
}

func (s *InMemory) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, key)
	return nil
}

func (s *InMemory) Complete(_ context.Context, record *models.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.IdempotencyKey]; ok {
		return sentinel.ErrConflict
	}
	delete(s.reserved, record.IdempotencyKey)
	s.put(record)
	return nil
}

func (s *InMemory) InsertIfAbsent(_ context.Context, record *models.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(record.IdempotencyKey) {
		return sentinel.ErrConflict
	}
	s.put(record)
	return nil
}

func (s *InMemory) put(record *models.LedgerRecord) {
	s.records[record.IdempotencyKey] = cloneRecord(record)
	bid := record.Event.BookingID
	s.byBooking[bid] = append(s.byBooking[bid], record.IdempotencyKey)
}

func (s *InMemory) GetByKey(_ context.Context, key string) (*models.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneRecord(r), nil
}

// FindByBooking returns records in insertion order.
func (s *InMemory) FindByBooking(_ context.Context, bookingID string) ([]*models.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.byBooking[bookingID]
	out := make([]*models.LedgerRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, cloneRecord(s.records[k]))
	}
	return out, nil
}

func (s *InMemory) AddMedia(_ context.Context, record *models.MediaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mediaNIDs[record.AssetNID]; ok {
		return sentinel.ErrConflict
	}
	s.mediaNIDs[record.AssetNID] = struct{}{}
	s.media[record.BookingID] = append(s.media[record.BookingID], *record)
	return nil
}

// FindMediaByBooking returns media records in insertion order.
func (s *InMemory) FindMediaByBooking(_ context.Context, bookingID string) ([]*models.MediaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.media[bookingID]
	out := make([]*models.MediaRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, &r)
	}
	return out, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/suite"

	"proofsy/internal/ledger/models"
	"proofsy/pkg/platform/sentinel"
)

type ledgerStore interface {
	Reserve(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
	Complete(ctx context.Context, record *models.LedgerRecord) error
	InsertIfAbsent(ctx context.Context, record *models.LedgerRecord) error
	GetByKey(ctx context.Context, key string) (*models.LedgerRecord, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*models.LedgerRecord, error)
	AddMedia(ctx context.Context, record *models.MediaRecord) error
	FindMediaByBooking(ctx context.Context, bookingID string) ([]*models.MediaRecord, error)
}

// ContractSuite runs the reservation protocol against any implementation.
// Embedding suites set newStore.
type ContractSuite struct {
	suite.Suite
	newStore func() ledgerStore
	store    ledgerStore
	ctx      context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func newRecord(key, booking string, occurredAt time.Time) *models.LedgerRecord {
	var md models.Metadata
	if err := json.Unmarshal([]byte(`{"zeta":1,"amount":2500,"nested":{"b":[1,2,{"c":null}],"a":"x"},"flag":true}`), &md); err != nil {
		panic(err)
	}
	return &models.LedgerRecord{
		IdempotencyKey: key,
		Event: models.Event{
			EventType:  models.EventTypeBookingCreated,
			BookingID:  booking,
			PropertyID: "p1",
			Actor:      "0x" + "ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12",
			OccurredAt: occurredAt,
			Metadata:   md,
		},
		Receipt: &models.CommitReceipt{
			AssetNID:    "nid-" + key,
			WorkflowRef: "pending_nid-" + key,
			Chain:       "numbers-mainnet",
			Status:      models.ReceiptStatusMock,
		},
		RecordedAt: time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC),
	}
}

func (s *ContractSuite) assertSameRecord(want, got *models.LedgerRecord) {
	s.Equal(want.IdempotencyKey, got.IdempotencyKey)
	s.Equal(want.Event.EventType, got.Event.EventType)
	s.Equal(want.Event.BookingID, got.Event.BookingID)
	s.Equal(want.Event.PropertyID, got.Event.PropertyID)
	s.Equal(want.Event.Actor, got.Event.Actor)
	s.True(want.Event.OccurredAt.Equal(got.Event.OccurredAt), "occurredAt %s != %s", want.Event.OccurredAt, got.Event.OccurredAt)
	s.True(want.RecordedAt.Equal(got.RecordedAt))
	s.True(want.Event.Metadata.Equal(got.Event.Metadata), "metadata changed in round trip")
	s.Equal(want.Event.Metadata.Keys(), got.Event.Metadata.Keys())
	s.Equal(want.Receipt, got.Receipt)
}

func (s *ContractSuite) TestInsertIfAbsentThenGet() {
	rec := newRecord("k1", "b1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(s.store.InsertIfAbsent(s.ctx, rec))

	got, err := s.store.GetByKey(s.ctx, "k1")
	s.Require().NoError(err)
	s.assertSameRecord(rec, got)

	s.ErrorIs(s.store.InsertIfAbsent(s.ctx, rec), sentinel.ErrConflict)
}

func (s *ContractSuite) TestMetadataKeepsRawCharacters() {
	doc := `{"note":"a<b & c>d","city":"Zürich ✓","emoji":"🏠","nested":{"html":"<p>&amp;</p>"}}`
	var md models.Metadata
	s.Require().NoError(json.Unmarshal([]byte(doc), &md))

	inserted := newRecord("raw-insert", "b-raw", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	inserted.Event.Metadata = md
	s.Require().NoError(s.store.InsertIfAbsent(s.ctx, inserted))

	completed := newRecord("raw-complete", "b-raw", time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))
	completed.Event.Metadata = md.Clone()
	s.Require().NoError(s.store.Reserve(s.ctx, "raw-complete"))
	s.Require().NoError(s.store.Complete(s.ctx, completed))

	for _, key := range []string{"raw-insert", "raw-complete"} {
		got, err := s.store.GetByKey(s.ctx, key)
		s.Require().NoError(err)
		s.True(md.Equal(got.Event.Metadata), "metadata of %s changed in round trip", key)
		out, err := got.Event.Metadata.MarshalJSON()
		s.Require().NoError(err)
		s.Equal(doc, string(out))
	}

	recs, err := s.store.FindByBooking(s.ctx, "b-raw")
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	for _, r := range recs {
		note, ok := r.Event.Metadata.Get("note")
		s.Require().True(ok)
		s.Equal(`"a<b & c>d"`, string(note))
	}
}

func (s *ContractSuite) TestGetUnknownKey() {
	_, err := s.store.GetByKey(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ContractSuite) TestReservationProtocol() {
	s.Run("reserved key conflicts and stays invisible", func() {
		s.Require().NoError(s.store.Reserve(s.ctx, "r1"))
		s.ErrorIs(s.store.Reserve(s.ctx, "r1"), sentinel.ErrConflict)
		s.ErrorIs(s.store.InsertIfAbsent(s.ctx, newRecord("r1", "b-res", time.Now())), sentinel.ErrConflict)

		_, err := s.store.GetByKey(s.ctx, "r1")
		s.ErrorIs(err, sentinel.ErrNotFound)
		recs, err := s.store.FindByBooking(s.ctx, "b-res")
		s.Require().NoError(err)
		s.Empty(recs)
	})

	s.Run("release frees the key", func() {
		s.Require().NoError(s.store.Reserve(s.ctx, "r2"))
		s.Require().NoError(s.store.Release(s.ctx, "r2"))
		s.NoError(s.store.Reserve(s.ctx, "r2"))
	})

	s.Run("complete makes the record visible and final", func() {
		s.Require().NoError(s.store.Reserve(s.ctx, "r3"))
		rec := newRecord("r3", "b-done", time.Now().UTC())
		s.Require().NoError(s.store.Complete(s.ctx, rec))

		got, err := s.store.GetByKey(s.ctx, "r3")
		s.Require().NoError(err)
		s.assertSameRecord(rec, got)

		s.ErrorIs(s.store.Reserve(s.ctx, "r3"), sentinel.ErrConflict)
		s.ErrorIs(s.store.Complete(s.ctx, rec), sentinel.ErrConflict)
	})

	s.Run("release after complete keeps the record", func() {
		s.Require().NoError(s.store.Release(s.ctx, "r3"))
		_, err := s.store.GetByKey(s.ctx, "r3")
		s.NoError(err)
		s.ErrorIs(s.store.Reserve(s.ctx, "r3"), sentinel.ErrConflict)
	})
}

func (s *ContractSuite) TestFindByBookingInsertionOrder() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// occurredAt deliberately descending; storage keeps insertion order
	for i := range 4 {
		rec := newRecord(fmt.Sprintf("k%d", i), "b1", base.Add(-time.Duration(i)*time.Hour))
		s.Require().NoError(s.store.InsertIfAbsent(s.ctx, rec))
	}
	s.Require().NoError(s.store.InsertIfAbsent(s.ctx, newRecord("other", "b2", base)))

	recs, err := s.store.FindByBooking(s.ctx, "b1")
	s.Require().NoError(err)
	s.Require().Len(recs, 4)
	for i, r := range recs {
		s.Equal(fmt.Sprintf("k%d", i), r.IdempotencyKey)
	}

	empty, err := s.store.FindByBooking(s.ctx, "unknown")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *ContractSuite) TestConcurrentInsertExactlyOneWins() {
	const goroutines = 16
	var wg sync.WaitGroup
	var inserted, conflicts, other atomic.Int32

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.InsertIfAbsent(s.ctx, newRecord("race", "b-race", time.Now().UTC()))
			switch {
			case err == nil:
				inserted.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), inserted.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
	s.Zero(other.Load())

	recs, err := s.store.FindByBooking(s.ctx, "b-race")
	s.Require().NoError(err)
	s.Len(recs, 1)
}

func (s *ContractSuite) TestConcurrentReserveExactlyOneWins() {
	const goroutines = 16
	var wg sync.WaitGroup
	var reserved atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.store.Reserve(s.ctx, "contended") == nil {
				reserved.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), reserved.Load())
}

func newMedia(nid, booking string, uploadedAt time.Time) *models.MediaRecord {
	return &models.MediaRecord{
		AssetNID:   nid,
		BookingID:  booking,
		UploadedBy: "host",
		FileName:   "front <door>.jpg",
		MimeType:   "image/jpeg",
		FileSize:   2048,
		URL:        "/uploads/" + nid + ".jpg",
		UploadedAt: uploadedAt,
	}
}

func (s *ContractSuite) TestMediaIndex() {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		s.Require().NoError(s.store.AddMedia(s.ctx, newMedia(fmt.Sprintf("nid_m%d", i), "b-media", base.Add(time.Duration(i)*time.Minute))))
	}
	s.Require().NoError(s.store.AddMedia(s.ctx, newMedia("nid_other", "b-other", base)))

	s.Run("lists a booking in insertion order", func() {
		recs, err := s.store.FindMediaByBooking(s.ctx, "b-media")
		s.Require().NoError(err)
		s.Require().Len(recs, 3)
		for i, r := range recs {
			want := newMedia(fmt.Sprintf("nid_m%d", i), "b-media", base.Add(time.Duration(i)*time.Minute))
			s.Equal(want.AssetNID, r.AssetNID)
			s.Equal(want.FileName, r.FileName)
			s.Equal(want.FileSize, r.FileSize)
			s.Equal(want.URL, r.URL)
			s.True(want.UploadedAt.Equal(r.UploadedAt))
		}
	})

	s.Run("asset nid is unique", func() {
		s.ErrorIs(s.store.AddMedia(s.ctx, newMedia("nid_m0", "b-media", base)), sentinel.ErrConflict)
		recs, err := s.store.FindMediaByBooking(s.ctx, "b-media")
		s.Require().NoError(err)
		s.Len(recs, 3)
	})

	s.Run("unknown booking is empty", func() {
		recs, err := s.store.FindMediaByBooking(s.ctx, "nobody")
		s.Require().NoError(err)
		s.NotNil(recs)
		s.Empty(recs)
	})
}

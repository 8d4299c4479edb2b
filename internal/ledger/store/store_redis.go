package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"proofsy/internal/ledger/models"
	"proofsy/pkg/platform/sentinel"
)

const (
	recordKeyPrefix       = "proofsy:ledger:key:"
	bookingKeyPrefix      = "proofsy:ledger:booking:"
	mediaNIDKeyPrefix     = "proofsy:media:nid:"
	mediaBookingKeyPrefix = "proofsy:media:booking:"

	// reservedMarker occupies a key between Reserve and Complete. Records are
	// JSON objects, so the marker never collides with one.
	reservedMarker = "reserved"
)

var (
	// KEYS[1] record key, ARGV[1] marker
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	// KEYS[1] record key, KEYS[2] booking list, ARGV[1] record, ARGV[2] marker
	completeScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and current ~= ARGV[2] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("RPUSH", KEYS[2], KEYS[1])
return 1`)

	// KEYS[1] record key, KEYS[2] booking list, ARGV[1] record
	insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("RPUSH", KEYS[2], KEYS[1])
return 1`)

	// KEYS[1] nid marker, KEYS[2] booking media list, ARGV[1] media record
	addMediaScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], "1") == 0 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
return 1`)
)

// Redis persists records as JSON values. Reserve uses SETNX; Complete and
// InsertIfAbsent run as Lua scripts so the record and its booking index entry
// are written atomically.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Reserve(ctx context.Context, key string) error {
	ok, err := s.client.SetNX(ctx, recordKeyPrefix+key, reservedMarker, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Redis) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{recordKeyPrefix + key}, reservedMarker).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *Redis) Complete(ctx context.Context, record *models.LedgerRecord) error {
	return s.write(ctx, completeScript, record, reservedMarker)
}

func (s *Redis) InsertIfAbsent(ctx context.Context, record *models.LedgerRecord) error {
	return s.write(ctx, insertScript, record)
}

func (s *Redis) write(ctx context.Context, script *redis.Script, record *models.LedgerRecord, extra ...any) error {
	payload, err := models.EncodeJSON(record)
	if err != nil {
		return fmt.Errorf("marshal ledger record: %w", err)
	}
	keys := []string{recordKeyPrefix + record.IdempotencyKey, bookingKeyPrefix + record.Event.BookingID}
	args := append([]any{string(payload)}, extra...)
	n, err := script.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return fmt.Errorf("write ledger record: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Redis) GetByKey(ctx context.Context, key string) (*models.LedgerRecord, error) {
	val, err := s.client.Get(ctx, recordKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger record: %w", err)
	}
	if val == reservedMarker {
		return nil, sentinel.ErrNotFound
	}
	return decodeRecord(val)
}

// FindByBooking returns records in insertion order.
func (s *Redis) FindByBooking(ctx context.Context, bookingID string) ([]*models.LedgerRecord, error) {
	keys, err := s.client.LRange(ctx, bookingKeyPrefix+bookingID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list booking records: %w", err)
	}
	out := make([]*models.LedgerRecord, 0, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load booking records: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok || raw == reservedMarker {
			continue
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecord(raw string) (*models.LedgerRecord, error) {
	var rec models.LedgerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode ledger record: %w", err)
	}
	return &rec, nil
}

func (s *Redis) AddMedia(ctx context.Context, record *models.MediaRecord) error {
	payload, err := models.EncodeJSON(record)
	if err != nil {
		return fmt.Errorf("marshal media record: %w", err)
	}
	keys := []string{mediaNIDKeyPrefix + record.AssetNID, mediaBookingKeyPrefix + record.BookingID}
	n, err := addMediaScript.Run(ctx, s.client, keys, string(payload)).Int()
	if err != nil {
		return fmt.Errorf("write media record: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// FindMediaByBooking returns media records in insertion order.
func (s *Redis) FindMediaByBooking(ctx context.Context, bookingID string) ([]*models.MediaRecord, error) {
	vals, err := s.client.LRange(ctx, mediaBookingKeyPrefix+bookingID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list media records: %w", err)
	}
	out := make([]*models.MediaRecord, 0, len(vals))
	for _, raw := range vals {
		var rec models.MediaRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode media record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

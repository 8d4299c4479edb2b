package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/database"
	"proofsy/pkg/platform/sentinel"
)

// Queries use $n placeholders, which both lib/pq and modernc sqlite accept.
const (
	schemaKeys = `
CREATE TABLE IF NOT EXISTS idempotency_keys (
	idempotency_key TEXT PRIMARY KEY,
	reserved_at TEXT NOT NULL
);`

	schemaRecordsPostgres = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq BIGSERIAL PRIMARY KEY,
	idempotency_key TEXT NOT NULL UNIQUE,
	event_type TEXT NOT NULL,
	booking_id TEXT NOT NULL,
	property_id TEXT NOT NULL,
	actor TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	metadata TEXT NOT NULL,
	asset_nid TEXT,
	workflow_ref TEXT,
	chain TEXT,
	receipt_status TEXT,
	recorded_at TEXT NOT NULL
);`

	schemaRecordsSQLite = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	idempotency_key TEXT NOT NULL UNIQUE,
	event_type TEXT NOT NULL,
	booking_id TEXT NOT NULL,
	property_id TEXT NOT NULL,
	actor TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	metadata TEXT NOT NULL,
	asset_nid TEXT,
	workflow_ref TEXT,
	chain TEXT,
	receipt_status TEXT,
	recorded_at TEXT NOT NULL
);`

	schemaBookingIndex = `CREATE INDEX IF NOT EXISTS ledger_records_booking_idx ON ledger_records (booking_id, seq);`

	schemaMediaPostgres = `
CREATE TABLE IF NOT EXISTS media_records (
	seq BIGSERIAL PRIMARY KEY,
	asset_nid TEXT NOT NULL UNIQUE,
	booking_id TEXT NOT NULL,
	uploaded_by TEXT NOT NULL,
	file_name TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	url TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);`

	schemaMediaSQLite = `
CREATE TABLE IF NOT EXISTS media_records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_nid TEXT NOT NULL UNIQUE,
	booking_id TEXT NOT NULL,
	uploaded_by TEXT NOT NULL,
	file_name TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	url TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);`

	schemaMediaBookingIndex = `CREATE INDEX IF NOT EXISTS media_records_booking_idx ON media_records (booking_id, seq);`

	insertKeyQuery = `INSERT INTO idempotency_keys (idempotency_key, reserved_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	releaseKeyQuery = `DELETE FROM idempotency_keys WHERE idempotency_key = $1 AND NOT EXISTS (SELECT 1 FROM ledger_records WHERE idempotency_key = $1)`

	insertRecordQuery = `INSERT INTO ledger_records (idempotency_key, event_type, booking_id, property_id, actor, occurred_at, metadata, asset_nid, workflow_ref, chain, receipt_status, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (idempotency_key) DO NOTHING`

	selectColumns = `SELECT idempotency_key, event_type, booking_id, property_id, actor, occurred_at, metadata, asset_nid, workflow_ref, chain, receipt_status, recorded_at FROM ledger_records`

	getByKeyQuery      = selectColumns + ` WHERE idempotency_key = $1`
	findByBookingQuery = selectColumns + ` WHERE booking_id = $1 ORDER BY seq`

	insertMediaQuery = `INSERT INTO media_records (asset_nid, booking_id, uploaded_by, file_name, mime_type, file_size, url, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (asset_nid) DO NOTHING`

	findMediaByBookingQuery = `SELECT asset_nid, booking_id, uploaded_by, file_name, mime_type, file_size, url, uploaded_at FROM media_records WHERE booking_id = $1 ORDER BY seq`
)

// SQL persists records in Postgres or SQLite. Uniqueness rests on the
// primary key of idempotency_keys and the unique idempotency_key column of
// ledger_records; inserts use ON CONFLICT DO NOTHING and inspect rows affected.
type SQL struct {
	db     *sql.DB
	driver string
}

// NewSQL wraps an open handle. driver selects the schema dialect.
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver}
}

// Migrate creates the tables when missing.
func (s *SQL) Migrate(ctx context.Context) error {
	records, mediaRecords := schemaRecordsSQLite, schemaMediaSQLite
	if s.driver == database.DriverPostgres {
		records, mediaRecords = schemaRecordsPostgres, schemaMediaPostgres
	}
	for _, stmt := range []string{schemaKeys, records, schemaBookingIndex, mediaRecords, schemaMediaBookingIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate ledger schema: %w", err)
		}
	}
	return nil
}

func (s *SQL) Reserve(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, insertKeyQuery, key, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("reserve idempotency key: %w", err)
	}
	return conflictUnlessInserted(res)
}

func (s *SQL) Release(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, releaseKeyQuery, key); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// Complete records a reserved key. A key completed without a prior
// reservation is claimed in the same transaction.
func (s *SQL) Complete(ctx context.Context, record *models.LedgerRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertKeyQuery, record.IdempotencyKey, formatTime(record.RecordedAt)); err != nil {
			return fmt.Errorf("claim idempotency key: %w", err)
		}
		return insertRecord(ctx, tx, record)
	})
}

func (s *SQL) InsertIfAbsent(ctx context.Context, record *models.LedgerRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertKeyQuery, record.IdempotencyKey, formatTime(record.RecordedAt))
		if err != nil {
			return fmt.Errorf("claim idempotency key: %w", err)
		}
		if err := conflictUnlessInserted(res); err != nil {
			return err
		}
		return insertRecord(ctx, tx, record)
	})
}

func (s *SQL) GetByKey(ctx context.Context, key string) (*models.LedgerRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, getByKeyQuery, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get ledger record: %w", err)
	}
	return rec, nil
}

// FindByBooking returns records in insertion order.
func (s *SQL) FindByBooking(ctx context.Context, bookingID string) ([]*models.LedgerRecord, error) {
	rows, err := s.db.QueryContext(ctx, findByBookingQuery, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find ledger records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*models.LedgerRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger records: %w", err)
	}
	return out, nil
}

func (s *SQL) AddMedia(ctx context.Context, r *models.MediaRecord) error {
	res, err := s.db.ExecContext(ctx, insertMediaQuery,
		r.AssetNID,
		r.BookingID,
		r.UploadedBy,
		r.FileName,
		r.MimeType,
		r.FileSize,
		r.URL,
		formatTime(r.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("insert media record: %w", err)
	}
	return conflictUnlessInserted(res)
}

// FindMediaByBooking returns media records in insertion order.
func (s *SQL) FindMediaByBooking(ctx context.Context, bookingID string) ([]*models.MediaRecord, error) {
	rows, err := s.db.QueryContext(ctx, findMediaByBookingQuery, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find media records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*models.MediaRecord, 0)
	for rows.Next() {
		var (
			rec        models.MediaRecord
			uploadedAt string
		)
		if err := rows.Scan(&rec.AssetNID, &rec.BookingID, &rec.UploadedBy, &rec.FileName,
			&rec.MimeType, &rec.FileSize, &rec.URL, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan media record: %w", err)
		}
		if rec.UploadedAt, err = parseTime(uploadedAt); err != nil {
			return nil, fmt.Errorf("parse uploaded_at: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media records: %w", err)
	}
	return out, nil
}

func (s *SQL) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, r *models.LedgerRecord) error {
	metadata, err := r.Event.Metadata.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	var nid, workflow, chain, status sql.NullString
	if r.Receipt != nil {
		nid = sql.NullString{String: r.Receipt.AssetNID, Valid: true}
		workflow = sql.NullString{String: r.Receipt.WorkflowRef, Valid: true}
		chain = sql.NullString{String: r.Receipt.Chain, Valid: true}
		status = sql.NullString{String: string(r.Receipt.Status), Valid: true}
	}
	res, err := tx.ExecContext(ctx, insertRecordQuery,
		r.IdempotencyKey,
		string(r.Event.EventType),
		r.Event.BookingID,
		r.Event.PropertyID,
		r.Event.Actor,
		formatTime(r.Event.OccurredAt),
		string(metadata),
		nid, workflow, chain, status,
		formatTime(r.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("insert ledger record: %w", err)
	}
	return conflictUnlessInserted(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.LedgerRecord, error) {
	var (
		rec                        models.LedgerRecord
		eventType, metadata        string
		occurredAt, recordedAt     string
		nid, workflow, chain, stat sql.NullString
	)
	err := row.Scan(
		&rec.IdempotencyKey,
		&eventType,
		&rec.Event.BookingID,
		&rec.Event.PropertyID,
		&rec.Event.Actor,
		&occurredAt,
		&metadata,
		&nid, &workflow, &chain, &stat,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Event.EventType = models.EventType(eventType)
	if rec.Event.OccurredAt, err = parseTime(occurredAt); err != nil {
		return nil, fmt.Errorf("parse occurred_at: %w", err)
	}
	if rec.RecordedAt, err = parseTime(recordedAt); err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &rec.Event.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if nid.Valid {
		rec.Receipt = &models.CommitReceipt{
			AssetNID:    nid.String,
			WorkflowRef: workflow.String,
			Chain:       chain.String,
			Status:      models.ReceiptStatus(stat.String),
		}
	}
	return &rec, nil
}

func conflictUnlessInserted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

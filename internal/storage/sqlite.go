package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/EasterCompany/package-builder-service/internal/session"
)

const sessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// SQLiteRepository keeps records in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sessionSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (s *SQLiteRepository) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteRepository) Get(ctx context.Context, id string) (*session.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var rec session.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLiteRepository) Put(ctx context.Context, rec *session.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	updated := rec.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, version, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`,
		rec.SessionID, rec.Version, string(data), updated.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put session %s: %w", rec.SessionID, err)
	}
	return nil
}

func (s *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// KV returns the key store sharing this database file.
func (s *SQLiteRepository) KV() *SQLiteKV {
	return &SQLiteKV{db: s.db}
}

// SQLiteKV is a KV store kept in the kv table of the sessions database.
type SQLiteKV struct {
	db *sql.DB
}

func (k *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get key %s: %w", key, err)
	}
	return value, true, nil
}

func (k *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

func (k *SQLiteKV) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := k.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete key %s: %w", key, err)
		}
	}
	return nil
}

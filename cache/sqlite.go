package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	realincome "github.com/malusev998/real-income"
)

// SQLiteCache keeps entries in an embedded sqlite database, one row per key.
type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(config SQLiteConfig) (*SQLiteCache, error) {
	if config.Path == "" {
		return nil, errors.New("sqlite cache: path is required")
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	cache := &SQLiteCache{db: db}
	if err := cache.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return cache, nil
}

func (s *SQLiteCache) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS series_cache (
		cache_key TEXT NOT NULL PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	);`)

	return err
}

func (s *SQLiteCache) Lookup(ctx context.Context, key realincome.Key) (realincome.CacheEntry, bool, error) {
	var (
		payload   string
		fetchedAt string
	)

	row := s.db.QueryRowContext(ctx, `SELECT payload, fetched_at FROM series_cache WHERE cache_key = ?;`, key.String())

	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return realincome.CacheEntry{}, false, nil
		}

		return realincome.CacheEntry{}, false, err
	}

	var series realincome.Series

	when, timeErr := time.Parse(time.RFC3339, fetchedAt)

	if err := json.Unmarshal([]byte(payload), &series); err != nil || timeErr != nil || len(series) == 0 {
		// corrupted row, drop it and treat as a miss
		_, _ = s.db.ExecContext(ctx, `DELETE FROM series_cache WHERE cache_key = ?;`, key.String())
		return realincome.CacheEntry{}, false, nil
	}

	return realincome.CacheEntry{Key: key, Series: series, FetchedAt: when}, true, nil
}

func (s *SQLiteCache) Store(ctx context.Context, key realincome.Key, series realincome.Series) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO series_cache (cache_key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, key.String(), string(payload), time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *SQLiteCache) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

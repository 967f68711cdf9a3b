package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	realincome "github.com/malusev998/real-income"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

type MySQLCache struct {
	db        *sql.DB
	tableName string
}

func NewMySQLCache(config MySQLConfig) (*MySQLCache, error) {
	if config.TableName == "" {
		return nil, errors.New("mysql cache: table name is required")
	}

	db, err := sql.Open("mysql", config.ConnectionString)
	if err != nil {
		return nil, err
	}

	cache := &MySQLCache{db: db, tableName: config.TableName}

	if config.Migrate {
		if err := cache.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return cache, nil
}

func (m *MySQLCache) Migrate() error {
	_, err := m.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id CHAR(36) NOT NULL,
		cache_key VARCHAR(128) NOT NULL,
		payload LONGTEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY %s_cache_key (cache_key)
	);`, m.tableName, m.tableName))

	return err
}

func (m *MySQLCache) Lookup(ctx context.Context, key realincome.Key) (realincome.CacheEntry, bool, error) {
	var (
		payload   string
		fetchedAt string
	)

	row := m.db.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT payload, fetched_at FROM %s WHERE cache_key = ? LIMIT 1;", m.tableName),
		key.String(),
	)

	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return realincome.CacheEntry{}, false, nil
		}

		return realincome.CacheEntry{}, false, err
	}

	var series realincome.Series

	when, timeErr := time.Parse(MySQLTimeFormat, fetchedAt)

	if err := json.Unmarshal([]byte(payload), &series); err != nil || timeErr != nil || len(series) == 0 {
		// corrupted row, drop it and treat as a miss
		_, _ = m.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE cache_key = ?;", m.tableName), key.String())
		return realincome.CacheEntry{}, false, nil
	}

	return realincome.CacheEntry{Key: key, Series: series, FetchedAt: when}, true, nil
}

func (m *MySQLCache) Store(ctx context.Context, key realincome.Key, series realincome.Series) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, cache_key, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), fetched_at = VALUES(fetched_at);
	`, m.tableName), uuid.New().String(), key.String(), string(payload), time.Now().UTC().Format(MySQLTimeFormat))

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Drop removes the cache table, integration tests only.
func (m *MySQLCache) Drop() error {
	_, err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))
	return err
}

func (m *MySQLCache) Close() error {
	if m == nil || m.db == nil {
		return nil
	}

	return m.db.Close()
}

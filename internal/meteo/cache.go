package meteo

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a persistent response cache backed by SQLite. Archive responses
// for past date ranges never change, so entries do not expire.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and if necessary creates) a response cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			url        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached body for url, or nil when there is no entry.
func (c *Cache) Get(url string) ([]byte, error) {
	var body []byte
	err := c.db.QueryRow(`SELECT body FROM responses WHERE url = ?`, url).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return body, nil
}

// Put stores the body for url, replacing any previous entry.
func (c *Cache) Put(url string, body []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)`,
		url, body, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

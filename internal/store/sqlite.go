package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/linkmagico/chatbot/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It gives the
// extraction cache the same survive-a-restart behavior the memory backend
// lacks; losing the file is harmless, entries are just recomputed.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	url        TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

// NewSQLite opens a SQLite database at the given path, configures WAL
// mode and creates the cache table. A zero ttl uses DefaultTTL.
func NewSQLite(dsn string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, url string) (*model.ExtractedRecord, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM page_cache WHERE url = ? AND expires_at > ?`,
		url, s.now().UTC(),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get cached record")
	}

	var rec model.ExtractedRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false, eris.Wrap(err, "sqlite: unmarshal cached record")
	}
	return &rec, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, url string, rec *model.ExtractedRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO page_cache (url, record, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		url, string(raw), now, now.Add(s.ttl),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: put cached record")
	}
	return nil
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM page_cache WHERE expires_at <= ?`, s.now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

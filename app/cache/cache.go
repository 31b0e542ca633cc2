package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store is a content-addressed cache of rendered previews. Chapters whose
// body, summary, and extraction options are unchanged between preprocessor
// runs skip the Markdown render entirely.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite cache at path and applies pending
// schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preview cache: %w", err)
	}

	// The preprocessor is single-threaded per connection; one is enough and
	// avoids SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	version, applied, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate preview cache: %w", err)
	}
	if applied {
		slog.Debug("Preview cache migrated", "path", path, "schema_version", version)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for one chapter from everything the preview
// depends on.
func Key(body, summary string, hasSummary, fullContent bool, minBodyChars int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00%t\x00%d", body, summary, hasSummary, fullContent, minBodyChars)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached preview for key, with ok reporting a hit.
func (s *Store) Get(key string) (string, bool, error) {
	var preview string
	err := s.db.QueryRow(`
		SELECT preview FROM previews WHERE content_hash = ?
	`, key).Scan(&preview)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preview cache: %w", err)
	}

	return preview, true, nil
}

// Put stores a rendered preview under key, replacing any previous value.
func (s *Store) Put(key, preview string) error {
	_, err := s.db.Exec(`
		INSERT INTO previews (content_hash, preview)
		VALUES (?, ?)
		ON CONFLICT (content_hash) DO UPDATE SET
			preview = excluded.preview,
			created_at = CURRENT_TIMESTAMP
	`, key, preview)

	if err != nil {
		return fmt.Errorf("failed to write preview cache: %w", err)
	}

	return nil
}

// Count returns the number of cached previews.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM previews").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached previews: %w", err)
	}
	return count, nil
}

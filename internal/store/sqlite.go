// Package store persists the last weather snapshot and the favorites list
// in a small SQLite key/value table.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	_ "modernc.org/sqlite"

	"github.com/skycast-app/skycast/internal/weather"
)

// Fixed storage keys. There is a single snapshot slot for the whole app,
// whatever city it holds; last write wins.
const (
	snapshotKey  = "weatherData"
	favoritesKey = "favoriteCities"
)

// Store is the durable cache behind the pipeline. Every operation is
// best-effort: storage errors are logged and reported to callers as
// "no data" (reads) or a non-fatal error (writes).
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral cache.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot overwrites the single snapshot slot.
func (s *Store) SaveSnapshot(snap weather.Snapshot) error {
	return s.set(snapshotKey, snap)
}

// LoadSnapshot returns the last saved snapshot. A missing row, a storage
// error, and an undecodable value all report absence, not failure.
func (s *Store) LoadSnapshot() (weather.Snapshot, bool) {
	var snap weather.Snapshot
	if !s.get(snapshotKey, &snap) {
		return weather.Snapshot{}, false
	}
	return snap, true
}

// AddFavorite appends city to the favorites list, preserving insertion
// order. Adding a city already on the list is a no-op.
func (s *Store) AddFavorite(city string) error {
	favorites, err := s.Favorites()
	if err != nil {
		return err
	}
	for _, existing := range favorites {
		if existing == city {
			return nil
		}
	}
	return s.set(favoritesKey, append(favorites, city))
}

// Favorites lists the favorite cities in the order they were first added.
func (s *Store) Favorites() ([]string, error) {
	var favorites []string
	s.get(favoritesKey, &favorites)
	return favorites, nil
}

func (s *Store) set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data))
	if err != nil {
		log.Printf("store: write failed for %s: %v", key, err)
		return err
	}
	return nil
}

// get loads and decodes the value under key into out, reporting whether a
// usable value was found.
func (s *Store) get(key string, out interface{}) bool {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		log.Printf("store: read failed for %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// A corrupt value is indistinguishable from absence to callers.
		log.Printf("store: decode failed for %s: %v", key, err)
		return false
	}
	return true
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists song collections in a local SQLite database and
// answers search and first-line lookups over them.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/minio/highwayhash"
	"go.uber.org/zap"

	"github.com/pdiddy/songbook/internal/segment"
	"github.com/pdiddy/songbook/pkg/types"
)

const (
	dbFile            = "songbook.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned when a lookup matches no song.
var ErrNotFound = errors.New("no matching song")

// songNamespace scopes the name-based UUIDs of stored songs.
var songNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("songbook:song"))

// digestKey keys the HighwayHash content digests. Changing it invalidates
// every stored digest.
var digestKey = []byte("songbook/collection-digest/v1\x00\x00\x00")

// Store manages the song library database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	logger     *zap.Logger
}

// Open opens or creates the library database at dir/songbook.db and creates
// the schema if it does not exist.
func Open(cfg types.LibraryConfig, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			source TEXT,
			digest TEXT,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			first_line TEXT NOT NULL,
			lyrics TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_collection ON songs(collection, position)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_first_line ON songs(first_line)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestResult reports what Ingest did with one collection.
type IngestResult struct {
	Collection string
	Songs      int
	Status     types.ConversionStatus
}

// Ingest stores songs as collection, replacing any previous contents in one
// transaction. When the stored collection already holds exactly these songs
// nothing is written and the result is skipped, unless force is set.
func (s *Store) Ingest(ctx context.Context, collection, sourcePath string, songs []types.Song, force bool) (IngestResult, error) {
	result := IngestResult{Collection: collection, Songs: len(songs)}
	if collection == "" {
		return result, errors.New("collection name required")
	}

	digest, err := Digest(songs)
	if err != nil {
		return result, err
	}
	if !force {
		var stored string
		err := s.db.QueryRowContext(ctx,
			`SELECT COALESCE(digest, '') FROM collections WHERE name = ?`, collection,
		).Scan(&stored)
		if err == nil && stored == digest {
			result.Status = types.ConversionSkipped
			return result, nil
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE collection = ?`, collection); err != nil {
		return result, fmt.Errorf("deleting old songs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collections (name, source, digest, ingested_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			source=excluded.source, digest=excluded.digest,
			ingested_at=excluded.ingested_at`,
		collection, sourcePath, digest, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return result, fmt.Errorf("upserting collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO songs (id, collection, position, title, first_line, lyrics)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return result, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, song := range songs {
		pos := i + 1
		_, err := stmt.ExecContext(ctx,
			SongID(collection, pos, song.Title), collection, pos,
			song.Title, segment.FirstLine(song.Lyrics), song.Lyrics,
		)
		if err != nil {
			return result, fmt.Errorf("inserting song %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("committing collection %s: %w", collection, err)
	}

	s.logger.Debug("ingested collection", zap.String("collection", collection), zap.Int("songs", len(songs)))
	result.Status = types.ConversionDone
	return result, nil
}

// Digest returns a 64-bit HighwayHash of the ordered titles and lyrics of
// songs, hex encoded.
func Digest(songs []types.Song) (string, error) {
	h, err := highwayhash.New64(digestKey)
	if err != nil {
		return "", fmt.Errorf("creating digest: %w", err)
	}
	for _, song := range songs {
		h.Write([]byte(song.Title))
		h.Write([]byte{0})
		h.Write([]byte(song.Lyrics))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// SongID returns the stable identifier of the song at position in
// collection.
func SongID(collection string, position int, title string) string {
	name := collection + "\x00" + strconv.Itoa(position) + "\x00" + title
	return uuid.NewSHA1(songNamespace, []byte(name)).String()
}

// CollectionInfo summarizes one stored collection.
type CollectionInfo struct {
	Name       string `json:"name" yaml:"name"`
	Source     string `json:"source" yaml:"source"`
	Songs      int    `json:"songs" yaml:"songs"`
	IngestedAt string `json:"ingested_at" yaml:"ingested_at"`
}

// Collections lists stored collections by name with their song counts.
func (s *Store) Collections(ctx context.Context) ([]CollectionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, COALESCE(c.source, ''), COALESCE(c.ingested_at, ''), COUNT(s.id)
		 FROM collections c LEFT JOIN songs s ON s.collection = c.name
		 GROUP BY c.name ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var out []CollectionInfo
	for rows.Next() {
		var c CollectionInfo
		if err := rows.Scan(&c.Name, &c.Source, &c.IngestedAt, &c.Songs); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

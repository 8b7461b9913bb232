// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/songbook/pkg/types"
)

// QueryOptions holds parameters for library searches.
type QueryOptions struct {
	// Query is matched as a substring of title, first line and lyrics.
	Query string

	// Collection restricts results to one collection.
	Collection string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search text or filter.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Collection == ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const songColumns = `id, collection, position, title, first_line, lyrics`

// Search returns songs whose title, first line or lyrics contain the query
// text, ordered by collection and position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.LibrarySong, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + songColumns + ` FROM songs WHERE 1=1`)
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		qb.WriteString(` AND (title LIKE ? ESCAPE '\' OR first_line LIKE ? ESCAPE '\' OR lyrics LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if opts.Collection != "" {
		qb.WriteString(` AND collection = ?`)
		args = append(args, opts.Collection)
	}
	qb.WriteString(` ORDER BY collection, position LIMIT ?`)
	args = append(args, maxResults)

	return s.querySongs(ctx, qb.String(), args...)
}

// Lookup returns the songs whose first lyric line equals firstLine,
// optionally within one collection. It returns ErrNotFound when nothing
// matches.
func (s *Store) Lookup(ctx context.Context, collection, firstLine string) ([]types.LibrarySong, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE first_line = ?`
	args := []any{strings.TrimSpace(firstLine)}
	if collection != "" {
		query += ` AND collection = ?`
		args = append(args, collection)
	}
	query += ` ORDER BY collection, position`

	songs, err := s.querySongs(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w for first line %q", ErrNotFound, firstLine)
	}
	return songs, nil
}

// Index returns the first-line index of a stored collection.
func (s *Store) Index(ctx context.Context, collection string) ([]types.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT first_line, position FROM songs WHERE collection = ? ORDER BY position`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	entries := []types.IndexEntry{}
	for rows.Next() {
		var e types.IndexEntry
		if err := rows.Scan(&e.Key, &e.Position); err != nil {
			return nil, fmt.Errorf("scanning index entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) querySongs(ctx context.Context, query string, args ...any) ([]types.LibrarySong, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

func scanSongs(rows *sql.Rows) ([]types.LibrarySong, error) {
	songs := []types.LibrarySong{}
	for rows.Next() {
		var s types.LibrarySong
		if err := rows.Scan(&s.ID, &s.Collection, &s.Position, &s.Title, &s.FirstLine, &s.Lyrics); err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

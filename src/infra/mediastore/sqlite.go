package mediastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contre95/lxbridge/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// ContentPrefix is the handle prefix of indexed audio files.
const ContentPrefix = "content://media/external/audio/media/"

// ErrNotFound is returned when a handle has no backing row.
var ErrNotFound = errors.New("media not found")

// SqliteStore is the content index: it maps content:// handles to the
// filesystem path stored in the _data column.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (and creates if needed) the index at path.
func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases consistent across queries.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audio_media (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			_data TEXT NOT NULL UNIQUE,
			mime_type TEXT,
			date_added INTEGER
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// HandleFor formats the content handle of a row id.
func HandleFor(id int64) string {
	return ContentPrefix + strconv.FormatInt(id, 10)
}

// Index records path and returns its handle. Indexing an already known path
// returns the existing handle.
func (s *SqliteStore) Index(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audio_media (_data, mime_type, date_added) VALUES (?, ?, ?)
		 ON CONFLICT(_data) DO UPDATE SET mime_type = excluded.mime_type`,
		abs, music.AudioMimeType(abs), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to index %s: %w", abs, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT _id FROM audio_media WHERE _data = ?`, abs).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read back %s: %w", abs, err)
	}
	slog.Debug("Indexed media", "path", abs, "handle", HandleFor(id))
	return HandleFor(id), nil
}

// Lookup returns the filesystem path behind a content handle.
func (s *SqliteStore) Lookup(ctx context.Context, uri string) (string, error) {
	if !strings.HasPrefix(uri, ContentPrefix) {
		return "", fmt.Errorf("%w: unknown authority in %s", ErrNotFound, uri)
	}
	idPart := strings.TrimPrefix(uri, ContentPrefix)
	if i := strings.IndexAny(idPart, "/?#"); i >= 0 {
		idPart = idPart[:i]
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: malformed handle %s", ErrNotFound, uri)
	}

	var path string
	err = s.db.QueryRowContext(ctx, `SELECT _data FROM audio_media WHERE _id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", uri, err)
	}
	return path, nil
}

// Remove drops path from the index. Unknown paths are ignored.
func (s *SqliteStore) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audio_media WHERE _data = ?`, abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	return nil
}

// Count returns the number of indexed files.
func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audio_media`).Scan(&n)
	return n, err
}

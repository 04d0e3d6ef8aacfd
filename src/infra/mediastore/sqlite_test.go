package mediastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) *SqliteStore {
	t.Helper()
	store, err := NewSqliteStore(filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIndexAndLookup(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "song.mp3")

	handle, err := store.Index(ctx, path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(handle, ContentPrefix) {
		t.Errorf("unexpected handle %s", handle)
	}

	got, err := store.Lookup(ctx, handle)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}

	again, err := store.Index(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if again != handle {
		t.Errorf("re-indexing should keep handle %s, got %s", handle, again)
	}
}

func TestLookup_NotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, uri := range []string{
		HandleFor(999),
		"content://com.android.providers.downloads.documents/document/12",
		ContentPrefix + "abc",
	} {
		if _, err := store.Lookup(ctx, uri); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for %s, got %v", uri, err)
		}
	}
}

func TestRemove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "song.flac")

	handle, err := store.Index(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(ctx, path); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Lookup(ctx, handle); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestScanDir_IndexesAudioOnly(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.flac", "cover.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "c.ogg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	scanner, err := NewScanner(store)
	if err != nil {
		t.Fatal(err)
	}
	defer scanner.Stop()

	n, err := scanner.ScanDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 indexed files, got %d", n)
	}
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows, got %d", count)
	}
}

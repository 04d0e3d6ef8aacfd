package mediastore

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/contre95/lxbridge/src/music"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 2 * time.Second

// Indexer is the part of the store the scanner writes to.
type Indexer interface {
	Index(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) error
}

// IndexObserver is told about every change the scanner makes to the index.
type IndexObserver interface {
	ObserveIndexChange(change string)
}

// Scanner keeps the content index in sync with a set of directories, the way
// the platform media scanner does.
type Scanner struct {
	watcher  *fsnotify.Watcher
	indexer  Indexer
	observer IndexObserver
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewScanner creates a new scanner writing to indexer
func NewScanner(indexer Indexer) (*Scanner, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Scanner{
		watcher:  watcher,
		indexer:  indexer,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// SetObserver registers an observer for index changes.
func (s *Scanner) SetObserver(observer IndexObserver) {
	s.observer = observer
}

func (s *Scanner) observe(change string) {
	if s.observer != nil {
		s.observer.ObserveIndexChange(change)
	}
}

// ScanDir walks dir and indexes every audio file under it.
func (s *Scanner) ScanDir(ctx context.Context, dir string) (int, error) {
	indexed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !music.IsAudioFile(path) {
			return nil
		}
		if _, err := s.indexer.Index(ctx, path); err != nil {
			slog.Warn("Failed to index file", "path", path, "error", err)
			return nil
		}
		indexed++
		s.observe("indexed")
		return nil
	})
	slog.Info("Media scan finished", "dir", dir, "indexed", indexed)
	return indexed, err
}

// Start begins watching dirs for audio files being added or removed.
func (s *Scanner) Start(ctx context.Context, dirs ...string) error {
	for _, dir := range dirs {
		if err := s.watcher.Add(dir); err != nil {
			return err
		}
		slog.Info("Watching media directory", "path", dir)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.watchLoop(ctx)
	return nil
}

// Stop stops the watcher and cancels pending debounced events. It is safe to
// call more than once and without a prior Start.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.running = false
	close(s.stop)
	for path, timer := range s.timers {
		timer.Stop()
		delete(s.timers, path)
	}
	s.mu.Unlock()

	s.watcher.Close()
	s.wg.Wait()
}

func (s *Scanner) watchLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(ctx, event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Media watcher error", "error", err)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scanner) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !music.IsAudioFile(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		s.cancelPending(event.Name)
		if err := s.indexer.Remove(ctx, event.Name); err != nil {
			slog.Warn("Failed to drop removed file from index", "path", event.Name, "error", err)
			return
		}
		s.observe("removed")
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		s.schedule(ctx, event.Name)
	}
}

// schedule indexes path once writes to it have settled for the debounce period.
func (s *Scanner) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if timer, ok := s.timers[path]; ok {
		timer.Stop()
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()

		handle, err := s.indexer.Index(ctx, path)
		if err != nil {
			slog.Warn("Failed to index new file", "path", path, "error", err)
			return
		}
		s.observe("indexed")
		slog.Info("Indexed new media file", "path", path, "handle", handle)
	})
}

func (s *Scanner) cancelPending(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[path]; ok {
		timer.Stop()
		delete(s.timers, path)
	}
}

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store keeps the most recently loaded catalog of a file and hands out
// snapshots to concurrent readers.
type Store struct {
	path     string
	loader   *Loader
	logger   *zap.Logger
	current  atomic.Pointer[[]Record]
	onReload func(records int, err error)
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithReloadHook registers fn to be called after every reload attempt.
func WithReloadHook(fn func(records int, err error)) StoreOption {
	return func(s *Store) {
		s.onReload = fn
	}
}

// NewStore loads the catalog at path. It fails if the initial load fails.
func NewStore(logger *zap.Logger, path string, opts ...StoreOption) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		path:   filepath.Clean(path),
		loader: NewLoader(logger),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the catalog file the store reads.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current catalog.
func (s *Store) Snapshot() []Record {
	records := s.current.Load()
	if records == nil {
		return []Record{}
	}
	return slices.Clone(*records)
}

// Reload re-reads the catalog file. On failure the previous catalog is kept.
func (s *Store) Reload() error {
	records, err := s.loader.Load(s.path)
	if s.onReload != nil {
		s.onReload(len(records), err)
	}
	if err != nil {
		return err
	}
	s.current.Store(&records)
	s.logger.Info("catalog reloaded",
		zap.String("op", "catalog.Store.Reload"),
		zap.String("path", s.path),
		zap.Int("records", len(records)),
	)
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
// The parent directory is watched so that editors replacing the file by
// rename are picked up.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("catalog reload failed, keeping previous catalog",
					zap.String("op", "catalog.Store.Watch"),
					zap.String("path", s.path),
					zap.Error(err),
				)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("catalog watcher error",
				zap.String("op", "catalog.Store.Watch"),
				zap.Error(err),
			)
		}
	}
}

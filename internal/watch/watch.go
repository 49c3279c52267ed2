// Package watch analyzes crash files as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"clearcrash/pkg/crash"
)

// Extensions are the file types the watcher reads.
var Extensions = []string{".txt", ".trace", ".log", ".json"}

// Handler receives each newly seen exception and the file it came from.
type Handler func(path string, exc crash.RawException)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher reports every distinct exception written to files in one
// directory. Content it has already reported is skipped, so a file that is
// rewritten with the same trace produces one call.
type Watcher struct {
	dir     string
	handler Handler
	log     *zap.Logger
	fsw     *fsnotify.Watcher

	mu   sync.Mutex
	seen map[[32]byte]struct{}
}

// New starts watching dir. Events that arrive before Run is called are
// queued.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		handler: handler,
		log:     zap.NewNop(),
		fsw:     fsw,
		seen:    make(map[[32]byte]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is cancelled or the watcher fails. It
// closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.log.Info("watching for crash files", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.process(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.dir, err)
		}
	}
}

// Process reads path and reports its exception if it is new. It is what
// Run does for each event and can be used to scan existing files.
func (w *Watcher) Process(path string) bool {
	return w.process(path)
}

func (w *Watcher) process(path string) bool {
	if !hasWatchedExtension(path) {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Debug("skipping unreadable file", zap.String("path", path), zap.Error(err))
		return false
	}

	sum := blake3.Sum256(data)
	w.mu.Lock()
	_, dup := w.seen[sum]
	w.mu.Unlock()
	if dup {
		return false
	}

	exc, err := crash.ReadBytes(data)
	if err != nil {
		// Partially written files fail here and are retried on the next
		// write event.
		if !errors.Is(err, crash.ErrNoException) {
			w.log.Debug("skipping unparsable file", zap.String("path", path), zap.Error(err))
		}
		return false
	}

	w.mu.Lock()
	if _, dup := w.seen[sum]; dup {
		w.mu.Unlock()
		return false
	}
	w.seen[sum] = struct{}{}
	w.mu.Unlock()

	w.log.Debug("crash file found", zap.String("path", path), zap.String("kind", exc.Kind))
	w.handler(path, exc)
	return true
}

func hasWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

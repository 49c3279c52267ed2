package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/pkg/crash"
)

// Store writes reports to a directory and counts recurring fingerprints.
// It is safe for concurrent use.
type Store struct {
	dir    string
	enc    Encoder
	filter *frames.Filter
	log    *zap.Logger

	mu     sync.Mutex
	counts map[string]int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreFilter sets the frame filter used for fingerprints.
func WithStoreFilter(f *frames.Filter) StoreOption {
	return func(s *Store) { s.filter = f }
}

// WithStoreLogger sets the store's logger.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns a store writing enc-formatted reports under dir. The
// directory is created on first save.
func NewStore(dir string, enc Encoder, opts ...StoreOption) *Store {
	if enc == nil {
		enc = TextEncoder{}
	}
	s := &Store{
		dir:    dir,
		enc:    enc,
		filter: frames.Default(),
		log:    zap.NewNop(),
		counts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory reports are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes r and returns the file path. r.Occurrence is set to the
// number of times r's fingerprint has been saved by this store.
func (s *Store) Save(r Report) (string, error) {
	s.mu.Lock()
	s.counts[r.Fingerprint]++
	r.Occurrence = s.counts[r.Fingerprint]
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("crash-%s-%s", r.CreatedAt.Format("2006-01-02-15-04-05.000"), ShortFingerprint(r.Fingerprint))
	if r.Occurrence > 1 {
		name += fmt.Sprintf("-%d", r.Occurrence)
	}
	name += "." + s.enc.Extension()
	path := filepath.Join(s.dir, name)

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if _, statErr := os.Stat(f.Name()); statErr == nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := s.enc.Encode(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	s.log.Debug("crash report saved",
		zap.String("path", path),
		zap.String("fingerprint", r.Fingerprint),
		zap.Int("occurrence", r.Occurrence),
	)
	return path, nil
}

// Record builds and saves a report. It lets a Store back a crash hook.
func (s *Store) Record(exc crash.RawException, d diagnosis.Diagnosis, text string) error {
	_, err := s.Save(New(exc, d, text, s.filter))
	return err
}

// Count returns how many reports with fingerprint fp were saved.
func (s *Store) Count(fp string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[fp]
}

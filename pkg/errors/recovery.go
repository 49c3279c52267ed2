package errors

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RecoveryStrategy defines how to recover from an error
type RecoveryStrategy interface {
	CanRecover(err *ClearCrashError) bool
	Attempt(err *ClearCrashError) error
	Description() string
}

// Recoverer attempts to recover from errors
type Recoverer struct {
	strategies []RecoveryStrategy
	out        io.Writer
	verbose    bool
}

// NewRecoverer creates a new error recoverer reporting progress to out
func NewRecoverer(out io.Writer, verbose bool) *Recoverer {
	return &Recoverer{
		strategies: []RecoveryStrategy{
			&ReportDirFallbackStrategy{},
		},
		out:     out,
		verbose: verbose,
	}
}

// Recover attempts to recover from an error. On success the strategy may
// leave instructions for the caller in err.Context.
func (r *Recoverer) Recover(err *ClearCrashError) error {
	if !err.Recoverable {
		return err
	}
	for _, strategy := range r.strategies {
		if strategy.CanRecover(err) {
			if r.verbose {
				fmt.Fprintf(r.out, "🔧 Attempting recovery: %s\n", strategy.Description())
			}
			if recErr := strategy.Attempt(err); recErr == nil {
				if r.verbose {
					fmt.Fprintln(r.out, "✅ Recovery successful!")
				}
				return nil
			} else if r.verbose {
				fmt.Fprintf(r.out, "⚠️  Recovery failed: %v\n", recErr)
			}
		}
	}
	return err
}

// ReportDirFallbackStrategy provides a writable directory when the
// configured report directory cannot be used. The directory is returned in
// err.Context["fallback_dir"].
type ReportDirFallbackStrategy struct{}

func (s *ReportDirFallbackStrategy) CanRecover(err *ClearCrashError) bool {
	return err.Code == ErrReportWrite && err.Context["fallback_dir"] == ""
}

func (s *ReportDirFallbackStrategy) Attempt(err *ClearCrashError) error {
	dir := filepath.Join(os.TempDir(), "clearcrash", "crashes")
	if err.Context["dir"] == dir {
		return fmt.Errorf("fallback directory %s already failed", dir)
	}
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return fmt.Errorf("failed to create fallback directory: %w", mkErr)
	}
	err.WithContext("fallback_dir", dir)
	return nil
}

func (s *ReportDirFallbackStrategy) Description() string {
	return "Falling back to a temporary report directory"
}

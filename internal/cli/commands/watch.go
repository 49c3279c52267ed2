package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/watch"
	"clearcrash/pkg/crash"
	e "clearcrash/pkg/errors"
	"clearcrash/pkg/terminal"
)

// WatchOptions controls the watch command.
type WatchOptions struct {
	// Save writes a report for every crash file found.
	Save bool
	// Existing analyzes files already in the directory before watching.
	Existing bool
}

// Watch prints a diagnosis for every crash file written to dir until ctx is
// cancelled.
func Watch(ctx context.Context, env *Env, opts WatchOptions, dir string) error {
	styled := env.StyledOptions(env.Stdout)
	found := 0

	handle := func(path string, exc crash.RawException) {
		d := env.Engine.Diagnose(exc)
		if found > 0 {
			fmt.Fprintln(env.Stdout)
		}
		found++
		fmt.Fprintf(env.Stdout, "==> %s <==\n", path)
		fmt.Fprint(env.Stdout, diagnosis.RenderWith(d, styled))

		if opts.Save {
			p, err := saveReport(env, exc, d)
			if err != nil {
				env.Log.Warn("failed to save crash report", zap.String("path", path), zap.Error(err))
				return
			}
			printSaved(env, p)
		}
	}

	w, err := watch.New(dir, handle, watch.WithLogger(env.Log))
	if err != nil {
		return e.Wrap(err, e.ErrWatchFailed, "Cannot watch directory").WithContext("dir", dir)
	}

	if opts.Existing {
		for _, p := range existingFiles(dir) {
			w.Process(p)
		}
	}

	fmt.Fprintf(env.Stderr, "%s Watching %s for crash files (Ctrl+C to stop)\n", terminal.IconWatch, dir)
	if err := w.Run(ctx); err != nil {
		return e.Wrap(err, e.ErrWatchFailed, "Watching stopped").WithContext("dir", dir)
	}
	return nil
}

// existingFiles lists the regular files in dir in name order.
func existingFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range entries {
		if ent.Type().IsRegular() {
			out = append(out, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(out)
	return out
}

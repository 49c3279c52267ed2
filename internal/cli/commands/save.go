package commands

import (
	"fmt"

	"go.uber.org/zap"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/report"
	"clearcrash/pkg/crash"
	e "clearcrash/pkg/errors"
	"clearcrash/pkg/terminal"
)

// saveReport writes one report to the configured store. When the store
// cannot be written it retries once in a fallback directory.
func saveReport(env *Env, exc crash.RawException, d diagnosis.Diagnosis) (string, error) {
	store, err := env.Store()
	if err != nil {
		return "", e.Wrap(err, e.ErrInvalidFormat, "Invalid report format")
	}
	r := report.New(exc, d, diagnosis.RenderWith(d, env.PlainOptions()), env.Filter)

	path, err := store.Save(r)
	if err == nil {
		return path, nil
	}

	ccErr := e.Wrap(err, e.ErrReportWrite, "Failed to save crash report").
		WithContext("dir", store.Dir())
	if recErr := e.NewRecoverer(env.Stderr, env.Config.Verbose).Recover(ccErr); recErr != nil {
		return "", ccErr
	}

	fallback := ccErr.Context["fallback_dir"]
	env.Log.Warn("report directory unusable, using fallback",
		zap.String("dir", store.Dir()),
		zap.String("fallback", fallback),
	)
	store, err = env.StoreAt(fallback)
	if err != nil {
		return "", ccErr
	}
	if path, err = store.Save(r); err != nil {
		return "", ccErr
	}
	return path, nil
}

func printSaved(env *Env, path string) {
	fmt.Fprintf(env.Stderr, "%s Report saved to %s\n", terminal.IconReport, path)
}

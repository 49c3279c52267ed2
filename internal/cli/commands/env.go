// Package commands implements the clearcrash subcommands. Each command is a
// plain function over an Env so it can be driven from tests without a
// process, a terminal or a configuration file.
package commands

import (
	"io"
	"os"

	"go.uber.org/zap"

	"clearcrash/internal/analyzer"
	"clearcrash/internal/config"
	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/internal/report"
	"clearcrash/pkg/terminal"
)

// Env is the state shared by all commands.
type Env struct {
	Config *config.Config
	Filter *frames.Filter
	Engine *analyzer.Engine
	Log    *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEnv builds the engine and frame filter described by cfg.
func NewEnv(cfg *config.Config, log *zap.Logger) (*Env, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	filter, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	env := &Env{
		Config: cfg,
		Filter: filter,
		Log:    log,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	env.Engine = analyzer.NewEngine(
		analyzer.WithFilter(filter),
		analyzer.WithLogger(log),
		analyzer.WithReportURL(cfg.ReportURL),
		analyzer.WithRenderOptions(env.PlainOptions()),
	)
	return env, nil
}

// Markers returns the configured marker set.
func (e *Env) Markers() diagnosis.Markers {
	if e.Config.Markers == "ascii" {
		return diagnosis.ASCIIMarkers
	}
	return diagnosis.EmojiMarkers
}

// PlainOptions renders without escape sequences. Saved reports use it.
func (e *Env) PlainOptions() diagnosis.Options {
	return diagnosis.Options{Markers: e.Markers()}
}

// StyledOptions renders for w, with colour when w supports it.
func (e *Env) StyledOptions(w io.Writer) diagnosis.Options {
	s := terminal.NewStyler(w)
	if !s.Enabled() {
		return e.PlainOptions()
	}
	return diagnosis.Options{
		Markers: e.Markers(),
		Title:   s.Title,
		Heading: s.Heading,
	}
}

// Store returns the report store for the configured directory and format.
func (e *Env) Store() (*report.Store, error) {
	return e.StoreAt(e.Config.Reports.Dir)
}

// StoreAt is Store writing to dir.
func (e *Env) StoreAt(dir string) (*report.Store, error) {
	enc, err := report.EncoderFor(e.Config.Reports.Format)
	if err != nil {
		return nil, err
	}
	return report.NewStore(dir, enc,
		report.WithStoreFilter(e.Filter),
		report.WithStoreLogger(e.Log),
	), nil
}

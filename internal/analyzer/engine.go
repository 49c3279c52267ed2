package analyzer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/pkg/crash"
)

// Option configures an Engine.
type Option func(*Engine)

// WithFilter sets the frame filter used to locate user code.
func WithFilter(f *frames.Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// WithLogger sets the logger that records recovered analyzer failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithReportURL sets the link offered for kinds without an analyzer. An
// empty URL drops the link.
func WithReportURL(url string) Option {
	return func(e *Engine) { e.reportURL = url }
}

// WithRenderOptions sets the presentation used by Analyze.
func WithRenderOptions(opts diagnosis.Options) Option {
	return func(e *Engine) { e.render = opts }
}

// WithoutDefaults starts the engine with an empty kind table.
func WithoutDefaults() Option {
	return func(e *Engine) { e.table = map[string]Analyzer{} }
}

// Engine routes exceptions to analyzers by kind.
//
// Register every analyzer before sharing the engine; after that Analyze and
// Diagnose only read the table and are safe for concurrent use.
type Engine struct {
	table     map[string]Analyzer
	filter    *frames.Filter
	log       *zap.Logger
	reportURL string
	render    diagnosis.Options
}

// NewEngine returns an engine with the built-in analyzers registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		table:     defaultTable(),
		filter:    frames.Default(),
		log:       zap.NewNop(),
		reportURL: DefaultReportURL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultTable() map[string]Analyzer {
	table := make(map[string]Analyzer)
	add := func(a Analyzer, kinds ...string) {
		for _, k := range kinds {
			table[k] = a
		}
	}
	add(NullRef{},
		crash.KindNullRef,
		"NullPointerException",
		"java.lang.NullPointerException",
		"kotlin.KotlinNullPointerException",
	)
	add(IndexOutOfBounds{},
		crash.KindIndexOutOfBounds,
		"IndexOutOfBoundsException",
		"java.lang.IndexOutOfBoundsException",
		"java.lang.ArrayIndexOutOfBoundsException",
		"java.lang.StringIndexOutOfBoundsException",
	)
	add(ClassCast{},
		crash.KindClassCast,
		"ClassCastException",
		"java.lang.ClassCastException",
	)
	return table
}

// Register routes every kind in kinds to a, replacing earlier entries.
func (e *Engine) Register(a Analyzer, kinds ...string) {
	for _, k := range kinds {
		e.table[k] = a
	}
}

// Kinds returns the registered kinds in sorted order.
func (e *Engine) Kinds() []string {
	kinds := make([]string, 0, len(e.table))
	for k := range e.table {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Lookup returns the analyzer registered for kind.
func (e *Engine) Lookup(kind string) (Analyzer, bool) {
	a, ok := e.table[kind]
	return a, ok
}

// Diagnose explains exc. It never panics: a failing analyzer is replaced by
// the generic explanation.
func (e *Engine) Diagnose(exc crash.RawException) (d diagnosis.Diagnosis) {
	a, ok := e.table[exc.Kind]
	if !ok {
		return e.generic(exc)
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("analyzer panicked, using generic diagnosis",
				zap.String("kind", exc.Kind),
				zap.String("panic", fmt.Sprint(r)),
			)
			d = e.generic(exc)
		}
	}()

	d = Diagnose(a, exc, e.filter)
	if !d.Valid() {
		e.log.Debug("analyzer returned incomplete diagnosis, using generic diagnosis",
			zap.String("kind", exc.Kind))
		d = e.generic(exc)
	}
	return d
}

// Analyze explains exc as rendered text. The result is never empty.
func (e *Engine) Analyze(exc crash.RawException) string {
	return e.Render(e.Diagnose(exc))
}

// Render formats d with the engine's render options.
func (e *Engine) Render(d diagnosis.Diagnosis) string {
	return diagnosis.RenderWith(d, e.render)
}

func (e *Engine) generic(exc crash.RawException) diagnosis.Diagnosis {
	return Diagnose(NewGeneric(exc, e.reportURL), exc, e.filter)
}

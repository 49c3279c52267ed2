package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/report"
	"clearcrash/pkg/crash"
	e "clearcrash/pkg/errors"
	"clearcrash/pkg/logger"
	"clearcrash/pkg/terminal"
)

// AnalyzeOptions controls the analyze command.
type AnalyzeOptions struct {
	// Format is text (the rendered diagnosis) or a report format: json,
	// yaml or msgpack.
	Format string
	// Save writes a report for every analyzed exception.
	Save bool
}

type input struct {
	name string
	exc  crash.RawException
}

// Analyze reads one exception from each file, or from env.Stdin when no
// files are given, and prints a diagnosis for each.
//
// With several files, a file that cannot be read is reported and skipped;
// Analyze fails only when none of them could be read.
func Analyze(ctx context.Context, env *Env, opts AnalyzeOptions, files []string) error {
	var enc report.Encoder
	if f := strings.ToLower(opts.Format); f != "" && f != "text" {
		var err error
		if enc, err = report.EncoderFor(f); err != nil {
			return e.Wrap(err, e.ErrInvalidFormat, "Invalid output format").WithContext("format", opts.Format)
		}
	}

	inputs, err := readInputs(env, files)
	if err != nil {
		return err
	}

	logger.StartTimer("analyze")
	excs := make([]crash.RawException, len(inputs))
	for i, in := range inputs {
		excs[i] = in.exc
	}
	ds, err := env.Engine.DiagnoseAll(ctx, excs)
	logger.EndTimer("analyze")
	if err != nil {
		return err
	}

	styled := env.StyledOptions(env.Stdout)
	for i, in := range inputs {
		if enc == nil {
			if i > 0 {
				fmt.Fprintln(env.Stdout)
			}
			if len(inputs) > 1 {
				fmt.Fprintf(env.Stdout, "==> %s <==\n", in.name)
			}
			fmt.Fprint(env.Stdout, diagnosis.RenderWith(ds[i], styled))
		} else {
			if _, ok := enc.(report.YAMLEncoder); ok && i > 0 {
				fmt.Fprintln(env.Stdout, "---")
			}
			r := report.New(in.exc, ds[i], diagnosis.RenderWith(ds[i], env.PlainOptions()), env.Filter)
			if err := enc.Encode(env.Stdout, r); err != nil {
				return e.Wrap(err, e.ErrUnknown, "Failed to write output")
			}
		}

		if opts.Save {
			path, err := saveReport(env, in.exc, ds[i])
			if err != nil {
				return err
			}
			printSaved(env, path)
		}
	}
	return nil
}

func readInputs(env *Env, files []string) ([]input, error) {
	if len(files) == 0 {
		logger.Verbose("reading exception from stdin")
		exc, err := crash.Read(env.Stdin)
		if err != nil {
			return nil, readError(err, "stdin")
		}
		return []input{{name: "stdin", exc: exc}}, nil
	}

	if len(files) == 1 {
		exc, err := readFile(files[0])
		if err != nil {
			return nil, err
		}
		return []input{{name: files[0], exc: exc}}, nil
	}

	bar := terminal.NewProgressBar(env.Stderr, len(files), "Reading traces")
	inputs := make([]input, 0, len(files))
	var firstErr error
	for _, name := range files {
		exc, err := readFile(name)
		bar.Increment()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logger.Warnf("skipping %s: %v", name, err)
			continue
		}
		inputs = append(inputs, input{name: name, exc: exc})
	}
	bar.Finish()

	if len(inputs) == 0 {
		return nil, firstErr
	}
	return inputs, nil
}

func readFile(name string) (crash.RawException, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return crash.RawException{}, readError(err, name)
	}
	exc, err := crash.ReadBytes(data)
	if err != nil {
		return crash.RawException{}, readError(err, name)
	}
	return exc, nil
}

// readError classifies a failure to obtain an exception from source.
func readError(err error, source string) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	var ccErr *e.ClearCrashError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ccErr = e.New(e.ErrTraceNotFound, "Trace file not found")
	case errors.Is(err, crash.ErrNoException):
		ccErr = e.New(e.ErrNoException, "No exception found")
	case errors.Is(err, crash.ErrInvalidException),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		ccErr = e.New(e.ErrInvalidTrace, "Invalid exception JSON")
	default:
		ccErr = e.New(e.ErrTraceUnreadable, "Cannot read trace")
	}
	return ccErr.WithCause(err).WithContext("source", source)
}

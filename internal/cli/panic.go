package cli

import (
	"fmt"
	"io"

	"clearcrash/internal/analyzer"
	"clearcrash/internal/config"
	"clearcrash/internal/crashhook"
	"clearcrash/internal/report"
	"clearcrash/pkg/crash"
	"clearcrash/pkg/terminal"
)

// PanicHandler explains clearcrash's own panics with clearcrash, saves a
// report and then exits.
type PanicHandler struct {
	hook      *crashhook.Hook
	out       io.Writer
	exit      func(int)
	reportDir string
}

// NewPanicHandler returns a handler that writes to out and ends the
// process through exit.
func NewPanicHandler(out io.Writer, exit func(int)) *PanicHandler {
	p := &PanicHandler{
		out:       out,
		exit:      exit,
		reportDir: config.Default().Reports.Dir,
	}
	store := report.NewStore(p.reportDir, report.TextEncoder{})
	p.hook = crashhook.New(analyzer.NewEngine(), crashhook.WithRecorder(store))
	p.hook.TryInstall(p.crashed, crashhook.WriterSink(out))
	return p
}

// Recover catches panics and converts them to friendly output. It must be
// deferred directly.
func (p *PanicHandler) Recover() { //nolint:revive
	if r := recover(); r != nil {
		p.hook.Handle(crash.FromPanic(r))
	}
}

// crashed runs after the diagnosis has been written.
func (p *PanicHandler) crashed(crash.RawException) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "%s %s\n", terminal.IconCrash, styled(p.out, terminal.Red+terminal.Bold, "clearcrash crashed unexpectedly"))
	fmt.Fprintf(p.out, "A crash report has been saved in:\n%s\n", p.reportDir)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Please report this issue at:")
	fmt.Fprintln(p.out, styled(p.out, terminal.Cyan, analyzer.DefaultReportURL))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Include the crash report and what you were doing when this happened.")

	p.exit(2)
}


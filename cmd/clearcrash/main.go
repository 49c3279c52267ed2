package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"clearcrash/internal/cli"
	"clearcrash/pkg/logger"
)

func main() {
	// Panics inside clearcrash are explained by clearcrash itself.
	ph := cli.NewPanicHandler(os.Stderr, os.Exit)
	defer ph.Recover()

	code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Close()

	app := cli.New(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		return cli.NewErrorHandler(stderr, app.Verbose(), app.Debug()).Handle(err)
	}
	return 0
}

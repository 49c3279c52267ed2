// Package cli provides the command-line interface for clearcrash.
// It implements a modular command system on top of cobra. The CLI uses a
// registry pattern to register available commands; the commands themselves
// live in the commands subpackage and only see the shared commands.Env.
//
// The main components are:
//   - CLI: The root command, global flags and environment setup
//   - Command: Interface that all commands must implement
//   - ErrorHandler and PanicHandler: how failures reach the user
package cli

import (
	"context"
	"errors"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"clearcrash/internal/cli/commands"
	"clearcrash/internal/config"
	e "clearcrash/pkg/errors"
	"clearcrash/pkg/logger"
	"clearcrash/pkg/terminal"
	"clearcrash/pkg/version"
)

// Command represents a CLI command
type Command interface {
	Name() string
	Description() string
	Command() *cobra.Command
}

type globalFlags struct {
	verbose    bool
	debug      bool
	color      string
	markers    string
	configPath string
}

// CLI represents the command-line interface
type CLI struct {
	root     *cobra.Command
	commands map[string]Command
	flags    globalFlags

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	env        *commands.Env
	configPath string
}

// New creates a new CLI instance reading from stdin and writing to stdout
// and stderr.
func New(stdin io.Reader, stdout, stderr io.Writer) *CLI {
	c := &CLI{
		commands: make(map[string]Command),
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}
	c.root = &cobra.Command{
		Use:   "clearcrash",
		Short: "Explain crashes in plain language",
		Long: `clearcrash reads a crash (a JVM or Android stack trace, or a JSON
exception) and explains what happened, why it probably happened and how to
fix it, pointing at the first frame of your own code.`,
		Version:           version.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	c.root.SetVersionTemplate(version.Info() + "\n")
	c.root.SetIn(stdin)
	c.root.SetOut(stdout)
	c.root.SetErr(stderr)

	pf := c.root.PersistentFlags()
	pf.BoolVar(&c.flags.verbose, "verbose", false, "show verbose output")
	pf.BoolVar(&c.flags.debug, "debug", false, "show debug output and write a log file")
	pf.StringVar(&c.flags.color, "color", "auto", "colorize output (auto|always|never)")
	pf.StringVar(&c.flags.markers, "markers", "emoji", "section markers (emoji|ascii)")
	pf.StringVar(&c.flags.configPath, "config", "", "configuration file (default $CLEARCRASH_CONFIG or ~/.clearcrash.toml)")

	c.registerCommands()
	return c
}

func (c *CLI) register(cmd Command) {
	c.commands[cmd.Name()] = cmd
	c.root.AddCommand(cmd.Command())
}

// registerCommands registers all available commands
func (c *CLI) registerCommands() {
	c.register(NewAnalyzeCommand(c))
	c.register(NewWatchCommand(c))
	c.register(NewKindsCommand(c))
	c.register(NewConfigCommand(c))
	c.register(NewVersionCommand(c))
}

// Commands returns the registered command names.
func (c *CLI) Commands() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the CLI with given arguments, not including the program
// name.
func (c *CLI) Run(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var ccErr *e.ClearCrashError
	if errors.As(err, &ccErr) {
		return err
	}
	if c.env == nil {
		// Flag and argument errors are reported before setup runs.
		return e.New(e.ErrUsage, err.Error())
	}
	return e.Wrap(err, e.ErrUnknown, "An unexpected error occurred")
}

// Verbose reports whether verbose output was requested.
func (c *CLI) Verbose() bool {
	if c.env != nil {
		return c.env.Config.Verbose
	}
	return c.flags.verbose
}

// Debug reports whether debug output was requested.
func (c *CLI) Debug() bool {
	if c.env != nil {
		return c.env.Config.Debug
	}
	return c.flags.debug
}

// setup loads the configuration, applies global flags on top of it and
// builds the command environment.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	path := c.flags.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return e.Wrap(err, e.ErrInvalidConfig, "Invalid configuration").WithContext("path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = c.flags.verbose
	}
	if flags.Changed("debug") {
		cfg.Debug = c.flags.debug
	}
	if flags.Changed("color") {
		cfg.Color = c.flags.color
	}
	if flags.Changed("markers") {
		cfg.Markers = c.flags.markers
	}
	if err := cfg.Validate(); err != nil {
		return e.Wrap(err, e.ErrInvalidConfig, "Invalid option")
	}

	mode, _ := terminal.ParseColorMode(cfg.Color)
	terminal.SetColorMode(mode)
	logger.Initialize(cfg.Verbose, cfg.Debug)
	logger.Debugf("configuration loaded from %s", path)

	env, err := commands.NewEnv(cfg, logger.L())
	if err != nil {
		return e.Wrap(err, e.ErrInvalidRules, "Invalid frame rules")
	}
	env.Stdin, env.Stdout, env.Stderr = c.stdin, c.stdout, c.stderr
	c.env = env
	c.configPath = path
	return nil
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"clearcrash/internal/cli/commands"
	"clearcrash/internal/report"
)

// Real command implementations using the extracted command functions
type analyzeCmd struct{ cli *CLI }

func (analyzeCmd) Name() string        { return "analyze" }
func (analyzeCmd) Description() string { return "Explain crashes from trace files or stdin" }
func (a analyzeCmd) Command() *cobra.Command {
	var opts commands.AnalyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: a.Description(),
		Long: `Analyze reads one exception from each file, or from stdin when no file is
given. Input may be a JVM or Android (logcat) stack trace or a JSON object
with "kind", "message" and "stack" fields.`,
		Example: "  adb logcat -d | clearcrash analyze\n  clearcrash analyze --format json crash.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := a.cli.env
			if !cmd.Flags().Changed("save") {
				opts.Save = env.Config.Reports.Save
			}
			return commands.Analyze(cmd.Context(), env, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format ("+formatsHelp()+")")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save a crash report for each exception")
	return cmd
}

type watchCmd struct{ cli *CLI }

func (watchCmd) Name() string        { return "watch" }
func (watchCmd) Description() string { return "Explain crash files as they appear in a directory" }
func (w watchCmd) Command() *cobra.Command {
	var opts commands.WatchOptions
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: w.Description(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := w.cli.env
			if !cmd.Flags().Changed("save") {
				opts.Save = env.Config.Reports.Save
			}
			return commands.Watch(cmd.Context(), env, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save a crash report for each crash file")
	cmd.Flags().BoolVar(&opts.Existing, "existing", false, "analyze files already in the directory first")
	return cmd
}

type kindsCmd struct{ cli *CLI }

func (kindsCmd) Name() string        { return "kinds" }
func (kindsCmd) Description() string { return "List exception kinds with a dedicated analyzer" }
func (k kindsCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: k.Description(),
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return commands.Kinds(k.cli.env)
		},
	}
}

type configCmd struct{ cli *CLI }

func (configCmd) Name() string        { return "config" }
func (configCmd) Description() string { return "Show or create the configuration file" }
func (c configCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: c.Description(),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return commands.ConfigPath(c.cli.env, c.cli.configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return commands.ConfigShow(c.cli.env)
		},
	})
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return commands.ConfigInit(c.cli.env, c.cli.configPath, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

type versionCmd struct{ cli *CLI }

func (versionCmd) Name() string        { return "version" }
func (versionCmd) Description() string { return "Show version" }
func (v versionCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: v.Description(),
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return commands.Version(v.cli.env)
		},
	}
}

// Command factory functions
func NewAnalyzeCommand(c *CLI) Command { return analyzeCmd{cli: c} }
func NewWatchCommand(c *CLI) Command   { return watchCmd{cli: c} }
func NewKindsCommand(c *CLI) Command   { return kindsCmd{cli: c} }
func NewConfigCommand(c *CLI) Command  { return configCmd{cli: c} }
func NewVersionCommand(c *CLI) Command { return versionCmd{cli: c} }

func formatsHelp() string {
	return strings.Join(report.Formats, "|")
}

// Package cli implements gitpick's command line: the command menu, one
// subcommand per wizard, link opening and configuration display.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// options are the flags shared by every command.
type options struct {
	yes      bool
	debug    bool
	repos    []string
	logLimit int
	state    string
	print    bool
}

// NewRootCmd builds the gitpick command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "gitpick",
		Short: "Quick commands for local git repositories",
		Long: `gitpick walks you through common git tasks one decision at a time:
pick a repository, a branch, a commit, then an action.

Run without arguments to choose a command from a menu. Every command accepts
a partial answer set with --state, and --print writes the answers given
during the run in the same format.`,
		Version:      fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, o)
		},
	}

	f := root.PersistentFlags()
	f.BoolVarP(&o.yes, "yes", "y", false, "Skip confirmation steps")
	f.BoolVar(&o.debug, "debug", false, "Write a debug log (also GITPICK_DEBUG=1)")
	f.StringSliceVarP(&o.repos, "repo", "r", nil, "Repository to open (repeatable, default: current directory)")
	f.IntVar(&o.logLimit, "log-limit", 0, "Commits loaded per page (overrides log_limit)")
	f.StringVar(&o.state, "state", "", "Initial answers as JSON, e.g. '{\"reference\":\"main\"}'")
	f.BoolVar(&o.print, "print", false, "Print the answers as JSON when the run ends")

	root.AddCommand(wizardCommands(o)...)
	root.AddCommand(newOpenCmd(o))
	root.AddCommand(newConfigCmd(o))
	return root
}

// Execute runs the root command. An interrupt cancels the running wizard.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

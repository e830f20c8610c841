package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/gitpick/internal/link"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

func newOpenCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <link>",
		Short: "Open a commit id, HEAD, branch or tag clicked in the terminal",
		Long: `Open the wizard behind a link printed in the terminal.

A commit id opens the commit, HEAD opens the history of the current branch
and a branch or tag name opens its history. Links work only when exactly one
repository is open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o)
			if err != nil {
				return err
			}
			defer s.close()

			flow, err := link.Resolve(cmd.Context(), s.deps, args[0])
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), flow, wizard.PickedViaCommand, o.print)
		},
	}
}

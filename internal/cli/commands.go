package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/gitpick/internal/flows"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// commandArgs maps the positional arguments of a wizard command to seed
// keys. A key ending in "..." takes every remaining argument.
var commandArgs = map[string]struct {
	use  string
	keys []string
}{
	"history": {"[reference]", []string{"reference"}},
	"show":    {"[commit [file]]", []string{"commit", "file"}},
	"switch":  {"[reference]", []string{"reference"}},
	"branch":  {"[name [reference]]", []string{"name", "reference"}},
	"tag":     {"[name [reference]]", []string{"name", "reference"}},
	"stash":   {"[apply|pop|drop|list] [stash]", []string{"subcommand", "stash"}},
	"reset":   {"[commit]", []string{"commit"}},
	"revert":  {"[commit...]", []string{"commits..."}},
}

func wizardCommands(o *options) []*cobra.Command {
	var cmds []*cobra.Command
	for _, c := range flows.Commands() {
		args := commandArgs[c.Name]
		cmd := &cobra.Command{
			Use:     strings.TrimSpace(c.Name + " " + args.use),
			Aliases: c.Aliases,
			Short:   c.Description,
		}
		if !strings.HasSuffix(last(args.keys), "...") {
			cmd.Args = cobra.MaximumNArgs(len(args.keys))
		}

		if c.Name == "reset" {
			cmd.Flags().Bool("soft", false, "Keep changes staged")
			cmd.Flags().Bool("mixed", false, "Keep changes in the working tree")
			cmd.Flags().Bool("hard", false, "Discard all changes")
			cmd.MarkFlagsMutuallyExclusive("soft", "mixed", "hard")
		}

		cmd.RunE = func(cmd *cobra.Command, pos []string) error {
			if c.Name == "stash" && len(pos) > 0 {
				if _, ok := flows.ParseStashSubcommand(pos[0]); !ok {
					return fmt.Errorf("unknown stash command %q (want apply, pop, drop or list)", pos[0])
				}
			}
			s, err := newSession(cmd, o)
			if err != nil {
				return err
			}
			defer s.close()

			seed, err := buildSeed(c.Name, o.state, args.keys, pos, s.deps)
			if err != nil {
				return err
			}
			if mode := resetMode(cmd); mode != "" {
				if seed, err = sjson.Set(seed, "state.mode", mode); err != nil {
					return err
				}
			}
			flow, err := flows.ParseSeed(s.deps, seed)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), flow, wizard.PickedViaCommand, o.print)
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func last(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// resetMode returns the mode picked with --soft, --mixed or --hard.
func resetMode(cmd *cobra.Command) string {
	if cmd.Flags().Lookup("soft") == nil {
		return ""
	}
	for _, m := range []string{"soft", "mixed", "hard"} {
		if on, _ := cmd.Flags().GetBool(m); on {
			return m
		}
	}
	return ""
}

// buildSeed merges the --state JSON and the positional arguments into a
// seed for command. Positional arguments win over --state. With a single
// repository open, the seed names it so that the given answers count as
// answered.
func buildSeed(command, state string, keys, pos []string, d *flows.Deps) (string, error) {
	seed, err := sjson.Set("{}", "command", command)
	if err != nil {
		return "", err
	}
	if state != "" {
		if !gjson.Valid(state) {
			return "", fmt.Errorf("--state: invalid JSON")
		}
		st := gjson.Parse(state)
		if inner := st.Get("state"); inner.IsObject() {
			st = inner
		}
		if !st.IsObject() {
			return "", fmt.Errorf("--state: want a JSON object")
		}
		if seed, err = sjson.SetRaw(seed, "state", st.Raw); err != nil {
			return "", err
		}
	}

	for i, arg := range pos {
		if i >= len(keys) {
			break
		}
		key := keys[i]
		if rest, ok := strings.CutSuffix(key, "..."); ok {
			seed, err = sjson.Set(seed, "state."+rest, pos[i:])
		} else {
			seed, err = sjson.Set(seed, "state."+key, arg)
		}
		if err != nil {
			return "", err
		}
	}

	if len(d.Repos) == 1 {
		st := gjson.Get(seed, "state")
		if !st.Get("repo").Exists() && !st.Get("repos").Exists() {
			if seed, err = sjson.Set(seed, "state.repo", d.Repos[0].Path()); err != nil {
				return "", err
			}
		}
	}
	return seed, nil
}

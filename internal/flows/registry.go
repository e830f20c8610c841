package flows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// ErrUnknownCommand is returned for a command name nothing is registered
// under.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a flow that can be started by name from the command line, the
// menu or a seed.
type Command struct {
	Name        string
	Aliases     []string
	Label       string
	Description string
	// New builds the flow. seed is the "state" object of a seed; missing
	// keys leave their decisions to be asked.
	New func(d *Deps, seed gjson.Result) wizard.Flow
}

var commands = []Command{
	{
		Name:        "history",
		Aliases:     []string{"log"},
		Label:       "Commit History",
		Description: "Browse the commits of a branch or tag",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewHistory(d, HistoryState{
				Repo:      placeholder[*git.Repository](seed, "repo"),
				Reference: placeholder[git.Reference](seed, "reference"),
				Commit:    placeholder[*git.Commit](seed, "commit"),
			})
		},
	},
	{
		Name:        "show",
		Label:       "Show Commit",
		Description: "Open a commit and its changed files",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewShow(d, ShowState{
				Repo:   placeholder[*git.Repository](seed, "repo"),
				Commit: placeholder[*git.Commit](seed, "commit"),
				File:   placeholder[git.FileChange](seed, "file"),
			})
		},
	},
	{
		Name:        "switch",
		Aliases:     []string{"checkout"},
		Label:       "Switch",
		Description: "Switch to a branch, tag or commit",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewSwitch(d, SwitchState{
				Repos:     listPlaceholder[[]*git.Repository](seed, "repos", "repo"),
				Reference: placeholder[git.Reference](seed, "reference"),
			})
		},
	},
	{
		Name:        "branch",
		Label:       "Create Branch",
		Description: "Create a branch from a branch, tag or commit",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewBranchCreate(d, BranchState{
				Repo:      placeholder[*git.Repository](seed, "repo"),
				Reference: placeholder[git.Reference](seed, "reference"),
				Name:      placeholder[string](seed, "name"),
			})
		},
	},
	{
		Name:        "tag",
		Label:       "Create Tag",
		Description: "Create a tag at a branch, tag or commit",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			st := TagState{
				Repo:      placeholder[*git.Repository](seed, "repo"),
				Reference: placeholder[git.Reference](seed, "reference"),
				Name:      placeholder[string](seed, "name"),
			}
			if m := seed.Get("message"); m.Exists() {
				st.Message = wizard.Resolved(m.String())
			}
			return NewTagCreate(d, st)
		},
	},
	{
		Name:        "stash",
		Label:       "Stash",
		Description: "Apply, pop, delete or browse stashes",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewStash(d, StashState{
				Subcommand: placeholder[StashSubcommand](seed, "subcommand"),
				Repo:       placeholder[*git.Repository](seed, "repo"),
				Stash:      placeholder[git.Stash](seed, "stash"),
			})
		},
	},
	{
		Name:        "reset",
		Label:       "Reset",
		Description: "Reset the current branch to a commit",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			st := ResetState{
				Repo:   placeholder[*git.Repository](seed, "repo"),
				Commit: placeholder[*git.Commit](seed, "commit"),
			}
			if mode, ok := parseResetMode(seed.Get("mode").String()); ok {
				st.Mode = wizard.Resolved(mode)
			}
			return NewReset(d, st)
		},
	},
	{
		Name:        "revert",
		Label:       "Revert",
		Description: "Revert one or more commits",
		New: func(d *Deps, seed gjson.Result) wizard.Flow {
			return NewRevert(d, RevertState{
				Repo:    placeholder[*git.Repository](seed, "repo"),
				Commits: listPlaceholder[[]*git.Commit](seed, "commits", "commit"),
			})
		},
	},
}

// Commands returns the registered commands in menu order.
func Commands() []Command { return append([]Command(nil), commands...) }

// Lookup finds a command by name or alias.
func Lookup(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range commands {
		if c.Name == name {
			return c, nil
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, nil
			}
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// placeholder reads key of seed as an unresolved answer.
func placeholder[T any](seed gjson.Result, key string) wizard.Answer[T] {
	v := strings.TrimSpace(seed.Get(key).String())
	if v == "" {
		return wizard.Answer[T]{}
	}
	return wizard.Placeholder[T](v)
}

// listPlaceholder reads an array under key, or a single value under
// fallback, as an unresolved answer naming several values.
func listPlaceholder[T any](seed gjson.Result, key, fallback string) wizard.Answer[T] {
	var ids []string
	if list := seed.Get(key); list.IsArray() {
		for _, v := range list.Array() {
			if s := strings.TrimSpace(v.String()); s != "" {
				ids = append(ids, s)
			}
		}
	} else if s := strings.TrimSpace(seed.Get(fallback).String()); s != "" {
		ids = append(ids, s)
	}
	if len(ids) == 0 {
		return wizard.Answer[T]{}
	}
	return wizard.Placeholder[T](joinList(ids))
}

func parseResetMode(s string) (git.ResetMode, bool) {
	switch strings.ToLower(s) {
	case "mixed":
		return git.ResetMixed, true
	case "soft":
		return git.ResetSoft, true
	case "hard":
		return git.ResetHard, true
	}
	return git.ResetMixed, false
}

// Package steps is the library of wizard steps shared by gitpick's flows:
// repository, branch, tag, commit and stash pickers, name inputs,
// confirmations and the commit and file action menus.
//
// Factories query the repository provider while building a step. Provider
// failures are logged and turned into a directive-only step so that the
// engine only ever sees a Back or Cancel choice.
package steps

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/alexander-akhmetov/gitpick/internal/actions"
	"github.com/alexander-akhmetov/gitpick/internal/git"
)

// dot separates a title from its repository context.
const dot = "  •  "

// Env is what step factories need besides the flow's answers.
type Env struct {
	Actions       *actions.Executor
	Revealer      actions.Revealer
	Searcher      actions.Searcher
	CustomDomains map[string]string
	LogLimit      int
	Log           zerolog.Logger
}

// Scope is the per-run data a flow builds in Setup and shares with its
// steps.
type Scope struct {
	Repos []*git.Repository
	Title string
	// ShowTags is flipped by the show-tags button and outlives a single step.
	ShowTags bool
}

// AppendReposToTitle adds the picked repositories to title when more than
// one repository is open. extra is appended to the title either way.
func AppendReposToTitle(title string, s *Scope, picked []*git.Repository, extra string) string {
	if len(s.Repos) == 1 {
		return title + extra
	}
	switch len(picked) {
	case 0:
		return title
	case 1:
		return title + extra + dot + picked[0].Name()
	}
	return title + extra + dot + strconv.Itoa(len(picked)) + " repositories"
}

// RepoTitle is AppendReposToTitle for a single picked repository.
func RepoTitle(title string, s *Scope, repo *git.Repository, extra string) string {
	if repo == nil {
		return AppendReposToTitle(title, s, nil, extra)
	}
	return AppendReposToTitle(title, s, []*git.Repository{repo}, extra)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// Package link opens the wizard behind a link clicked in the terminal: a
// commit id, HEAD, or a branch or tag name.
package link

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/flows"
	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

var (
	// ErrSingleRepository is returned when links are resolved with more or
	// fewer than one repository open.
	ErrSingleRepository = errors.New("links need exactly one open repository")
	// ErrUnsupported is returned for text that is neither a commit id nor a
	// known reference.
	ErrUnsupported = errors.New("not a commit id, branch or tag")
)

var commitID = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// Resolve returns the flow that opens text. Commit ids open the show flow,
// HEAD opens the history of the current branch (or of the detached commit) and branch or tag names open
// their history.
func Resolve(ctx context.Context, d *flows.Deps, text string) (wizard.Flow, error) {
	if len(d.Repos) != 1 {
		return nil, ErrSingleRepository
	}
	repo := d.Repos[0]
	text = strings.TrimSpace(text)

	switch {
	case commitID.MatchString(text):
		c, err := repo.Commit(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", text, err)
		}
		return flows.NewShow(d, flows.ShowState{
			Repo:   wizard.Resolved(repo),
			Commit: wizard.Resolved(c),
		}), nil

	case text == "HEAD":
		branch, err := repo.CurrentBranch()
		if err != nil {
			return nil, fmt.Errorf("open HEAD: %w", err)
		}
		if branch == "" {
			branch = text
		}
		return history(d, repo, branch)

	case text != "" && repo.HasBranchOrTag(text):
		return history(d, repo, text)
	}
	return nil, fmt.Errorf("open %q: %w", text, ErrUnsupported)
}

func history(d *flows.Deps, repo *git.Repository, name string) (wizard.Flow, error) {
	ref, err := repo.Reference(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return flows.NewHistory(d, flows.HistoryState{
		Repo:      wizard.Resolved(repo),
		Reference: wizard.Resolved(ref),
	}), nil
}

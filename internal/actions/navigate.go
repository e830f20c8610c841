package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/git"
)

// revealDepth bounds how far back from HEAD Reveal looks for a commit.
const revealDepth = 1000

// Revealer locates a reference relative to the checked-out branch. The
// returned text is shown as a notice while a step stays on screen.
type Revealer interface {
	Reveal(ctx context.Context, repo *git.Repository, ref git.Reference) (string, error)
}

// Searcher finds commits related to a commit.
type Searcher interface {
	Search(ctx context.Context, repo *git.Repository, c *git.Commit) (string, error)
}

// Reveal reports where ref's commit sits in the history of HEAD.
func (x *Executor) Reveal(ctx context.Context, repo *git.Repository, ref git.Reference) (string, error) {
	hash := ref.Hash
	if hash == "" {
		resolved, err := repo.ResolveReference(ref.Ref())
		if err != nil {
			return "", err
		}
		hash = resolved
	}

	head, err := repo.Log(ctx, "HEAD", 0, revealDepth)
	if err != nil {
		return "", err
	}
	for i, c := range head.Commits {
		if c.Hash != hash {
			continue
		}
		switch i {
		case 0:
			return fmt.Sprintf("%s is at HEAD", ref.Title()), nil
		case 1:
			return fmt.Sprintf("%s is 1 commit behind HEAD", ref.Title()), nil
		}
		return fmt.Sprintf("%s is %d commits behind HEAD", ref.Title(), i), nil
	}
	return fmt.Sprintf("%s is not on the current branch", ref.Title()), nil
}

// Search lists the commits reachable from HEAD whose message mentions c,
// such as reverts and cherry-picks.
func (x *Executor) Search(ctx context.Context, repo *git.Repository, c *git.Commit) (string, error) {
	head, err := repo.Log(ctx, "HEAD", 0, revealDepth)
	if err != nil {
		return "", err
	}
	var found []string
	for _, other := range head.Commits {
		if other.Hash == c.Hash {
			continue
		}
		if strings.Contains(other.Message, c.Hash) || strings.Contains(other.Message, c.ShortHash()) {
			found = append(found, other.ShortHash()+" "+other.Summary())
		}
	}
	switch len(found) {
	case 0:
		return fmt.Sprintf("No commits mention %s", c.ShortHash()), nil
	case 1:
		return fmt.Sprintf("1 commit mentions %s: %s", c.ShortHash(), found[0]), nil
	}
	return fmt.Sprintf("%d commits mention %s: %s", len(found), c.ShortHash(), strings.Join(found, ", ")), nil
}

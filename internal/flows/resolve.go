package flows

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// findRepo matches a repository by name or path.
func findRepo(repos []*git.Repository, id string) *git.Repository {
	if id == "" {
		return nil
	}
	abs, err := filepath.Abs(id)
	if err != nil {
		abs = id
	}
	for _, r := range repos {
		if r.Path() == abs || r.Path() == id {
			return r
		}
	}
	for _, r := range repos {
		if r.Name() == id {
			return r
		}
	}
	return nil
}

// The resolve helpers turn a placeholder typed by the caller into a value.
// A placeholder that names nothing is cleared so the decision is asked.

func resolveRepo(ans *wizard.Answer[*git.Repository], repos []*git.Repository) {
	if !ans.IsPlaceholder() {
		return
	}
	if r := findRepo(repos, ans.Placeholder()); r != nil {
		ans.Set(r)
		return
	}
	ans.Clear()
}

// The stale helpers clear a resolved answer that the run can no longer use:
// a repository that is not open any more or a reference that stopped
// resolving. They report whether they cleared it.

func staleRepo(ans *wizard.Answer[*git.Repository], repos []*git.Repository) bool {
	r, ok := ans.Value()
	if !ok || slices.Contains(repos, r) {
		return false
	}
	ans.Clear()
	return true
}

func staleRepos(ans *wizard.Answer[[]*git.Repository], repos []*git.Repository) bool {
	picked, ok := ans.Value()
	if !ok {
		return false
	}
	kept := make([]*git.Repository, 0, len(picked))
	for _, r := range picked {
		if slices.Contains(repos, r) {
			kept = append(kept, r)
		}
	}
	switch {
	case len(kept) == len(picked):
		return false
	case len(kept) == 0:
		ans.Clear()
	default:
		ans.Set(kept)
	}
	return true
}

func staleReference(ans *wizard.Answer[git.Reference], repo *git.Repository, env *steps.Env) bool {
	ref, ok := ans.Value()
	if !ok || repo.ValidateReference(ref.Ref()) {
		return false
	}
	env.Log.Debug().Str("repo", repo.Name()).Str("ref", ref.Ref()).Msg("stale reference")
	ans.Clear()
	return true
}

func resolveRepos(ans *wizard.Answer[[]*git.Repository], repos []*git.Repository) {
	if !ans.IsPlaceholder() {
		return
	}
	var found []*git.Repository
	for _, id := range splitList(ans.Placeholder()) {
		if r := findRepo(repos, id); r != nil {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		ans.Clear()
		return
	}
	ans.Set(found)
}

func resolveReference(ans *wizard.Answer[git.Reference], repo *git.Repository, env *steps.Env) {
	if !ans.IsPlaceholder() {
		return
	}
	ref, err := repo.Reference(ans.Placeholder())
	if err != nil {
		env.Log.Debug().Err(err).Msg("seeded reference")
		ans.Clear()
		return
	}
	ans.Set(ref)
}

func resolveCommit(ctx context.Context, ans *wizard.Answer[*git.Commit], repo *git.Repository, env *steps.Env) {
	if !ans.IsPlaceholder() {
		return
	}
	c, err := repo.Commit(ctx, ans.Placeholder())
	if err != nil {
		env.Log.Debug().Err(err).Msg("seeded commit")
		ans.Clear()
		return
	}
	ans.Set(c)
}

func resolveCommits(ctx context.Context, ans *wizard.Answer[[]*git.Commit], repo *git.Repository, env *steps.Env) {
	if !ans.IsPlaceholder() {
		return
	}
	var found []*git.Commit
	for _, id := range splitList(ans.Placeholder()) {
		c, err := repo.Commit(ctx, id)
		if err != nil {
			env.Log.Debug().Err(err).Msg("seeded commit")
			continue
		}
		found = append(found, c)
	}
	if len(found) == 0 {
		ans.Clear()
		return
	}
	ans.Set(found)
}

func resolveStash(ctx context.Context, ans *wizard.Answer[git.Stash], repo *git.Repository, env *steps.Env) {
	if !ans.IsPlaceholder() {
		return
	}
	stashes, err := repo.Stashes(ctx)
	if err != nil {
		env.Log.Debug().Err(err).Msg("seeded stash")
		ans.Clear()
		return
	}
	for _, st := range stashes {
		if st.Name == ans.Placeholder() || st.Hash == ans.Placeholder() {
			ans.Set(st)
			return
		}
	}
	ans.Clear()
}

// listSep separates the ids of a placeholder naming several values.
const listSep = "\x00"

func splitList(s string) []string {
	var out []string
	for _, id := range strings.Split(s, listSep) {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func joinList(ids []string) string { return strings.Join(ids, listSep) }

package flows

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// RevertState holds the answers of the revert flow.
type RevertState struct {
	wizard.State
	Repo    wizard.Answer[*git.Repository]
	Commits wizard.Answer[[]*git.Commit]
}

// Revert creates revert commits for one or more commits of the current
// branch.
type Revert struct {
	base
	st RevertState
}

// NewRevert returns a revert flow seeded with st.
func NewRevert(d *Deps, st RevertState) *Revert {
	r := &Revert{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Commits.IsSet() {
			n++
		}
	}
	r.st.Counter = max(r.st.Counter, n)
	return r
}

func (r *Revert) Name() string          { return "revert" }
func (r *Revert) State() *wizard.State  { return &r.st.State }
func (r *Revert) Setup(context.Context) { r.setup("Revert") }

func (r *Revert) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := r.askRepo(p, 1, &r.st.Repo, func() { r.st.Commits.Clear() }); ok {
		return act
	}
	repo := r.st.Repo.Get()

	resolveCommits(ctx, &r.st.Commits, repo, r.env())
	if p.Pending(2) || !r.st.Commits.IsResolved() {
		log, err := repo.Log(ctx, "HEAD", 0, r.env().LogLimit)
		if err != nil {
			r.env().Log.Warn().Err(err).Str("repo", repo.Name()).Msg("read log")
			log = &git.Log{Ref: "HEAD"}
		}
		var picked []string
		for _, c := range r.st.Commits.Get() {
			picked = append(picked, c.Hash)
		}
		step := steps.PickCommits(&r.scope, repo, log, steps.CommitOptions{
			Placeholder: "Choose commits to revert",
			Ref:         "HEAD",
		}, picked)
		return p.Ask(2, step, func(_ context.Context, res wizard.Result) wizard.Outcome {
			commits := steps.Commits(res)
			if len(commits) == 0 {
				return wizard.Stay()
			}
			r.st.Commits.Set(commits)
			return wizard.Advance()
		})
	}
	commits := r.st.Commits.Get()

	hashes := make([]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
	}
	what := commits[0].ShortHash()
	if len(commits) > 1 {
		what = fmt.Sprintf("%d commits", len(commits))
	}
	title := steps.RepoTitle("Revert", &r.scope, repo, "")
	return r.confirmOrExecute(p, 3, title, []steps.ConfirmItem{{Label: "Revert", Detail: "Will revert " + what}}, func(any) wizard.Command {
		return func(ctx context.Context) error {
			if err := repo.Revert(ctx, hashes...); err != nil {
				return err
			}
			r.env().Actions.Println("Reverted " + what)
			return nil
		}
	})
}

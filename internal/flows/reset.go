package flows

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// ResetState holds the answers of the reset flow. Mode is only set by
// callers that chose it up front.
type ResetState struct {
	wizard.State
	Repo   wizard.Answer[*git.Repository]
	Commit wizard.Answer[*git.Commit]
	Mode   wizard.Answer[git.ResetMode]
}

// Reset moves the current branch of a repository to a commit.
type Reset struct {
	base
	st    ResetState
	limit int
}

// NewReset returns a reset flow seeded with st.
func NewReset(d *Deps, st ResetState) *Reset {
	r := &Reset{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Commit.IsSet() {
			n++
		}
	}
	r.st.Counter = max(r.st.Counter, n)
	return r
}

func (r *Reset) Name() string          { return "reset" }
func (r *Reset) State() *wizard.State  { return &r.st.State }
func (r *Reset) Setup(context.Context) { r.setup("Reset") }

func (r *Reset) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := r.askRepo(p, 1, &r.st.Repo, func() {
		r.st.Commit.Clear()
		r.limit = 0
	}); ok {
		return act
	}
	repo := r.st.Repo.Get()

	branch, err := repo.CurrentBranch()
	if err != nil || branch == "" {
		branch = "HEAD"
	}

	resolveCommit(ctx, &r.st.Commit, repo, r.env())
	if p.Pending(2) || !r.st.Commit.IsResolved() {
		if r.limit == 0 {
			r.limit = r.env().LogLimit
		}
		log, err := repo.Log(ctx, "HEAD", 0, r.limit)
		if err != nil {
			r.env().Log.Warn().Err(err).Str("repo", repo.Name()).Msg("read log")
			log = &git.Log{Ref: "HEAD"}
		}
		picked := ""
		if c, ok := r.st.Commit.Value(); ok {
			picked = c.Hash
		}
		step := steps.PickCommit(r.env(), &r.scope, repo, log, steps.CommitOptions{
			TitleContext: " " + branch,
			Placeholder:  "Choose a commit to reset " + branch + " to",
			Ref:          branch,
			Picked:       picked,
		})
		return p.Ask(2, step, func(_ context.Context, res wizard.Result) wizard.Outcome {
			if steps.IsLoadMore(res) {
				r.limit += r.env().LogLimit
				return wizard.Stay()
			}
			c, ok := steps.Commit(res)
			if !ok {
				return wizard.Stay()
			}
			r.st.Commit.Set(c)
			return wizard.Advance()
		})
	}
	c := r.st.Commit.Get()

	title := steps.RepoTitle("Reset", &r.scope, repo, "")
	run := func(v any) wizard.Command {
		mode, _ := v.(git.ResetMode)
		return func(context.Context) error {
			if err := repo.Reset(c.Hash, mode); err != nil {
				return err
			}
			r.env().Actions.Println(fmt.Sprintf("Reset %s to %s (%s)", branch, c.ShortHash(), mode))
			return nil
		}
	}
	if mode, ok := r.st.Mode.Value(); ok {
		return r.confirmOrExecute(p, 3, title, []steps.ConfirmItem{resetChoice(branch, c, mode)}, run)
	}
	return r.confirm(p, 3, title, []steps.ConfirmItem{
		resetChoice(branch, c, git.ResetMixed),
		resetChoice(branch, c, git.ResetSoft),
		resetChoice(branch, c, git.ResetHard),
	}, run)
}

func resetChoice(branch string, c *git.Commit, mode git.ResetMode) steps.ConfirmItem {
	label := "Reset"
	detail := fmt.Sprintf("Will reset %s to %s", branch, c.ShortHash())
	switch mode {
	case git.ResetSoft:
		label = "Soft Reset"
		detail += " keeping the changes staged"
	case git.ResetHard:
		label = "Hard Reset"
		detail += " and discard all changes"
	}
	return steps.ConfirmItem{Label: label, Detail: detail, Value: mode}
}

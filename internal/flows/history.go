package flows

import (
	"context"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// HistoryState holds the answers of the history flow.
type HistoryState struct {
	wizard.State
	Repo      wizard.Answer[*git.Repository]
	Reference wizard.Answer[git.Reference]
	Commit    wizard.Answer[*git.Commit]
}

// History lists the commits of a branch or tag and opens the picked one in
// the show flow.
type History struct {
	base
	st    HistoryState
	limit int
}

// NewHistory returns a history flow seeded with st. The counter starts past
// every seeded answer.
func NewHistory(d *Deps, st HistoryState) *History {
	h := &History{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Reference.IsSet() {
			n++
			if ref, ok := st.Reference.Value(); (ok && ref.IsRevision()) || st.Commit.IsSet() {
				n++
			}
		}
	}
	h.st.Counter = max(h.st.Counter, n)
	return h
}

func (h *History) Name() string          { return "history" }
func (h *History) State() *wizard.State  { return &h.st.State }
func (h *History) Setup(context.Context) { h.setup("Commit History") }

func (h *History) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := h.askRepo(p, 1, &h.st.Repo, func() {
		h.st.Reference.Clear()
		h.st.Commit.Clear()
	}); ok {
		return act
	}
	repo := h.st.Repo.Get()

	if act, ok := h.askReference(ctx, p, 2, repo, &h.st.Reference, steps.BranchOrTagOptions{
		Placeholder: "Choose a branch or tag to show its commit history",
		AllowRefs:   true,
	}, func() {
		h.st.Commit.Clear()
		h.limit = 0
	}); ok {
		return act
	}
	ref := h.st.Reference.Get()

	if ref.IsRevision() {
		if c, ok := h.st.Commit.Value(); !ok || c.Hash != ref.Hash {
			c, err := h.repoCommit(ctx, repo, ref.Hash)
			if err != nil {
				// ask for the reference again
				h.st.Reference.Clear()
				h.st.Commit.Clear()
				return h.Next(ctx, p)
			}
			h.st.Commit.Set(c)
		}
		p.Skip(3)
	} else {
		resolveCommit(ctx, &h.st.Commit, repo, h.env())
		if p.Pending(3) || !h.st.Commit.IsResolved() {
			return h.askCommit(ctx, p, repo, ref)
		}
	}

	return p.Delegate(NewShow(h.deps, ShowState{
		State:  wizard.State{Counter: 2},
		Repo:   wizard.Resolved(repo),
		Commit: wizard.Resolved(h.st.Commit.Get()),
	}))
}

func (h *History) repoCommit(ctx context.Context, repo *git.Repository, hash string) (*git.Commit, error) {
	c, err := repo.Commit(ctx, hash)
	if err != nil {
		h.env().Log.Warn().Err(err).Str("repo", repo.Name()).Str("commit", hash).Msg("load commit")
	}
	return c, err
}

func (h *History) askCommit(ctx context.Context, p *wizard.Pass, repo *git.Repository, ref git.Reference) wizard.Action {
	if h.limit == 0 {
		h.limit = h.env().LogLimit
	}
	log, err := repo.Log(ctx, ref.Ref(), 0, h.limit)
	if err != nil {
		h.env().Log.Warn().Err(err).Str("repo", repo.Name()).Str("ref", ref.Name).Msg("read log")
		log = &git.Log{Ref: ref.Name}
	}
	picked := ""
	if c, ok := h.st.Commit.Value(); ok {
		picked = c.Hash
	}

	step := steps.PickCommit(h.env(), &h.scope, repo, log, steps.CommitOptions{
		TitleContext: " of " + ref.ShortName(),
		Placeholder:  "Choose a commit",
		Ref:          ref.Name,
		Picked:       picked,
	})
	return p.Ask(3, step, func(ctx context.Context, r wizard.Result) wizard.Outcome {
		if steps.IsLoadMore(r) {
			h.limit += h.env().LogLimit
			return wizard.Stay()
		}
		c, ok := steps.Commit(r)
		if !ok {
			return wizard.Stay()
		}
		if full, err := fullCommit(ctx, repo, c); err == nil {
			c = full
		}
		h.st.Commit.Set(c)
		return wizard.Advance()
	})
}

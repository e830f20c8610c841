package steps

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// refPrompt is appended to placeholders of steps that accept "#<ref>".
const refPrompt = "   (or enter a reference using #)"

// ListOptions selects what BranchesAndTags returns.
type ListOptions struct {
	Tags bool
	// Filter drops the branches it returns false for.
	Filter func(git.Branch) bool
	// Picked marks the item with this name.
	Picked string
}

type repoRefs struct {
	branches []git.Branch
	tags     []git.Tag
}

// BranchesAndTags lists local branches, then tags, then remote branches.
// Across several repositories only local branches and tags present in
// every one of them are listed.
func BranchesAndTags(ctx context.Context, repos []*git.Repository, o ListOptions) ([]wizard.Item, error) {
	if len(repos) == 0 {
		return nil, nil
	}
	filter := git.BranchesAll
	if len(repos) > 1 {
		filter = git.BranchesLocal
	}

	refs := make([]repoRefs, len(repos))
	g, ctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			branches, err := repo.Branches(filter)
			if err != nil {
				return fmt.Errorf("%s: %w", repo.Name(), err)
			}
			refs[i].branches = branches
			if !o.Tags {
				return nil
			}
			tags, err := repo.Tags()
			if err != nil {
				return fmt.Errorf("%s: %w", repo.Name(), err)
			}
			refs[i].tags = tags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	branches, tags := refs[0].branches, refs[0].tags
	if len(repos) > 1 {
		branches, tags = intersect(refs)
	}

	var local, remote []wizard.Item
	for _, b := range branches {
		if o.Filter != nil && !o.Filter(b) {
			continue
		}
		it := branchItem(b, o.Picked)
		if b.IsRemote() {
			remote = append(remote, it)
		} else {
			local = append(local, it)
		}
	}
	items := local
	for _, t := range tags {
		items = append(items, tagItem(t, o.Picked))
	}
	return append(items, remote...), nil
}

// intersect keeps the branches and tags named in every repository. Values
// come from the first repository; a branch is current only if it is
// current everywhere.
func intersect(refs []repoRefs) ([]git.Branch, []git.Tag) {
	branchCount := make(map[string]int)
	currentCount := make(map[string]int)
	tagCount := make(map[string]int)
	for _, r := range refs {
		for _, b := range r.branches {
			branchCount[b.Name]++
			if b.Current {
				currentCount[b.Name]++
			}
		}
		for _, t := range r.tags {
			tagCount[t.Name]++
		}
	}

	var branches []git.Branch
	for _, b := range refs[0].branches {
		if branchCount[b.Name] != len(refs) {
			continue
		}
		b.Current = currentCount[b.Name] == len(refs)
		b.Hash = ""
		branches = append(branches, b)
	}
	sort.SliceStable(branches, func(i, j int) bool { return branches[i].Current && !branches[j].Current })

	var tags []git.Tag
	for _, t := range refs[0].tags {
		if tagCount[t.Name] == len(refs) {
			t.Hash = ""
			tags = append(tags, t)
		}
	}
	return branches, tags
}

func branchItem(b git.Branch, picked string) wizard.Item {
	it := wizard.Item{
		Label:  b.Name,
		Picked: b.Name == picked,
		Value:  git.BranchRef(b),
	}
	switch {
	case b.Current:
		it.Description = "current branch"
	case b.IsRemote():
		it.Description = "remote branch"
	}
	if b.Hash != "" {
		it.Detail = shortHash(b.Hash) + dot + b.Date.Format("2006-01-02")
	}
	return it
}

func tagItem(t git.Tag, picked string) wizard.Item {
	it := wizard.Item{
		Label:       t.Name,
		Description: "tag",
		Picked:      t.Name == picked,
		Value:       git.TagRef(t),
	}
	if t.Hash != "" {
		it.Detail = shortHash(t.Hash)
		if msg := strings.TrimSpace(t.Message); msg != "" {
			it.Detail += dot + truncate(firstLine(msg), 60)
		}
	}
	return it
}

// BranchOrTagOptions configures PickBranchOrTag.
type BranchOrTagOptions struct {
	// TitleContext is appended to the flow title before the repositories.
	TitleContext string
	Placeholder  string
	Picked       string
	Value        string
	Filter       func(git.Branch) bool
	// AllowRefs lets the user type "#<ref>" to pick any commit.
	AllowRefs bool
}

// PickBranchOrTag asks for a branch or tag of repos, with a toggle for
// listing tags and, for a single repository, "#<ref>" commit entry.
func PickBranchOrTag(ctx context.Context, env *Env, s *Scope, repos []*git.Repository, o BranchOrTagOptions) *wizard.Step {
	load := func(ctx context.Context) ([]wizard.Item, string) {
		items, err := BranchesAndTags(ctx, repos, ListOptions{Tags: s.ShowTags, Filter: o.Filter, Picked: o.Picked})
		if err != nil {
			env.Log.Warn().Err(err).Msg("list branches and tags")
		}
		if len(items) == 0 {
			what := "branches"
			if s.ShowTags {
				what = "branches or tags"
			}
			return wizard.DirectiveItems(), fmt.Sprintf("No %s found in %s", what, reposName(repos))
		}
		placeholder := o.Placeholder
		if o.AllowRefs && len(repos) == 1 {
			placeholder += refPrompt
		}
		return items, placeholder
	}

	items, placeholder := load(ctx)
	step := &wizard.Step{
		Title:       AppendReposToTitle(s.Title, s, repos, o.TitleContext),
		Placeholder: placeholder,
		Value:       o.Value,
		Items:       items,
		Buttons: []wizard.Button{{
			Label: "Show Tags",
			Key:   "ctrl+t",
			On:    func() bool { return s.ShowTags },
			OnClick: func(ctx context.Context, p wizard.Picker) error {
				p.SetBusy(true)
				defer p.SetBusy(false)
				s.ShowTags = !s.ShowTags
				items, placeholder := load(ctx)
				p.SetItems(items)
				p.SetPlaceholder(placeholder)
				return nil
			},
		}},
	}
	if o.AllowRefs && len(repos) == 1 {
		step.ValidateValue = referenceValidator(repos[0], func(c *git.Commit) wizard.Item {
			it := commitItem(c, "")
			it.Value = git.RevisionRef(c)
			return it
		})
	}
	if len(repos) == 1 {
		addReveal(step, env, repos[0], func(it wizard.Item) (git.Reference, bool) {
			ref, ok := it.Value.(git.Reference)
			return ref, ok
		})
	}
	return step
}

// Reference returns the branch, tag or commit of a picked item.
func Reference(r wizard.Result) (git.Reference, bool) {
	it, ok := r.First()
	if !ok {
		return git.Reference{}, false
	}
	switch v := it.Value.(type) {
	case git.Reference:
		return v, true
	case *git.Commit:
		return git.RevisionRef(v), true
	}
	return git.Reference{}, false
}

// referenceValidator resolves the typed filter text as a reference. With a
// leading "#" it always takes over the list; without one it only does so
// for a valid reference that is not a branch or tag name already listed.
func referenceValidator(repo *git.Repository, toItem func(*git.Commit) wizard.Item) func(context.Context, wizard.Picker, string) bool {
	var mu sync.Mutex
	return func(ctx context.Context, p wizard.Picker, value string) bool {
		mu.Lock()
		defer mu.Unlock()

		refMode := strings.HasPrefix(value, "#")
		value = strings.TrimSpace(strings.TrimPrefix(value, "#"))

		if value == "" || !repo.ValidateReference(value) {
			if refMode {
				p.SetItems([]wizard.Item{wizard.DirectiveItem(wizard.DirectiveBack, "Enter a reference or commit id")})
				return true
			}
			return false
		}
		if !refMode && repo.HasBranchOrTag(value) {
			return false
		}

		c, err := repo.Commit(ctx, value)
		if err != nil {
			return false
		}
		it := toItem(c)
		it.AlwaysShow = true
		p.SetItems([]wizard.Item{it})
		return true
	}
}

// addReveal binds the reveal button and keys to the active item.
func addReveal(step *wizard.Step, env *Env, repo *git.Repository, ref func(wizard.Item) (git.Reference, bool)) {
	if env.Revealer == nil {
		return
	}
	reveal := func(ctx context.Context, p wizard.Picker) error {
		it, ok := p.Active()
		if !ok {
			return nil
		}
		r, ok := ref(it)
		if !ok {
			return nil
		}
		msg, err := env.Revealer.Reveal(ctx, repo, r)
		if err != nil {
			return err
		}
		p.Notify(msg)
		return nil
	}
	step.Buttons = append(step.Buttons, wizard.Button{Label: "Reveal", Key: "ctrl+r", OnClick: reveal})
	for _, key := range []string{"right", "alt+right", "ctrl+right"} {
		if hasKey(step, key) {
			continue
		}
		step.Keys = append(step.Keys, wizard.Key{Key: key, Help: "reveal", OnPress: reveal})
	}
}

func hasKey(step *wizard.Step, key string) bool {
	for _, k := range step.Keys {
		if k.Key == key {
			return true
		}
	}
	return false
}

func reposName(repos []*git.Repository) string {
	if len(repos) == 1 {
		return repos[0].Name()
	}
	return strconv.Itoa(len(repos)) + " repositories"
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

package steps

import (
	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

func repoItems(repos []*git.Repository, picked func(*git.Repository) bool) []wizard.Item {
	items := make([]wizard.Item, 0, len(repos))
	for _, r := range repos {
		it := wizard.Item{
			Label:       r.Name(),
			Description: r.Path(),
			Picked:      picked(r),
			Value:       r,
		}
		if branch, err := r.CurrentBranch(); err == nil && branch != "" {
			it.Detail = branch
		}
		items = append(items, it)
	}
	return items
}

// PickRepository asks for one of the open repositories.
func PickRepository(s *Scope, placeholder string, picked *git.Repository) *wizard.Step {
	if placeholder == "" {
		placeholder = "Choose a repository"
	}
	step := &wizard.Step{
		Title:       s.Title,
		Placeholder: placeholder,
		Items: repoItems(s.Repos, func(r *git.Repository) bool {
			return picked != nil && r.Path() == picked.Path()
		}),
	}
	if len(step.Items) == 0 {
		step.Placeholder = "No repositories found"
		step.Items = wizard.DirectiveItems()
	}
	return step
}

// PickRepositories asks for any number of the open repositories.
func PickRepositories(s *Scope, placeholder string, picked []*git.Repository) *wizard.Step {
	if placeholder == "" {
		placeholder = "Choose repositories"
	}
	selected := make(map[string]bool, len(picked))
	for _, r := range picked {
		selected[r.Path()] = true
	}
	step := &wizard.Step{
		Title:       s.Title,
		Placeholder: placeholder,
		Multiselect: true,
		Items:       repoItems(s.Repos, func(r *git.Repository) bool { return selected[r.Path()] }),
	}
	if len(step.Items) == 0 {
		step.Placeholder = "No repositories found"
		step.Multiselect = false
		step.Items = wizard.DirectiveItems()
	}
	return step
}

// Repository returns the repository of a picked item.
func Repository(r wizard.Result) (*git.Repository, bool) {
	it, ok := r.First()
	if !ok {
		return nil, false
	}
	repo, ok := it.Value.(*git.Repository)
	return repo, ok
}

// Repositories returns the repositories of the picked items.
func Repositories(r wizard.Result) []*git.Repository {
	var repos []*git.Repository
	for _, it := range r.Items {
		if repo, ok := it.Value.(*git.Repository); ok {
			repos = append(repos, repo)
		}
	}
	return repos
}

package steps

import (
	"context"
	"path"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/remote"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// filesItem is the value of the commit menu entry listing changed files.
type filesItem struct{}

func command(label string, run wizard.Command) wizard.Item {
	return wizard.Item{Kind: wizard.ItemCommand, Label: label, Command: run}
}

// runActiveKey runs the active item's command without leaving the step.
func runActiveKey() wizard.Key {
	return wizard.Key{
		Key:  "right",
		Help: "run",
		OnPress: func(ctx context.Context, p wizard.Picker) error {
			it, ok := p.Active()
			if !ok || it.Kind != wizard.ItemCommand || it.Command == nil {
				return nil
			}
			if err := it.Command(ctx); err != nil {
				return err
			}
			p.Notify(it.Label)
			return nil
		},
	}
}

// CommitMenuOptions configures CommitMenu.
type CommitMenuOptions struct {
	// Delegates hand the commit to other flows, e.g. "Revert Commit...".
	Delegates []wizard.Item
}

// CommitMenu lists what can be done with a commit or stash.
func CommitMenu(env *Env, s *Scope, repo *git.Repository, c *git.Commit, o CommitMenuOptions) *wizard.Step {
	x := env.Actions
	items := []wizard.Item{{
		Label:       c.Summary(),
		Description: c.Author,
		Detail:      pluralize(len(c.Files), "file") + " changed",
		Value:       filesItem{},
	}}
	items = append(items, o.Delegates...)

	items = append(items, command("Show Details", func(ctx context.Context) error { return x.ShowCommit(ctx, c) }))
	if !c.IsStash() {
		items = append(items, navigationItems(env, repo, c)...)
	}

	remotes := recognize(env, repo)
	res := remote.Resource{Type: remote.ResourceCommit, Sha: c.Hash}
	if !c.IsStash() && len(remotes) > 0 {
		items = append(items, openOnRemote(env, remotes, res))
	}

	items = append(items,
		command("Open All Changes", func(ctx context.Context) error { return x.ShowAllChanges(ctx, repo, c) }),
		command("Open All Changes with Working Tree", func(ctx context.Context) error {
			return x.ShowAllChangesWithWorking(ctx, repo, c)
		}),
	)
	if prev := c.PreviousHash(); prev != "" {
		items = append(items, command("Open Directory Compare with Previous Revision", func(ctx context.Context) error {
			return x.ShowDirectoryCompare(ctx, repo, prev, c.Hash)
		}))
	}
	items = append(items,
		command("Open Directory Compare with Working Tree", func(ctx context.Context) error {
			return x.ShowDirectoryCompare(ctx, repo, c.Hash, "")
		}),
		command("Open Files", func(ctx context.Context) error { return x.ShowFiles(ctx, repo, c) }),
		command("Open Revisions", func(ctx context.Context) error { return x.ShowRevisions(ctx, repo, c) }),
	)

	if !c.IsStash() {
		items = append(items, command("Copy Commit ID", func(ctx context.Context) error { return x.CopyText(ctx, c.Hash) }))
	}
	items = append(items, command("Copy Message", func(ctx context.Context) error { return x.CopyText(ctx, c.Message) }))
	if !c.IsStash() && len(remotes) > 0 {
		items = append(items, copyRemoteURL(env, remotes, res))
	}

	return &wizard.Step{
		Title:       RepoTitle(s.Title, s, repo, dot+commitTitle(c)),
		Placeholder: c.Summary(),
		Items:       items,
		Keys:        []wizard.Key{runActiveKey()},
	}
}

// IsFilesItem reports whether the commit menu's changed files entry was
// picked.
func IsFilesItem(r wizard.Result) bool {
	it, ok := r.First()
	if !ok {
		return false
	}
	_, ok = it.Value.(filesItem)
	return ok
}

// ChangedFiles lists the files c changed. Its first item toggles back to the
// commit menu.
func ChangedFiles(s *Scope, repo *git.Repository, c *git.Commit, picked string) *wizard.Step {
	items := []wizard.Item{{
		Kind:        wizard.ItemToggle,
		Label:       c.Summary(),
		Description: c.ShortHash(),
		Detail:      "Show commit actions",
		AlwaysShow:  true,
	}}
	for _, f := range c.Files {
		items = append(items, fileItem(f, picked))
	}
	placeholder := "Choose a file"
	if len(c.Files) == 0 {
		placeholder = "No files changed in " + c.ShortHash()
	}
	return &wizard.Step{
		Title:       RepoTitle(s.Title, s, repo, dot+commitTitle(c)),
		Placeholder: placeholder,
		Items:       items,
	}
}

func fileItem(f git.FileChange, picked string) wizard.Item {
	dir := path.Dir(f.Path)
	if dir == "." {
		dir = ""
	}
	desc := f.Status.String()
	if f.OldPath != "" {
		desc += " from " + f.OldPath
	}
	return wizard.Item{
		Label:       path.Base(f.Path),
		Description: desc,
		Detail:      dir,
		Picked:      f.Path == picked,
		Value:       f,
	}
}

// File returns the file change of a picked item.
func File(r wizard.Result) (git.FileChange, bool) {
	it, ok := r.First()
	if !ok {
		return git.FileChange{}, false
	}
	f, ok := it.Value.(git.FileChange)
	return f, ok
}

// ChangedFileMenu lists what can be done with one file of a commit. Its
// first item toggles back to the file list.
func ChangedFileMenu(env *Env, s *Scope, repo *git.Repository, c *git.Commit, f git.FileChange) *wizard.Step {
	x := env.Actions
	items := []wizard.Item{{
		Kind:        wizard.ItemToggle,
		Label:       f.Path,
		Description: f.Status.String(),
		Detail:      "Show changed files",
		AlwaysShow:  true,
	}}

	restoreRef := c.Hash
	if f.Status == git.FileDeleted {
		restoreRef = c.PreviousHash()
	}
	items = append(items, command("Apply Changes", func(ctx context.Context) error {
		return repo.ApplyFileChanges(ctx, c, f.Path)
	}))
	if restoreRef != "" {
		items = append(items, command("Restore", func(ctx context.Context) error {
			return repo.RestoreFile(ctx, restoreRef, f.Path)
		}))
	}
	if !c.IsStash() {
		items = append(items, navigationItems(env, repo, c)...)
	}

	remotes := recognize(env, repo)
	fileRes := remote.Resource{Type: remote.ResourceRevision, Sha: c.Hash, File: f.Path}
	if f.Status == git.FileDeleted {
		fileRes.PreviousSha = c.PreviousHash()
		fileRes.Deleted = true
	}
	commitRes := remote.Resource{Type: remote.ResourceCommit, Sha: c.Hash}
	if !c.IsStash() && len(remotes) > 0 {
		items = append(items, openOnRemote(env, remotes, fileRes), openOnRemote(env, remotes, commitRes))
	}

	if c.PreviousHash() != "" && f.Status != git.FileAdded {
		items = append(items, command("Open Changes", func(ctx context.Context) error {
			return x.ShowChanges(ctx, repo, c, f.Path)
		}))
	}
	if _, ok := repo.WorkingFile(f.Path); ok {
		items = append(items, command("Open Changes with Working File", func(ctx context.Context) error {
			return x.ShowChangesWithWorking(ctx, repo, c, f.Path)
		}))
	}
	if f.Status != git.FileDeleted {
		items = append(items, command("Open File", func(ctx context.Context) error { return x.ShowFile(ctx, repo, f.Path) }))
	}
	items = append(items, command("Open Revision", func(ctx context.Context) error {
		return x.ShowRevision(ctx, repo, c, f.Path)
	}))

	if !c.IsStash() {
		items = append(items, command("Copy Commit ID", func(ctx context.Context) error { return x.CopyText(ctx, c.Hash) }))
	}
	items = append(items, command("Copy Message", func(ctx context.Context) error { return x.CopyText(ctx, c.Message) }))
	if !c.IsStash() && len(remotes) > 0 {
		items = append(items, copyRemoteURL(env, remotes, commitRes), copyRemoteURL(env, remotes, fileRes))
	}

	return &wizard.Step{
		Title:       RepoTitle(s.Title, s, repo, dot+commitTitle(c)),
		Placeholder: f.Path,
		Items:       items,
		Keys:        []wizard.Key{runActiveKey()},
	}
}

// navigationItems are the reveal and search entries for a commit.
func navigationItems(env *Env, repo *git.Repository, c *git.Commit) []wizard.Item {
	var items []wizard.Item
	if env.Revealer != nil {
		items = append(items, command("Reveal Commit", func(ctx context.Context) error {
			msg, err := env.Revealer.Reveal(ctx, repo, git.RevisionRef(c))
			if err != nil {
				return err
			}
			env.Actions.Println(msg)
			return nil
		}))
	}
	if env.Searcher != nil {
		items = append(items, command("Search for Commit", func(ctx context.Context) error {
			msg, err := env.Searcher.Search(ctx, repo, c)
			if err != nil {
				return err
			}
			env.Actions.Println(msg)
			return nil
		}))
	}
	return items
}

func recognize(env *Env, repo *git.Repository) []remote.Remote {
	remotes, err := repo.Remotes()
	if err != nil {
		env.Log.Warn().Err(err).Str("repo", repo.Name()).Msg("list remotes")
		return nil
	}
	return remote.Recognize(remotes, env.CustomDomains)
}

// openOnRemote opens res on the first recognised remote.
func openOnRemote(env *Env, remotes []remote.Remote, res remote.Resource) wizard.Item {
	url := remotes[0].Provider.URL(res)
	return command(remote.OpenLabel(remotes, res), func(ctx context.Context) error {
		return env.Actions.OpenURL(ctx, url)
	})
}

func copyRemoteURL(env *Env, remotes []remote.Remote, res remote.Resource) wizard.Item {
	url := remotes[0].Provider.URL(res)
	return command(remote.CopyLabel(remotes, res), func(ctx context.Context) error {
		return env.Actions.CopyText(ctx, url)
	})
}

func commitTitle(c *git.Commit) string {
	if c.IsStash() {
		return "Stash " + c.StashName
	}
	return "Commit " + c.ShortHash()
}

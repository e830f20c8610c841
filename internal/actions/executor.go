// Package actions implements the effects behind gitpick's terminal menu
// items: clipboard, browser, diffs, commit details and file contents.
package actions

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-udiff"

	"github.com/alexander-akhmetov/gitpick/internal/debug"
	"github.com/alexander-akhmetov/gitpick/internal/git"
)

// ErrNothingToShow is returned when an action has no content to print.
var ErrNothingToShow = errors.New("nothing to show")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Opener opens a URL in the user's browser.
type Opener func(ctx context.Context, url string) error

// Executor runs the actions. Results are printed to its Output.
type Executor struct {
	out         *Output
	clipboard   Clipboard
	open        Opener
	diffContext int
}

// Option configures an Executor.
type Option func(*Executor)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(x *Executor) { x.clipboard = c }
}

// WithOpener replaces the browser launcher.
func WithOpener(o Opener) Option {
	return func(x *Executor) { x.open = o }
}

// WithDiffContext sets the number of context lines in diffs.
func WithDiffContext(lines int) Option {
	return func(x *Executor) {
		if lines >= 0 {
			x.diffContext = lines
		}
	}
}

// New creates an Executor printing to out.
func New(out *Output, opts ...Option) *Executor {
	x := &Executor{
		out:         out,
		clipboard:   systemClipboard{},
		open:        openBrowser,
		diffContext: udiff.DefaultContextLines,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Output returns the executor's output.
func (x *Executor) Output() *Output { return x.out }

// CopyText copies text to the clipboard.
func (x *Executor) CopyText(_ context.Context, text string) error {
	if err := x.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	x.out.Println("Copied to clipboard: " + firstLine(text))
	return nil
}

// OpenURL opens url in the browser.
func (x *Executor) OpenURL(ctx context.Context, url string) error {
	debug.Logf("open url %s", url)
	if err := x.open(ctx, url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	x.out.Println("Opened " + url)
	return nil
}

func openBrowser(ctx context.Context, url string) error {
	name := "xdg-open"
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url).Start()
	}
	return exec.CommandContext(ctx, name, url).Start()
}

// ShowCommit prints the commit's details and changed files as markdown.
func (x *Executor) ShowCommit(_ context.Context, c *git.Commit) error {
	x.out.Markdown(CommitMarkdown(c))
	return nil
}

// CommitMarkdown renders the details of c.
func CommitMarkdown(c *git.Commit) string {
	var b strings.Builder
	title := "Commit " + c.ShortHash()
	if c.IsStash() {
		title = "Stash " + c.StashName
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if c.Author != "" {
		fmt.Fprintf(&b, "**%s** <%s>, %s\n\n", c.Author, c.AuthorEmail, c.Date.Format("2006-01-02 15:04"))
	}
	b.WriteString(strings.TrimSpace(c.Message))
	b.WriteString("\n")
	if len(c.Files) > 0 {
		b.WriteString("\n| | File |\n|---|---|\n")
		for _, f := range c.Files {
			path := f.Path
			if f.OldPath != "" {
				path = f.OldPath + " → " + f.Path
			}
			fmt.Fprintf(&b, "| %c | `%s` |\n", rune(f.Status), path)
		}
	}
	return b.String()
}

// ShowChanges prints the diff of path between c's parent and c.
func (x *Executor) ShowChanges(_ context.Context, repo *git.Repository, c *git.Commit, path string) error {
	diff, err := x.commitDiff(repo, c, path)
	if err != nil {
		return err
	}
	return x.printDiff(diff)
}

// ShowChangesWithWorking prints the diff of path between c and the work tree.
func (x *Executor) ShowChangesWithWorking(_ context.Context, repo *git.Repository, c *git.Commit, path string) error {
	diff, err := x.workingDiff(repo, c, path)
	if err != nil {
		return err
	}
	return x.printDiff(diff)
}

// ShowAllChanges prints the diff of every file c changed.
func (x *Executor) ShowAllChanges(_ context.Context, repo *git.Repository, c *git.Commit) error {
	var diffs []string
	for _, f := range c.Files {
		diff, err := x.commitDiff(repo, c, f.Path)
		if err != nil {
			return err
		}
		diffs = append(diffs, diff)
	}
	return x.printDiff(strings.Join(diffs, ""))
}

// ShowAllChangesWithWorking prints the diff between c and the work tree for
// every file c changed.
func (x *Executor) ShowAllChangesWithWorking(_ context.Context, repo *git.Repository, c *git.Commit) error {
	var diffs []string
	for _, f := range c.Files {
		diff, err := x.workingDiff(repo, c, f.Path)
		if err != nil {
			return err
		}
		diffs = append(diffs, diff)
	}
	return x.printDiff(strings.Join(diffs, ""))
}

// ShowDirectoryCompare prints the git difftool invocation comparing two
// revisions. An empty to compares with the work tree.
func (x *Executor) ShowDirectoryCompare(_ context.Context, repo *git.Repository, from, to string) error {
	args := []string{"git", "-C", repo.Path(), "difftool", "--dir-diff", from}
	if to != "" {
		args = append(args, to)
	}
	x.out.Println(strings.Join(args, " "))
	return nil
}

// ShowFile prints the work tree copy of path.
func (x *Executor) ShowFile(_ context.Context, repo *git.Repository, path string) error {
	content, ok := repo.WorkingFile(path)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNothingToShow)
	}
	x.out.Header(path)
	x.out.Code(content, path)
	return nil
}

// ShowRevision prints path as of c. Deleted files are shown as of the
// previous revision.
func (x *Executor) ShowRevision(_ context.Context, repo *git.Repository, c *git.Commit, path string) error {
	ref := c.Hash
	if f, ok := c.File(path); ok && f.Status == git.FileDeleted {
		ref = c.PreviousHash()
	}
	content, err := repo.FileAt(ref, path)
	if err != nil {
		return err
	}
	x.out.Header(path + " @ " + shortHash(ref))
	x.out.Code(content, path)
	return nil
}

// ShowFiles prints the work tree copies of every file c changed.
func (x *Executor) ShowFiles(ctx context.Context, repo *git.Repository, c *git.Commit) error {
	shown := 0
	for _, f := range c.Files {
		if err := x.ShowFile(ctx, repo, f.Path); err != nil {
			if errors.Is(err, ErrNothingToShow) {
				continue
			}
			return err
		}
		shown++
	}
	if shown == 0 {
		return ErrNothingToShow
	}
	return nil
}

// ShowRevisions prints every file c changed as of c.
func (x *Executor) ShowRevisions(ctx context.Context, repo *git.Repository, c *git.Commit) error {
	for _, f := range c.Files {
		if err := x.ShowRevision(ctx, repo, c, f.Path); err != nil {
			return err
		}
	}
	return nil
}

func (x *Executor) printDiff(diff string) error {
	if diff == "" {
		x.out.Println("No changes")
		return nil
	}
	x.out.Diff(diff)
	return nil
}

// commitDiff diffs path between the commit's first parent and the commit.
func (x *Executor) commitDiff(repo *git.Repository, c *git.Commit, path string) (string, error) {
	f, ok := c.File(path)
	if !ok {
		f = git.FileChange{Path: path, Status: git.FileModified}
	}
	oldPath := f.Path
	if f.OldPath != "" {
		oldPath = f.OldPath
	}

	var before, after string
	var err error
	if f.Status != git.FileAdded && c.PreviousHash() != "" {
		if before, err = repo.FileAt(c.PreviousHash(), oldPath); err != nil {
			return "", err
		}
	}
	if f.Status != git.FileDeleted {
		if after, err = repo.FileAt(c.Hash, f.Path); err != nil {
			return "", err
		}
	}
	return x.unified("a/"+oldPath, "b/"+f.Path, before, after)
}

// workingDiff diffs path between the commit and the work tree.
func (x *Executor) workingDiff(repo *git.Repository, c *git.Commit, path string) (string, error) {
	var before string
	if f, ok := c.File(path); !ok || f.Status != git.FileDeleted {
		content, err := repo.FileAt(c.Hash, path)
		if err != nil {
			return "", err
		}
		before = content
	}
	after, _ := repo.WorkingFile(path)
	return x.unified("a/"+path, "b/"+path, before, after)
}

func (x *Executor) unified(fromName, toName, before, after string) (string, error) {
	edits := udiff.Strings(before, after)
	if len(edits) == 0 {
		return "", nil
	}
	d, err := udiff.ToUnifiedDiff(fromName, toName, before, edits, x.diffContext)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", toName, err)
	}
	return d.String(), nil
}

// Println writes a line to the output.
func (x *Executor) Println(text string) { x.out.Println(text) }

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

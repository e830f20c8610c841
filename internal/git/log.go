package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// FileStatus is the kind of change a commit made to a file.
type FileStatus rune

const (
	FileAdded    FileStatus = 'A'
	FileModified FileStatus = 'M'
	FileDeleted  FileStatus = 'D'
	FileRenamed  FileStatus = 'R'
)

func (s FileStatus) String() string {
	switch s {
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	}
	return "modified"
}

// FileChange is one file touched by a commit.
type FileChange struct {
	Path string
	// OldPath is the path before a rename.
	OldPath string
	Status  FileStatus
}

// Commit is a resolved commit or stash entry.
type Commit struct {
	Hash        string
	Author      string
	AuthorEmail string
	Date        time.Time
	Message     string
	Parents     []string

	// StashName is set for stash entries ("stash@{0}").
	StashName string

	// Files is filled by Repository.Commit, not by Log.
	Files []FileChange
}

// ShortHash is the 7-character abbreviation.
func (c *Commit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Summary is the first line of the message.
func (c *Commit) Summary() string {
	summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return summary
}

// IsStash reports whether the commit is a stash entry.
func (c *Commit) IsStash() bool { return c.StashName != "" }

// PreviousHash is the first parent, or "" for a root commit.
func (c *Commit) PreviousHash() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// File returns the change for path.
func (c *Commit) File(path string) (FileChange, bool) {
	for _, f := range c.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileChange{}, false
}

// Log is one page of history.
type Log struct {
	Ref     string
	Commits []*Commit
	// HasMore reports whether commits exist past the page.
	HasMore bool
}

// Log returns up to limit commits reachable from ref, newest first, after
// skipping skip commits. A limit of zero or less means no limit.
func (r *Repository) Log(ctx context.Context, ref string, skip, limit int) (*Log, error) {
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return nil, err
	}
	iter, err := r.repo.Log(&git.LogOptions{From: plumbing.NewHash(hash), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", ref, err)
	}
	defer iter.Close()

	page := &Log{Ref: ref}
	seen := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen++
		if seen <= skip {
			return nil
		}
		if limit > 0 && len(page.Commits) == limit {
			page.HasMore = true
			return errStopIter
		}
		page.Commits = append(page.Commits, toCommit(c))
		return nil
	})
	if err != nil && !errors.Is(err, errStopIter) {
		return nil, fmt.Errorf("walk log %s: %w", ref, err)
	}
	return page, nil
}

var errStopIter = errors.New("stop")

// Commit resolves ref and returns the commit with its changed files.
// Results are cached by hash.
func (r *Repository) Commit(ctx context.Context, ref string) (*Commit, error) {
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	cached, ok := r.commits.Get(hash)
	r.mu.Unlock()
	if ok {
		return cached.(*Commit), nil
	}

	obj, err := r.commitObject(hash)
	if err != nil {
		return nil, err
	}
	c := toCommit(obj)
	c.Files, err = changes(ctx, obj)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.commits.Add(hash, c)
	r.mu.Unlock()
	return c, nil
}

// changes diffs a commit's tree against its first parent, or against the
// empty tree for a root commit.
func changes(ctx context.Context, c *object.Commit) ([]FileChange, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("get parent: %w", err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, fmt.Errorf("get parent tree: %w", err)
		}
	}

	diff, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("compute diff: %w", err)
	}

	files := make([]FileChange, 0, len(diff))
	for _, ch := range diff {
		action, err := ch.Action()
		if err != nil {
			return nil, fmt.Errorf("classify change: %w", err)
		}
		var f FileChange
		switch action {
		case merkletrie.Insert:
			f = FileChange{Path: ch.To.Name, Status: FileAdded}
		case merkletrie.Delete:
			f = FileChange{Path: ch.From.Name, Status: FileDeleted}
		default:
			f = FileChange{Path: ch.To.Name, Status: FileModified}
			if ch.From.Name != ch.To.Name {
				f.OldPath = ch.From.Name
				f.Status = FileRenamed
			}
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func toCommit(c *object.Commit) *Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	return &Commit{
		Hash:        c.Hash.String(),
		Author:      c.Author.Name,
		AuthorEmail: c.Author.Email,
		Date:        c.Author.When,
		Message:     c.Message,
		Parents:     parents,
	}
}

// Contributor is a commit author on HEAD's history.
type Contributor struct {
	Name    string
	Email   string
	Commits int
}

// Contributors returns authors of HEAD's history ordered by commit count.
func (r *Repository) Contributors(ctx context.Context) ([]Contributor, error) {
	page, err := r.Log(ctx, "HEAD", 0, 0)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*Contributor)
	var order []string
	for _, c := range page.Commits {
		key := strings.ToLower(c.AuthorEmail)
		if existing, ok := byEmail[key]; ok {
			existing.Commits++
			continue
		}
		byEmail[key] = &Contributor{Name: c.Author, Email: c.AuthorEmail, Commits: 1}
		order = append(order, key)
	}

	out := make([]Contributor, 0, len(order))
	for _, key := range order {
		out = append(out, *byEmail[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Commits > out[j].Commits })
	return out, nil
}

// FileAt returns the contents of path at ref.
func (r *Repository) FileAt(ref, path string) (string, error) {
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return "", err
	}
	c, err := r.commitObject(hash)
	if err != nil {
		return "", err
	}
	f, err := c.File(path)
	if err != nil {
		return "", fmt.Errorf("read %s at %s: %w", path, ref, err)
	}
	rd, err := f.Reader()
	if err != nil {
		return "", fmt.Errorf("read %s at %s: %w", path, ref, err)
	}
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("read %s at %s: %w", path, ref, err)
	}
	return string(data), nil
}

// WorkingFile returns the work tree contents of path and whether it exists.
func (r *Repository) WorkingFile(path string) (string, bool) {
	if err := validateRelativePath(path); err != nil {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(r.path, path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

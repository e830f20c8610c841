package git

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrReferenceNotFound is returned when a name resolves to no commit.
var ErrReferenceNotFound = errors.New("reference not found")

// Branch is a local or remote-tracking branch.
type Branch struct {
	// Name is the short name: "main" or "origin/main".
	Name string
	// Remote is the remote name for remote-tracking branches.
	Remote  string
	Current bool
	Hash    string
	Date    time.Time
}

// IsRemote reports whether b is a remote-tracking branch.
func (b Branch) IsRemote() bool { return b.Remote != "" }

// ShortName strips the remote prefix.
func (b Branch) ShortName() string {
	if b.Remote == "" {
		return b.Name
	}
	return strings.TrimPrefix(b.Name, b.Remote+"/")
}

// Tag is a lightweight or annotated tag.
type Tag struct {
	Name    string
	Hash    string
	Message string
	Date    time.Time
}

// BranchFilter selects which branches Branches returns.
type BranchFilter int

const (
	// BranchesAll returns local and remote-tracking branches.
	BranchesAll BranchFilter = iota
	// BranchesLocal returns only local branches.
	BranchesLocal
	// BranchesRemote returns only remote-tracking branches.
	BranchesRemote
)

// Branches returns branches with the current branch first, then local
// branches by name, then remote-tracking branches by name.
func (r *Repository) Branches(filter BranchFilter) ([]Branch, error) {
	current, _ := r.CurrentBranch()

	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	var branches []Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		var b Branch
		switch {
		case name.IsBranch() && filter != BranchesRemote:
			b = Branch{Name: name.Short(), Current: name.Short() == current}
		case name.IsRemote() && filter != BranchesLocal:
			short := name.Short()
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			remote, _, _ := strings.Cut(short, "/")
			b = Branch{Name: short, Remote: remote}
		default:
			return nil
		}
		hash := r.peel(ref)
		b.Hash = hash.String()
		if c, err := r.repo.CommitObject(hash); err == nil {
			b.Date = c.Committer.When
		}
		branches = append(branches, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk references: %w", err)
	}

	sort.SliceStable(branches, func(i, j int) bool {
		a, b := branches[i], branches[j]
		if a.Current != b.Current {
			return a.Current
		}
		if a.IsRemote() != b.IsRemote() {
			return !a.IsRemote()
		}
		return a.Name < b.Name
	})
	return branches, nil
}

// CurrentBranch returns the checked-out branch name, or "" with a detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// Tags returns tags ordered by name.
func (r *Repository) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		t := Tag{Name: ref.Name().Short(), Hash: r.peel(ref).String()}
		if obj, err := r.repo.TagObject(ref.Hash()); err == nil {
			t.Message = strings.TrimSpace(obj.Message)
			t.Date = obj.Tagger.When
		} else if c, err := r.repo.CommitObject(ref.Hash()); err == nil {
			t.Date = c.Committer.When
		}
		tags = append(tags, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk tags: %w", err)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// peel returns the commit hash a reference points at, following annotated tags.
func (r *Repository) peel(ref *plumbing.Reference) plumbing.Hash {
	if ref.Type() == plumbing.SymbolicReference {
		if resolved, err := r.repo.Reference(ref.Name(), true); err == nil {
			ref = resolved
		}
	}
	if obj, err := r.repo.TagObject(ref.Hash()); err == nil {
		if c, err := obj.Commit(); err == nil {
			return c.Hash
		}
	}
	return ref.Hash()
}

// ResolveReference resolves a branch, tag, HEAD expression or (abbreviated)
// commit id to a full commit hash.
func (r *Repository) ResolveReference(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrReferenceNotFound)
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrReferenceNotFound)
	}
	if _, err := r.repo.CommitObject(*hash); err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrReferenceNotFound)
	}
	return hash.String(), nil
}

// ValidateReference reports whether ref resolves to a commit.
func (r *Repository) ValidateReference(ref string) bool {
	_, err := r.ResolveReference(ref)
	return err == nil
}

// HasBranchOrTag reports whether name is an existing local branch, remote
// branch or tag.
func (r *Repository) HasBranchOrTag(name string) bool {
	candidates := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(name),
		plumbing.NewTagReferenceName(name),
		plumbing.ReferenceName("refs/remotes/" + name),
	}
	for _, c := range candidates {
		if _, err := r.repo.Reference(c, false); err == nil {
			return true
		}
	}
	return false
}

var (
	invalidRefChars = regexp.MustCompile(`[\x00-\x20~^:?*\[\\\x7f]`)
	invalidRefSeqs  = []string{"..", "@{", "//", "/.", ".lock/"}
)

// ValidateRefName reports whether name is usable as a branch or tag name,
// following git check-ref-format rules.
func ValidateRefName(name string) bool {
	if name == "" || name == "@" {
		return false
	}
	if invalidRefChars.MatchString(name) {
		return false
	}
	for _, seq := range invalidRefSeqs {
		if strings.Contains(name, seq) {
			return false
		}
	}
	switch {
	case strings.HasPrefix(name, "/"), strings.HasPrefix(name, "."), strings.HasPrefix(name, "-"):
		return false
	case strings.HasSuffix(name, "/"), strings.HasSuffix(name, "."), strings.HasSuffix(name, ".lock"):
		return false
	}
	return true
}

// commitObject loads the commit for a resolved hash.
func (r *Repository) commitObject(hash string) (*object.Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", hash, err)
	}
	return c, nil
}

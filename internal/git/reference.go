package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// RefKind is what a Reference names.
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
	RefRevision
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	}
	return "commit"
}

// Reference is a picked branch, tag or commit.
type Reference struct {
	Kind RefKind
	// Name is the branch or tag name; for revisions it is the full hash.
	Name   string
	Remote bool
	// Hash is the commit the reference points at.
	Hash string
}

// BranchRef returns the reference for b.
func BranchRef(b Branch) Reference {
	return Reference{Kind: RefBranch, Name: b.Name, Remote: b.IsRemote(), Hash: b.Hash}
}

// TagRef returns the reference for t.
func TagRef(t Tag) Reference {
	return Reference{Kind: RefTag, Name: t.Name, Hash: t.Hash}
}

// RevisionRef returns the reference for c.
func RevisionRef(c *Commit) Reference {
	return Reference{Kind: RefRevision, Name: c.Hash, Hash: c.Hash}
}

// IsRevision reports whether r names a commit rather than a branch or tag.
func (r Reference) IsRevision() bool { return r.Kind == RefRevision }

// Ref is the name to hand to git: the branch or tag name, or the hash.
func (r Reference) Ref() string {
	if r.Kind == RefRevision {
		return r.Hash
	}
	return r.Name
}

// ShortName is the display name, abbreviating hashes.
func (r Reference) ShortName() string {
	if r.Kind == RefRevision && len(r.Name) > 7 {
		return r.Name[:7]
	}
	return r.Name
}

// String is e.g. "branch main" or "commit 0123456".
func (r Reference) String() string {
	return r.Kind.String() + " " + r.ShortName()
}

// Title is String with the kind capitalised.
func (r Reference) Title() string {
	s := r.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Reference classifies name as a local branch, remote branch, tag or commit.
func (r *Repository) Reference(name string) (Reference, error) {
	name = strings.TrimSpace(name)
	checks := []struct {
		ref    plumbing.ReferenceName
		kind   RefKind
		remote bool
	}{
		{plumbing.NewBranchReferenceName(name), RefBranch, false},
		{plumbing.ReferenceName("refs/remotes/" + name), RefBranch, true},
		{plumbing.NewTagReferenceName(name), RefTag, false},
	}
	for _, c := range checks {
		ref, err := r.repo.Reference(c.ref, true)
		if err != nil {
			continue
		}
		return Reference{Kind: c.kind, Name: name, Remote: c.remote, Hash: r.peel(ref).String()}, nil
	}

	hash, err := r.ResolveReference(name)
	if err != nil {
		return Reference{}, fmt.Errorf("reference %q: %w", name, err)
	}
	return Reference{Kind: RefRevision, Name: hash, Hash: hash}, nil
}

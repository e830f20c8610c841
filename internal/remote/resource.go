// Package remote maps git remotes to hosting providers and builds web URLs
// for branches, commits and files.
package remote

import "fmt"

// ResourceType is the kind of object a remote URL points at.
type ResourceType int

const (
	ResourceBranch ResourceType = iota
	ResourceBranches
	ResourceCommit
	ResourceFile
	ResourceRepo
	// ResourceRevision is a file at a specific commit.
	ResourceRevision
)

// Resource identifies what to open or copy on the provider.
type Resource struct {
	Type   ResourceType
	Branch string
	Sha    string
	File   string
	// PreviousSha is used for a Revision of a file deleted in Sha.
	PreviousSha string
	Deleted     bool
}

// Name is the resource noun used in labels.
func (r Resource) Name() string {
	switch r.Type {
	case ResourceBranch:
		return "Branch"
	case ResourceBranches:
		return "Branches"
	case ResourceCommit:
		return "Commit"
	case ResourceRepo:
		return "Repository"
	case ResourceFile, ResourceRevision:
		return "File"
	}
	return ""
}

// Description is the detail line shown next to a remote item.
func (r Resource) Description() string {
	switch r.Type {
	case ResourceBranch:
		return r.Branch
	case ResourceBranches:
		return "Branches"
	case ResourceCommit:
		return shorten(r.Sha)
	case ResourceFile:
		return r.File
	case ResourceRepo:
		return "Repository"
	case ResourceRevision:
		if r.Deleted {
			return fmt.Sprintf("%s from %s (deleted in %s)", r.File, shorten(r.PreviousSha), shorten(r.Sha))
		}
		if r.Sha == "" {
			return r.File
		}
		return fmt.Sprintf("%s from %s", r.File, shorten(r.Sha))
	}
	return ""
}

// revision is the commit a Revision URL should point at. A deleted file only
// exists in the previous commit.
func (r Resource) revision() string {
	if r.Deleted && r.PreviousSha != "" {
		return r.PreviousSha
	}
	return r.Sha
}

func shorten(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ResetMode is the mode of a reset.
type ResetMode int

const (
	ResetMixed ResetMode = iota
	ResetSoft
	ResetHard
)

func (m ResetMode) String() string {
	switch m {
	case ResetSoft:
		return "soft"
	case ResetHard:
		return "hard"
	}
	return "mixed"
}

// Checkout switches the work tree to ref. Local branches are checked out by
// name, a remote-tracking branch creates a local branch of the same short
// name, and anything else detaches HEAD at the resolved commit.
func (r *Repository) Checkout(ref string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	local := plumbing.NewBranchReferenceName(ref)
	if _, err := r.repo.Reference(local, false); err == nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: local}); err != nil {
			return fmt.Errorf("checkout branch %s: %w", ref, err)
		}
		return nil
	}

	hash, err := r.ResolveReference(ref)
	if err != nil {
		return err
	}

	if remote, err := r.repo.Reference(plumbing.ReferenceName("refs/remotes/"+ref), false); err == nil {
		_, short, _ := strings.Cut(remote.Name().Short(), "/")
		target := plumbing.NewBranchReferenceName(short)
		if _, err := r.repo.Reference(target, false); err == nil {
			return fmt.Errorf("checkout %s: local branch %s already exists", ref, short)
		}
		err = wt.Checkout(&git.CheckoutOptions{Branch: target, Hash: plumbing.NewHash(hash), Create: true})
		if err != nil {
			return fmt.Errorf("checkout %s as %s: %w", ref, short, err)
		}
		return nil
	}

	if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(hash)}); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

// CreateBranch creates branch name at ref, optionally switching to it.
func (r *Repository) CreateBranch(name, ref string, checkout bool) error {
	if !ValidateRefName(name) {
		return fmt.Errorf("create branch: invalid name %q", name)
	}
	target := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(target, false); err == nil {
		return fmt.Errorf("create branch: %s already exists", name)
	}
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return err
	}
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(target, plumbing.NewHash(hash))); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	if checkout {
		return r.Checkout(name)
	}
	return nil
}

// CreateTag creates tag name at ref. A non-empty message makes it annotated.
func (r *Repository) CreateTag(name, ref, message string) error {
	if !ValidateRefName(name) {
		return fmt.Errorf("create tag: invalid name %q", name)
	}
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return err
	}
	var opts *git.CreateTagOptions
	if message = strings.TrimSpace(message); message != "" {
		opts = &git.CreateTagOptions{Tagger: r.signature(), Message: message}
	}
	if _, err := r.repo.CreateTag(name, plumbing.NewHash(hash), opts); err != nil {
		if errors.Is(err, git.ErrTagExists) {
			return fmt.Errorf("create tag: %s already exists", name)
		}
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}

// Reset moves the current branch to ref.
func (r *Repository) Reset(ref string, mode ResetMode) error {
	hash, err := r.ResolveReference(ref)
	if err != nil {
		return err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	m := git.MixedReset
	switch mode {
	case ResetSoft:
		m = git.SoftReset
	case ResetHard:
		m = git.HardReset
	}
	if err := wt.Reset(&git.ResetOptions{Commit: plumbing.NewHash(hash), Mode: m}); err != nil {
		return fmt.Errorf("reset --%s %s: %w", mode, ref, err)
	}
	return nil
}

// Revert creates revert commits for the given commits, newest first.
func (r *Repository) Revert(ctx context.Context, hashes ...string) error {
	if len(hashes) == 0 {
		return nil
	}
	_, err := r.run(ctx, nil, append([]string{"revert", "--no-edit"}, hashes...)...)
	return err
}

// RestoreFile replaces path in the work tree and index with its content at ref.
func (r *Repository) RestoreFile(ctx context.Context, ref, path string) error {
	if err := validateRelativePath(path); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	_, err := r.run(ctx, nil, "checkout", ref, "--", path)
	return err
}

// ApplyFileChanges applies the changes commit made to path onto the work tree.
func (r *Repository) ApplyFileChanges(ctx context.Context, c *Commit, path string) error {
	if err := validateRelativePath(path); err != nil {
		return fmt.Errorf("apply %s: %w", path, err)
	}
	base := c.PreviousHash()
	if base == "" {
		base = emptyTree
	}
	patch, err := r.run(ctx, nil, "diff", "--binary", base, c.Hash, "--", path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(patch) == "" {
		return nil
	}
	_, err = r.run(ctx, strings.NewReader(patch), "apply", "--3way", "-")
	return err
}

// emptyTree is git's well-known empty tree object id.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

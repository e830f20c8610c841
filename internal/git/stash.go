package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stash is one entry of the stash list.
type Stash struct {
	// Name is the stash selector, e.g. "stash@{0}".
	Name    string
	Hash    string
	Message string
	Date    time.Time
}

// Commit returns the stash as a Commit carrying its stash name.
func (s Stash) Commit() *Commit {
	return &Commit{Hash: s.Hash, Message: s.Message, Date: s.Date, StashName: s.Name}
}

// stashFormat separates fields with NUL so messages may contain anything.
const stashFormat = "--format=%H%x00%gd%x00%ct%x00%gs"

// Stashes lists the stash entries, newest first.
func (r *Repository) Stashes(ctx context.Context) ([]Stash, error) {
	out, err := r.run(ctx, nil, "stash", "list", stashFormat)
	if err != nil {
		return nil, err
	}
	return parseStashList(out)
}

func parseStashList(out string) ([]Stash, error) {
	var stashes []Stash
	for line := range strings.SplitSeq(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\x00", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("parse stash entry %q: expected 4 fields, got %d", line, len(fields))
		}
		ts, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse stash date %q: %w", fields[2], err)
		}
		stashes = append(stashes, Stash{
			Hash:    fields[0],
			Name:    fields[1],
			Date:    time.Unix(ts, 0),
			Message: fields[3],
		})
	}
	return stashes, nil
}

// StashCommit returns the stash's commit with the files it changed relative
// to the commit it was created on.
func (r *Repository) StashCommit(ctx context.Context, s Stash) (*Commit, error) {
	c, err := r.Commit(ctx, s.Hash)
	if err != nil {
		return nil, err
	}
	withName := *c
	withName.StashName = s.Name
	return &withName, nil
}

// StashApply applies a stash; with pop it also drops it.
func (r *Repository) StashApply(ctx context.Context, name string, pop bool) error {
	verb := "apply"
	if pop {
		verb = "pop"
	}
	_, err := r.run(ctx, nil, "stash", verb, name)
	return err
}

// StashDrop deletes a stash.
func (r *Repository) StashDrop(ctx context.Context, name string) error {
	_, err := r.run(ctx, nil, "stash", "drop", name)
	return err
}

package flows

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// Field is one answer of a flow as written to a seed.
type Field struct {
	Key   string
	Value any
}

// Describer is implemented by flows whose answers can be written out as a
// seed and read back by the command registry.
type Describer interface {
	Fields() []Field
}

// Seed writes the command name, step counter and answers of f as indented
// JSON. Feeding the output to ParseSeed rebuilds the same flow.
func Seed(f wizard.Flow) (string, error) {
	out, err := sjson.Set("", "command", f.Name())
	if err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "counter", f.State().Counter); err != nil {
		return "", err
	}
	if d, ok := f.(Describer); ok {
		for _, fl := range d.Fields() {
			if out, err = sjson.Set(out, "state."+fl.Key, fl.Value); err != nil {
				return "", fmt.Errorf("write %s: %w", fl.Key, err)
			}
		}
	}
	return string(pretty.Pretty([]byte(out))), nil
}

// ParseSeed reads a seed written by Seed, or a hand-written one with just a
// command and some of its answers.
func ParseSeed(d *Deps, raw string) (wizard.Flow, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("parse seed: invalid JSON")
	}
	root := gjson.Parse(raw)
	cmd, err := Lookup(root.Get("command").String())
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return cmd.New(d, root.Get("state")), nil
}

func addField[T any](fs []Field, key string, a wizard.Answer[T], id func(T) any) []Field {
	switch {
	case a.IsResolved():
		return append(fs, Field{Key: key, Value: id(a.Get())})
	case a.IsPlaceholder():
		if strings.Contains(a.Placeholder(), listSep) {
			return append(fs, Field{Key: key, Value: splitList(a.Placeholder())})
		}
		return append(fs, Field{Key: key, Value: a.Placeholder()})
	}
	return fs
}

func repoID(r *git.Repository) any       { return r.Path() }
func refID(r git.Reference) any          { return r.Ref() }
func commitID(c *git.Commit) any         { return c.Hash }
func fileID(f git.FileChange) any        { return f.Path }
func stashID(s git.Stash) any            { return s.Name }
func textID(s string) any                { return s }
func subcommandID(s StashSubcommand) any { return string(s) }

func reposID(repos []*git.Repository) any {
	ids := make([]string, len(repos))
	for i, r := range repos {
		ids[i] = r.Path()
	}
	return ids
}

func commitsID(commits []*git.Commit) any {
	ids := make([]string, len(commits))
	for i, c := range commits {
		ids[i] = c.Hash
	}
	return ids
}

func (h *History) Fields() []Field {
	fs := addField(nil, "repo", h.st.Repo, repoID)
	fs = addField(fs, "reference", h.st.Reference, refID)
	return addField(fs, "commit", h.st.Commit, commitID)
}

func (s *Show) Fields() []Field {
	fs := addField(nil, "repo", s.st.Repo, repoID)
	fs = addField(fs, "commit", s.st.Commit, commitID)
	return addField(fs, "file", s.st.File, fileID)
}

func (s *Switch) Fields() []Field {
	fs := addField(nil, "repos", s.st.Repos, reposID)
	return addField(fs, "reference", s.st.Reference, refID)
}

func (b *BranchCreate) Fields() []Field {
	fs := addField(nil, "repo", b.st.Repo, repoID)
	fs = addField(fs, "reference", b.st.Reference, refID)
	return addField(fs, "name", b.st.Name, textID)
}

func (t *TagCreate) Fields() []Field {
	fs := addField(nil, "repo", t.st.Repo, repoID)
	fs = addField(fs, "reference", t.st.Reference, refID)
	fs = addField(fs, "name", t.st.Name, textID)
	return addField(fs, "message", t.st.Message, textID)
}

func (s *Stash) Fields() []Field {
	fs := addField(nil, "subcommand", s.st.Subcommand, subcommandID)
	fs = addField(fs, "repo", s.st.Repo, repoID)
	return addField(fs, "stash", s.st.Stash, stashID)
}

func (r *Reset) Fields() []Field {
	fs := addField(nil, "repo", r.st.Repo, repoID)
	fs = addField(fs, "commit", r.st.Commit, commitID)
	return addField(fs, "mode", r.st.Mode, func(m git.ResetMode) any { return m.String() })
}

func (r *Revert) Fields() []Field {
	fs := addField(nil, "repo", r.st.Repo, repoID)
	return addField(fs, "commits", r.st.Commits, commitsID)
}

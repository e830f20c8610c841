package git

import (
	"fmt"
	"sort"
)

// Remote is a configured remote.
type Remote struct {
	Name string
	URLs []string
}

// URL returns the first fetch URL.
func (r Remote) URL() string {
	if len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// Remotes returns the configured remotes with "origin" first, then by name.
func (r *Repository) Remotes() ([]Remote, error) {
	list, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	out := make([]Remote, 0, len(list))
	for _, rm := range list {
		cfg := rm.Config()
		out = append(out, Remote{Name: cfg.Name, URLs: cfg.URLs})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Name == "origin") != (out[j].Name == "origin") {
			return out[i].Name == "origin"
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

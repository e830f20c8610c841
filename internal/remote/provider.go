package remote

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/git"
)

// Kind identifies a hosting service's URL scheme.
type Kind string

const (
	GitHub      Kind = "github"
	GitLab      Kind = "gitlab"
	Bitbucket   Kind = "bitbucket"
	AzureDevOps Kind = "azure"
	Gitea       Kind = "gitea"
)

var kindNames = map[Kind]string{
	GitHub:      "GitHub",
	GitLab:      "GitLab",
	Bitbucket:   "Bitbucket",
	AzureDevOps: "Azure DevOps",
	Gitea:       "Gitea",
}

var knownDomains = map[string]Kind{
	"github.com":        GitHub,
	"gitlab.com":        GitLab,
	"bitbucket.org":     Bitbucket,
	"dev.azure.com":     AzureDevOps,
	"ssh.dev.azure.com": AzureDevOps,
	"codeberg.org":      Gitea,
	"gitea.com":         Gitea,
}

// Provider is a remote recognised as a hosting service.
type Provider struct {
	Kind   Kind
	Domain string
	// Path is the repository path on the host, e.g. "acme/app".
	Path string
}

// Name is the display name, e.g. "GitHub".
func (p *Provider) Name() string { return kindNames[p.Kind] }

var scpLike = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// Parse recognises a remote URL. custom maps extra domains (self-hosted
// instances) to a provider kind.
func Parse(remoteURL string, custom map[string]string) (*Provider, bool) {
	domain, path, ok := splitURL(strings.TrimSpace(remoteURL))
	if !ok {
		return nil, false
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")

	kind, ok := knownDomains[domain]
	if !ok {
		k, found := custom[domain]
		if !found {
			return nil, false
		}
		kind = Kind(strings.ToLower(k))
		if _, known := kindNames[kind]; !known {
			return nil, false
		}
	}

	if kind == AzureDevOps {
		domain = "dev.azure.com"
		path = azurePath(path)
	}
	if path == "" {
		return nil, false
	}
	return &Provider{Kind: kind, Domain: domain, Path: path}, true
}

func splitURL(raw string) (domain, path string, ok bool) {
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			return "", "", false
		}
		return strings.ToLower(u.Hostname()), u.Path, true
	}
	m := scpLike.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}

// azurePath normalises "v3/org/project/repo" (ssh) and
// "org/project/_git/repo" (https) to "org/project/_git/repo".
func azurePath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "v3/"), "/")
	switch {
	case len(parts) == 3:
		return strings.Join([]string{parts[0], parts[1], "_git", parts[2]}, "/")
	case len(parts) == 4 && parts[2] == "_git":
		return path
	}
	return ""
}

// URL returns the web URL for res.
func (p *Provider) URL(res Resource) string {
	base := fmt.Sprintf("https://%s/%s", p.Domain, p.Path)
	file := strings.TrimPrefix(res.File, "/")

	switch p.Kind {
	case GitLab:
		return gitlabURL(base, res, file)
	case Bitbucket:
		return bitbucketURL(base, res, file)
	case AzureDevOps:
		return azureURL(base, res, file)
	case Gitea:
		return giteaURL(base, res, file)
	}
	return githubURL(base, res, file)
}

func githubURL(base string, res Resource, file string) string {
	switch res.Type {
	case ResourceBranch:
		return base + "/tree/" + res.Branch
	case ResourceBranches:
		return base + "/branches"
	case ResourceCommit:
		return base + "/commit/" + res.Sha
	case ResourceFile:
		return base + "/blob/" + fileRef(res) + "/" + file
	case ResourceRevision:
		return base + "/blob/" + res.revision() + "/" + file
	}
	return base
}

func gitlabURL(base string, res Resource, file string) string {
	switch res.Type {
	case ResourceBranch:
		return base + "/-/tree/" + res.Branch
	case ResourceBranches:
		return base + "/-/branches"
	case ResourceCommit:
		return base + "/-/commit/" + res.Sha
	case ResourceFile:
		return base + "/-/blob/" + fileRef(res) + "/" + file
	case ResourceRevision:
		return base + "/-/blob/" + res.revision() + "/" + file
	}
	return base
}

func bitbucketURL(base string, res Resource, file string) string {
	switch res.Type {
	case ResourceBranch:
		return base + "/branch/" + res.Branch
	case ResourceBranches:
		return base + "/branches"
	case ResourceCommit:
		return base + "/commits/" + res.Sha
	case ResourceFile:
		return base + "/src/" + fileRef(res) + "/" + file
	case ResourceRevision:
		return base + "/src/" + res.revision() + "/" + file
	}
	return base
}

func azureURL(base string, res Resource, file string) string {
	switch res.Type {
	case ResourceBranch:
		return base + "?version=GB" + url.QueryEscape(res.Branch)
	case ResourceBranches:
		return base + "/branches"
	case ResourceCommit:
		return base + "/commit/" + res.Sha
	case ResourceFile:
		if res.Sha == "" && res.Branch != "" {
			return base + "?path=/" + file + "&version=GB" + url.QueryEscape(res.Branch)
		}
		return base + "?path=/" + file + "&version=GC" + res.Sha
	case ResourceRevision:
		return base + "?path=/" + file + "&version=GC" + res.revision()
	}
	return base
}

func giteaURL(base string, res Resource, file string) string {
	switch res.Type {
	case ResourceBranch:
		return base + "/src/branch/" + res.Branch
	case ResourceBranches:
		return base + "/branches"
	case ResourceCommit:
		return base + "/commit/" + res.Sha
	case ResourceFile:
		if res.Sha == "" && res.Branch != "" {
			return base + "/src/branch/" + res.Branch + "/" + file
		}
		return base + "/src/commit/" + res.Sha + "/" + file
	case ResourceRevision:
		return base + "/src/commit/" + res.revision() + "/" + file
	}
	return base
}

// fileRef is the branch for a File resource when given, else its commit.
func fileRef(res Resource) string {
	if res.Branch != "" {
		return res.Branch
	}
	return res.Sha
}

// Remote pairs a git remote with its recognised provider.
type Remote struct {
	Name     string
	Provider *Provider
}

// Recognize returns the remotes with a known provider, keeping their order.
func Recognize(remotes []git.Remote, custom map[string]string) []Remote {
	var out []Remote
	for _, r := range remotes {
		if p, ok := Parse(r.URL(), custom); ok {
			out = append(out, Remote{Name: r.Name, Provider: p})
		}
	}
	return out
}

// providerName is the name used in labels covering several remotes: the
// single provider's name, or the first one's followed by an ellipsis.
func providerName(remotes []Remote) (string, bool) {
	if len(remotes) == 0 {
		return "Remote", false
	}
	first := remotes[0].Provider
	for _, r := range remotes[1:] {
		if r.Provider.Kind != first.Kind || r.Provider.Domain != first.Domain {
			return first.Name(), false
		}
	}
	return first.Name(), true
}

// OpenLabel is the label of an "open on provider" item.
func OpenLabel(remotes []Remote, res Resource) string {
	name, single := providerName(remotes)
	if !single {
		name += "…"
	}
	return fmt.Sprintf("Open %s on %s", res.Name(), name)
}

// CopyLabel is the label of a "copy provider URL" item.
func CopyLabel(remotes []Remote, res Resource) string {
	name, single := providerName(remotes)
	label := fmt.Sprintf("Copy %s %s Url", name, res.Name())
	if !single {
		label += "…"
	}
	return label
}

package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/gitpick/internal/git"
)

func TestParse(t *testing.T) {
	custom := map[string]string{"git.acme.corp": "GitLab", "code.acme.corp": "unknown"}

	tests := []struct {
		url    string
		want   *Provider
		wantOK bool
	}{
		{url: "git@github.com:acme/app.git", want: &Provider{Kind: GitHub, Domain: "github.com", Path: "acme/app"}, wantOK: true},
		{url: "https://github.com/acme/app", want: &Provider{Kind: GitHub, Domain: "github.com", Path: "acme/app"}, wantOK: true},
		{url: "ssh://git@gitlab.com:2222/group/sub/app.git", want: &Provider{Kind: GitLab, Domain: "gitlab.com", Path: "group/sub/app"}, wantOK: true},
		{url: "https://user@bitbucket.org/team/app.git", want: &Provider{Kind: Bitbucket, Domain: "bitbucket.org", Path: "team/app"}, wantOK: true},
		{url: "git@ssh.dev.azure.com:v3/org/proj/app", want: &Provider{Kind: AzureDevOps, Domain: "dev.azure.com", Path: "org/proj/_git/app"}, wantOK: true},
		{url: "https://org@dev.azure.com/org/proj/_git/app", want: &Provider{Kind: AzureDevOps, Domain: "dev.azure.com", Path: "org/proj/_git/app"}, wantOK: true},
		{url: "https://codeberg.org/me/app.git", want: &Provider{Kind: Gitea, Domain: "codeberg.org", Path: "me/app"}, wantOK: true},
		{url: "git@git.acme.corp:platform/app.git", want: &Provider{Kind: GitLab, Domain: "git.acme.corp", Path: "platform/app"}, wantOK: true},
		{url: "git@code.acme.corp:platform/app.git"},
		{url: "https://example.com/a/b.git"},
		{url: "/srv/git/app.git"},
		{url: ""},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			got, ok := Parse(tc.url, custom)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProviderURL(t *testing.T) {
	sha := "0123456789abcdef0123456789abcdef01234567"
	prev := "fedcba9876543210fedcba9876543210fedcba98"
	resources := map[string]Resource{
		"repo":     {Type: ResourceRepo},
		"branch":   {Type: ResourceBranch, Branch: "main"},
		"branches": {Type: ResourceBranches},
		"commit":   {Type: ResourceCommit, Sha: sha},
		"file":     {Type: ResourceFile, File: "src/app.go", Branch: "main"},
		"revision": {Type: ResourceRevision, File: "src/app.go", Sha: sha},
		"deleted":  {Type: ResourceRevision, File: "src/app.go", Sha: sha, PreviousSha: prev, Deleted: true},
	}

	tests := []struct {
		provider Provider
		resource string
		want     string
	}{
		{Provider{GitHub, "github.com", "acme/app"}, "repo", "https://github.com/acme/app"},
		{Provider{GitHub, "github.com", "acme/app"}, "branch", "https://github.com/acme/app/tree/main"},
		{Provider{GitHub, "github.com", "acme/app"}, "branches", "https://github.com/acme/app/branches"},
		{Provider{GitHub, "github.com", "acme/app"}, "commit", "https://github.com/acme/app/commit/" + sha},
		{Provider{GitHub, "github.com", "acme/app"}, "file", "https://github.com/acme/app/blob/main/src/app.go"},
		{Provider{GitHub, "github.com", "acme/app"}, "revision", "https://github.com/acme/app/blob/" + sha + "/src/app.go"},
		{Provider{GitHub, "github.com", "acme/app"}, "deleted", "https://github.com/acme/app/blob/" + prev + "/src/app.go"},
		{Provider{GitLab, "gitlab.com", "g/app"}, "commit", "https://gitlab.com/g/app/-/commit/" + sha},
		{Provider{GitLab, "gitlab.com", "g/app"}, "branch", "https://gitlab.com/g/app/-/tree/main"},
		{Provider{Bitbucket, "bitbucket.org", "t/app"}, "commit", "https://bitbucket.org/t/app/commits/" + sha},
		{Provider{Bitbucket, "bitbucket.org", "t/app"}, "revision", "https://bitbucket.org/t/app/src/" + sha + "/src/app.go"},
		{Provider{AzureDevOps, "dev.azure.com", "o/p/_git/app"}, "branch", "https://dev.azure.com/o/p/_git/app?version=GBmain"},
		{Provider{AzureDevOps, "dev.azure.com", "o/p/_git/app"}, "revision", "https://dev.azure.com/o/p/_git/app?path=/src/app.go&version=GC" + sha},
		{Provider{Gitea, "codeberg.org", "me/app"}, "file", "https://codeberg.org/me/app/src/branch/main/src/app.go"},
		{Provider{Gitea, "codeberg.org", "me/app"}, "revision", "https://codeberg.org/me/app/src/commit/" + sha + "/src/app.go"},
	}
	for _, tc := range tests {
		t.Run(string(tc.provider.Kind)+"/"+tc.resource, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.provider.URL(resources[tc.resource]))
		})
	}
}

func TestResourceNamesAndDescriptions(t *testing.T) {
	tests := []struct {
		res      Resource
		wantName string
		wantDesc string
	}{
		{Resource{Type: ResourceBranch, Branch: "main"}, "Branch", "main"},
		{Resource{Type: ResourceBranches}, "Branches", "Branches"},
		{Resource{Type: ResourceCommit, Sha: "0123456789"}, "Commit", "0123456"},
		{Resource{Type: ResourceFile, File: "a.go"}, "File", "a.go"},
		{Resource{Type: ResourceRepo}, "Repository", "Repository"},
		{Resource{Type: ResourceRevision, File: "a.go", Sha: "0123456789"}, "File", "a.go from 0123456"},
		{Resource{Type: ResourceRevision, File: "a.go", Sha: "0123456789", PreviousSha: "abcdef0123", Deleted: true}, "File", "a.go from abcdef0 (deleted in 0123456)"},
	}
	for _, tc := range tests {
		t.Run(tc.wantDesc, func(t *testing.T) {
			assert.Equal(t, tc.wantName, tc.res.Name())
			assert.Equal(t, tc.wantDesc, tc.res.Description())
		})
	}
}

func TestLabels(t *testing.T) {
	remotes := Recognize([]git.Remote{
		{Name: "origin", URLs: []string{"git@github.com:me/app.git"}},
		{Name: "local", URLs: []string{"/srv/git/app.git"}},
	}, nil)
	require.Len(t, remotes, 1)
	commit := Resource{Type: ResourceCommit, Sha: "abc"}

	assert.Equal(t, "Open Commit on GitHub", OpenLabel(remotes, commit))
	assert.Equal(t, "Copy GitHub Commit Url", CopyLabel(remotes, commit))

	mixed := append(remotes, Remote{Name: "mirror", Provider: &Provider{Kind: GitLab, Domain: "gitlab.com", Path: "me/app"}})
	assert.Equal(t, "Open Commit on GitHub…", OpenLabel(mixed, commit))
	assert.Equal(t, "Copy GitHub Commit Url…", CopyLabel(mixed, commit))

	assert.Equal(t, "Open Repository on Remote…", OpenLabel(nil, Resource{Type: ResourceRepo}))
}

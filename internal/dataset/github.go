package dataset

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

// DefaultRepo is the repository that publishes the dataset.
const DefaultRepo = "washingtonpost/data-police-shootings"

// UpdateSource reports when the dataset last changed.
type UpdateSource interface {
	LastUpdated(ctx context.Context) (time.Time, error)
}

// GitHubCommits reads the committer date of the newest commit in a repo,
// optionally restricted to one path.
type GitHubCommits struct {
	Client *github.Client
	Owner  string
	Repo   string
	Path   string
}

// NewGitHubCommits builds an UpdateSource for repo ("owner/name"). A non-empty
// token authenticates requests, which raises the API rate limit.
func NewGitHubCommits(ctx context.Context, repo, path, token string, timeout time.Duration) (*GitHubCommits, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	} else {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GitHubCommits{
		Client: github.NewClient(httpClient),
		Owner:  owner,
		Repo:   name,
		Path:   path,
	}, nil
}

// LastUpdated returns the committer date of the newest matching commit.
func (g *GitHubCommits) LastUpdated(ctx context.Context) (time.Time, error) {
	opts := &github.CommitsListOptions{
		Path:        g.Path,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, _, err := g.Client.Repositories.ListCommits(ctx, g.Owner, g.Repo, opts)
	if err != nil {
		return time.Time{}, fmt.Errorf("list commits for %s/%s: %w", g.Owner, g.Repo, err)
	}
	if len(commits) == 0 {
		return time.Time{}, fmt.Errorf("no commits found for %s/%s", g.Owner, g.Repo)
	}
	date := commits[0].GetCommit().GetCommitter().GetDate()
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("newest commit of %s/%s has no committer date", g.Owner, g.Repo)
	}
	return date.Time, nil
}

// SplitRepo splits "owner/name".
func SplitRepo(repo string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo %q (want owner/name)", repo)
	}
	return parts[0], parts[1], nil
}

// Package github wraps the code-hosting API operations used by the
// service: repository listing, user resolution and file upserts.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v45/github"
	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
	"golang.org/x/oauth2"
)

// pageSize is the fixed page size for repository listing.
const pageSize = 100

// defaultBranch is used when a file upsert does not name a branch.
const defaultBranch = "main"

// Client handles GitHub API interactions
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub client
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// ListRepositories lists every repository the authenticated user has
// access to. Pages of 100 are requested in order until a page comes back
// empty; the terminating empty page is itself a request, so a listing of
// N full pages plus a partial one costs N+2 calls. Any HTTP error aborts
// the whole listing.
func (c *Client) ListRepositories(ctx context.Context) ([]*github.Repository, error) {
	var allRepos []*github.Repository
	opts := &github.RepositoryListOptions{
		ListOptions: github.ListOptions{
			PerPage: pageSize,
			Page:    1,
		},
	}

	for {
		repos, _, err := c.client.Repositories.List(ctx, "", opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		if len(repos) == 0 {
			break
		}
		allRepos = append(allRepos, repos...)
		opts.Page++
	}

	return allRepos, nil
}

// GetAuthenticatedUser resolves the login of the token's user. It scopes
// repository paths for file upserts.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// GetFileSHA returns the current revision marker of a file. A missing
// file is reported as ok=false with no error; any other failure is
// propagated.
func (c *Client) GetFileSHA(ctx context.Context, owner, repo, path string) (sha string, ok bool, err error) {
	fileContent, _, resp, err := c.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get file contents: %w", err)
	}
	if fileContent == nil {
		// The path resolved to a directory listing; no single revision.
		return "", false, fmt.Errorf("path %s is not a file", path)
	}
	return fileContent.GetSHA(), true, nil
}

// CreateOrUpdateFile upserts a file in one of the authenticated user's
// repositories. The current revision marker is attached only when the
// file already exists, which is what switches the platform between the
// create and update paths. An empty branch defaults to "main".
func (c *Client) CreateOrUpdateFile(ctx context.Context, repo, path string, content []byte, message, branch string) (*github.RepositoryContentResponse, error) {
	if branch == "" {
		branch = defaultBranch
	}

	owner, err := c.GetAuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	sha, exists, err := c.GetFileSHA(ctx, owner, repo, path)
	if err != nil {
		return nil, err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(branch),
	}

	if exists {
		opts.SHA = github.String(sha)
		logging.Info("Updating existing file", "repo", repo, "path", path, "sha", sha)
		result, _, err := c.client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to update file: %w", err)
		}
		return result, nil
	}

	logging.Info("Creating new file", "repo", repo, "path", path)
	result, _, err := c.client.Repositories.CreateFile(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return result, nil
}

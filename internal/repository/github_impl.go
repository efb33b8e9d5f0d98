package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v74/github"
	"github.com/gregjones/httpcache"
	"github.com/sethvargo/go-retry"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/compozy/effortsync/internal/config"
	"github.com/compozy/effortsync/internal/domain"
)

const (
	// FilePageSize is the fixed page size used when listing changed files.
	FilePageSize = 100
	// pageRetryCount bounds transient retries for a single page fetch.
	pageRetryCount = 3
	// pageRetryDelay is the initial delay for exponential backoff.
	pageRetryDelay = 1 * time.Second
)

// githubRepository implements PullRequestRepository and IssueRepository on
// top of the GitHub REST API.
type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewHTTPClient builds the shared HTTP client used by both the REST and
// GraphQL clients, with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (sleeps on secondary rate limits)
//  3. oauth2 (static token authentication)
func NewHTTPClient(token string) (*http.Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(
		cacheTransport,
		github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(token)})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}

// NewGithubRepository creates a REST-backed repository with validation.
func NewGithubRepository(token, owner, repo string) (*githubRepository, error) {
	// Validate token format using the consolidated validator from config package
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	// Validate owner and repo names using the consolidated validator
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	httpClient, err := NewHTTPClient(token)
	if err != nil {
		return nil, err
	}
	return &githubRepository{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewProjectRepository creates a GraphQL-backed project repository sharing
// the same transport stack as the REST client.
func NewProjectRepository(token string) (ProjectRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	httpClient, err := NewHTTPClient(token)
	if err != nil {
		return nil, err
	}
	return &projectRepository{client: githubv4.NewClient(httpClient)}, nil
}

// ListChangedFiles pages through the pull request's file list. Pages are
// fetched sequentially; a short or empty page terminates the loop. Each
// individual page fetch is retried with exponential backoff.
func (r *githubRepository) ListChangedFiles(ctx context.Context, number int) ([]domain.FileChange, error) {
	var all []domain.FileChange
	opts := &github.ListOptions{PerPage: FilePageSize, Page: 1}
	for {
		var page []*github.CommitFile
		strategy := retry.WithMaxRetries(pageRetryCount, retry.NewExponential(pageRetryDelay))
		err := retry.Do(ctx, strategy, func(retryCtx context.Context) error {
			files, _, listErr := r.client.PullRequests.ListFiles(retryCtx, r.owner, r.repo, number, opts)
			if listErr != nil {
				return retry.RetryableError(listErr)
			}
			page = files
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list files for PR #%d (page %d): %w", number, opts.Page, err)
		}
		for _, f := range page {
			all = append(all, domain.FileChange{
				Path:      f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
			})
		}
		if len(page) < FilePageSize {
			break
		}
		opts.Page++
	}
	return all, nil
}

// SearchByTitle runs a repository-scoped issue search and returns the first
// hit, or nil when the search comes back empty.
func (r *githubRepository) SearchByTitle(ctx context.Context, text string) (*domain.Issue, error) {
	query := fmt.Sprintf("repo:%s/%s is:issue in:title %q", r.owner, r.repo, text)
	result, _, err := r.client.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	if len(result.Issues) == 0 {
		return nil, nil
	}
	return issueFromGithub(result.Issues[0]), nil
}

// Create opens a new issue with the given title, body and assignees.
func (r *githubRepository) Create(
	ctx context.Context,
	title, body string,
	assignees []string,
) (*domain.Issue, error) {
	issue, _, err := r.client.Issues.Create(ctx, r.owner, r.repo, &github.IssueRequest{
		Title:     &title,
		Body:      &body,
		Assignees: &assignees,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issueFromGithub(issue), nil
}

// Update rewrites the title and body of an existing issue.
func (r *githubRepository) Update(ctx context.Context, number int, title, body string) (*domain.Issue, error) {
	issue, _, err := r.client.Issues.Edit(ctx, r.owner, r.repo, number, &github.IssueRequest{
		Title: &title,
		Body:  &body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update issue #%d: %w", number, err)
	}
	return issueFromGithub(issue), nil
}

// AddAssignees assigns users to an issue via the issue-assignee API.
func (r *githubRepository) AddAssignees(ctx context.Context, number int, assignees []string) error {
	_, _, err := r.client.Issues.AddAssignees(ctx, r.owner, r.repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees to issue #%d: %w", number, err)
	}
	return nil
}

func issueFromGithub(issue *github.Issue) *domain.Issue {
	return &domain.Issue{
		Number: issue.GetNumber(),
		NodeID: issue.GetNodeID(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		URL:    issue.GetHTMLURL(),
	}
}

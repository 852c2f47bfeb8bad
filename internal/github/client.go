package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/rohankatakam/playlistlog/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// commitsPerPage is the maximum page size of the commits listing
	commitsPerPage = 100

	// DefaultRawBaseURL serves file content at {owner}/{repo}/raw/{sha}/{path}
	DefaultRawBaseURL = "https://github.com/"

	maxContentWorkers = 8
)

// ContentCache memoizes raw file content by commit sha and path
type ContentCache interface {
	Get(sha, path string) (string, bool)
	Put(sha, path, content string) error
}

// Options configures a Client
type Options struct {
	Token      string
	Owner      string
	Name       string
	APIBaseURL string // empty uses api.github.com
	RawBaseURL string // empty uses DefaultRawBaseURL
	RateLimit  int    // API requests per second, <= 0 disables throttling
	Cache      ContentCache
	Logger     *logrus.Logger
}

// Client reads the playlist log repository through the GitHub API
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	owner       string
	name        string
	rawBaseURL  *url.URL
	cache       ContentCache
	logger      *logrus.Logger
}

// NewClient creates a GitHub client for one repository
func NewClient(opts Options) (*Client, error) {
	client := github.NewClient(nil)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.APIBaseURL != "" {
		u, err := url.Parse(withTrailingSlash(opts.APIBaseURL))
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.APIBaseURL, err)
		}
		client.BaseURL = u
	}

	rawBase := opts.RawBaseURL
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	rawBaseURL, err := url.Parse(withTrailingSlash(rawBase))
	if err != nil {
		return nil, fmt.Errorf("invalid raw content URL %q: %w", rawBase, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		client:      client,
		rateLimiter: limiter,
		owner:       opts.Owner,
		name:        opts.Name,
		rawBaseURL:  rawBaseURL,
		cache:       opts.Cache,
		logger:      logger,
	}, nil
}

// ListCommitSHAs returns every commit sha of the repository, oldest first.
//
// The listing is paged newest first until an empty page comes back. A page
// that fails to load is treated as the end of the history, unless ctx was
// cancelled.
func (c *Client) ListCommitSHAs(ctx context.Context) ([]string, error) {
	var shas []string

	for page := 1; ; page++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		opts := &github.CommitsListOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: commitsPerPage},
		}
		commits, resp, err := c.client.Repositories.ListCommits(ctx, c.owner, c.name, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("list commits page %d: %w", page, ctxErr)
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"page":    page,
				"fetched": len(shas),
			}).Warn("Commit listing failed, treating it as the end of history")
			break
		}
		c.logRateLimit(resp)

		// Past the last page the API answers 200 with an empty array
		if len(commits) == 0 {
			break
		}
		for _, commit := range commits {
			shas = append(shas, commit.GetSHA())
		}
	}

	slices.Reverse(shas)
	return shas, nil
}

// FetchCommit returns the commit with its changed files and their content
// before and after the commit. Content that cannot be fetched is left empty.
func (c *Client) FetchCommit(ctx context.Context, sha string) (*models.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	rc, resp, err := c.client.Repositories.GetCommit(ctx, c.owner, c.name, sha, nil)
	if err != nil {
		return nil, errors.NetworkErrorf(err, "fetch commit %s", sha)
	}
	c.logRateLimit(resp)

	commit := &models.Commit{
		SHA:           rc.GetSHA(),
		CommitterName: rc.GetCommit().GetCommitter().GetName(),
		Message:       rc.GetCommit().GetMessage(),
		Datetime:      rc.GetCommit().GetCommitter().GetDate().Time.UTC(),
	}
	if commit.SHA == "" {
		commit.SHA = sha
	}

	// The root commit only seeds the repository
	if len(rc.Parents) == 0 {
		return commit, nil
	}
	parent := rc.Parents[0].GetSHA()

	commit.Files = make([]models.CommitFile, len(rc.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxContentWorkers)

	for i, f := range rc.Files {
		commit.Files[i] = models.CommitFile{
			Filename:         f.GetFilename(),
			DiffType:         models.DiffTypeFromStatus(f.GetStatus()),
			AddedLineCount:   f.GetAdditions(),
			DeletedLineCount: f.GetDeletions(),
		}
		file := &commit.Files[i]

		if file.DiffType != models.DiffTypeAddition {
			g.Go(func() error {
				file.Before = c.fetchContent(gctx, parent, file.Filename)
				return nil
			})
		}
		if file.DiffType != models.DiffTypeDeletion {
			g.Go(func() error {
				file.After = c.fetchContent(gctx, commit.SHA, file.Filename)
				return nil
			})
		}
	}
	g.Wait()

	return commit, nil
}

// fetchContent returns the file content at sha, or "" when it is unavailable
func (c *Client) fetchContent(ctx context.Context, sha, path string) string {
	if c.cache != nil {
		if content, ok := c.cache.Get(sha, path); ok {
			return content
		}
	}

	content, err := c.fetchRawContent(ctx, sha, path)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"sha":  sha,
			"path": path,
		}).Debug("Raw content unavailable, using empty content")
		return ""
	}

	if c.cache != nil && content != "" {
		if err := c.cache.Put(sha, path, content); err != nil {
			c.logger.WithError(err).WithField("path", path).Warn("Failed to cache raw content")
		}
	}
	return content
}

func (c *Client) fetchRawContent(ctx context.Context, sha, path string) (string, error) {
	req, err := c.client.NewRequest(http.MethodGet, c.rawURL(sha, path), nil)
	if err != nil {
		return "", fmt.Errorf("build raw content request: %w", err)
	}

	resp, err := c.client.BareDo(ctx, req)
	if err != nil {
		return "", fmt.Errorf("get raw content: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read raw content: %w", err)
	}
	return string(data), nil
}

func (c *Client) rawURL(sha, path string) string {
	return c.rawBaseURL.JoinPath(c.owner, c.name, "raw", sha, path).String()
}

// logRateLimit warns when the API quota is running low
func (c *Client) logRateLimit(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	if resp.Rate.Remaining < 100 {
		c.logger.WithFields(logrus.Fields{
			"remaining": resp.Rate.Remaining,
			"limit":     resp.Rate.Limit,
			"reset":     resp.Rate.Reset.Time,
		}).Warn("GitHub rate limit low")
	}
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

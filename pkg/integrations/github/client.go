package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gh "github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"

	"github.com/matzehuels/repometa/pkg/buildinfo"
	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/integrations"
	"github.com/matzehuels/repometa/pkg/model"
)

// Default endpoints and settings.
const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
	perPage           = 100
)

// DefaultBranches are tried in order when fetching a document.
var DefaultBranches = []string{"main", "master"}

// Options configures a [Client]. Zero values select the defaults.
type Options struct {
	Token      string        // Bearer token for listing requests (optional)
	APIBaseURL string        // REST API root
	RawBaseURL string        // Raw content root
	Branches   []string      // Branch fallback order
	Timeout    time.Duration // Per-request timeout
	Logger     *log.Logger   // Debug/warn output (optional)
}

// Client fetches raw documentation files and lists organization repositories.
type Client struct {
	raw      *integrations.Client
	api      *gh.Client
	rawBase  string
	branches []string
	logger   *log.Logger
}

// NewClient creates a GitHub client. The token, if any, is only used for
// listing; raw document requests go out without credentials.
func NewClient(opts Options) (*Client, error) {
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(apiBase, "/") {
		apiBase += "/"
	}
	u, err := url.Parse(apiBase)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse api base url")
	}
	if err := errors.ValidateURL(u.String()); err != nil {
		return nil, err
	}

	rawBase := strings.TrimSuffix(opts.RawBaseURL, "/")
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	if err := errors.ValidateURL(rawBase); err != nil {
		return nil, err
	}

	branches := opts.Branches
	if len(branches) == 0 {
		branches = DefaultBranches
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	api := gh.NewClient(apiHTTPClient(opts.Token, opts.Timeout))
	api.BaseURL = u
	api.UserAgent = buildinfo.UserAgent()

	return &Client{
		raw: integrations.NewClient(integrations.NewHTTPClient(opts.Timeout), map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}),
		api:      api,
		rawBase:  rawBase,
		branches: branches,
		logger:   logger,
	}, nil
}

func apiHTTPClient(token string, timeout time.Duration) *http.Client {
	hc := integrations.NewHTTPClient(timeout)
	if token != "" {
		hc.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   http.DefaultTransport,
		}
	}
	return hc
}

// FetchDocument returns the text of filename from the repository's default
// branch. The bool is false when no branch yielded a 200 response.
func (c *Client) FetchDocument(ctx context.Context, owner, name, filename string) (string, bool) {
	if err := errors.ValidateDocumentName(filename); err != nil {
		c.logger.Warn("invalid document name", "repo", owner+"/"+name, "file", filename, "error", err)
		return "", false
	}
	for _, branch := range c.branches {
		u := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, owner, name, branch, filename)
		text, err := c.raw.GetText(ctx, u)
		if err == nil {
			c.logger.Debug("fetched document", "repo", owner+"/"+name, "file", filename, "branch", branch)
			return text, true
		}
		if ctx.Err() != nil {
			c.logger.Warn("fetch canceled", "repo", owner+"/"+name, "file", filename)
			return "", false
		}
		if errors.Is(err, errors.ErrCodeNotFound) {
			c.logger.Debug("document not on branch", "repo", owner+"/"+name, "file", filename, "branch", branch)
			continue
		}
		c.logger.Warn("fetch failed", "repo", owner+"/"+name, "file", filename, "branch", branch, "error", err)
	}
	return "", false
}

// ListOrgRepos lists every repository of org in API order. On a failing
// page it returns the repositories collected so far along with the error.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]model.RepositoryRef, error) {
	if err := errors.ValidateOwner(org); err != nil {
		return nil, err
	}

	var refs []model.RepositoryRef
	page := 1
	for {
		opts := &gh.RepositoryListByOrgOptions{
			ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
		}
		repos, _, err := c.api.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return refs, errors.Wrap(errors.ErrCodeNetwork, err, "list %s repositories (page %d)", org, page)
		}
		if len(repos) == 0 {
			break // No more pages
		}
		for _, r := range repos {
			owner := r.GetOwner().GetLogin()
			if owner == "" {
				owner = org
			}
			refs = append(refs, model.RepositoryRef{
				Owner:    owner,
				Name:     r.GetName(),
				Archived: r.GetArchived(),
			})
		}
		c.logger.Debug("listed page", "org", org, "page", page, "repos", len(repos))
		page++
	}
	return refs, nil
}

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/thomas-vilte/forkdiff/internal/cache"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/logger"
	"github.com/thomas-vilte/forkdiff/internal/metrics"
	"github.com/thomas-vilte/forkdiff/internal/models"
	"github.com/thomas-vilte/forkdiff/internal/ratelimit"
	"github.com/thomas-vilte/forkdiff/internal/vcs"
	"github.com/thomas-vilte/forkdiff/internal/version"
	"golang.org/x/oauth2"
)

var _ vcs.ForkSource = (*GitHubClient)(nil)

const (
	endpointRepository = "repository"
	endpointForks      = "forks"
	endpointCompare    = "compare"
	endpointRateLimit  = "rate_limit"

	// requestTimeout bounds every request, including the ones that run
	// detached from the caller's cancellation.
	requestTimeout = 30 * time.Second
)

// GitHubClient performs authenticated, cache-aware GET requests against the
// GitHub REST API and projects every response down to the fields forkdiff uses.
type GitHubClient struct {
	client   *github.Client
	cache    *cache.ResponseCache
	rate     *ratelimit.Tracker
	recorder metrics.Recorder
}

type Option func(*GitHubClient) error

// WithCache sets the response cache used for conditional requests.
func WithCache(c *cache.ResponseCache) Option {
	return func(ghc *GitHubClient) error {
		if c != nil {
			ghc.cache = c
		}
		return nil
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(ghc *GitHubClient) error {
		if r != nil {
			ghc.recorder = r
		}
		return nil
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a test server).
func WithBaseURL(raw string) Option {
	return func(ghc *GitHubClient) error {
		if raw == "" {
			return nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return domainErrors.ErrConfigInvalid.
				WithError(err).
				WithContext("api_base_url", raw)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		ghc.client.BaseURL = u
		return nil
	}
}

// NewGitHubClient builds a client. An empty token issues anonymous requests.
func NewGitHubClient(token string, opts ...Option) (*GitHubClient, error) {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = requestTimeout

	ghc := &GitHubClient{
		client:   github.NewClient(httpClient),
		recorder: metrics.NoopRecorder{},
	}
	ghc.client.UserAgent = "forkdiff/" + version.FullVersion()
	for _, opt := range opts {
		if err := opt(ghc); err != nil {
			return nil, err
		}
	}
	if ghc.cache == nil {
		ghc.cache = cache.New(nil, cache.WithRecorder(ghc.recorder))
	}
	ghc.rate = ratelimit.NewTracker(ghc.fetchRateLimit, ghc.recorder)

	return ghc, nil
}

// GetRepository returns the projected repository or nil when GitHub answers 404.
func (ghc *GitHubClient) GetRepository(ctx context.Context, ref models.RepositoryRef) (*models.ForkRecord, error) {
	path := fmt.Sprintf("repos/%s/%s", ref.Owner, ref.Name)
	return fetch(ctx, ghc, endpointRepository, path, projectRepository)
}

// ListForks returns one page of forks sorted newest first. A missing
// collection yields an empty page.
func (ghc *GitHubClient) ListForks(ctx context.Context, ref models.RepositoryRef, page, perPage int) ([]models.ForkRecord, error) {
	path := fmt.Sprintf("repos/%s/%s/forks?sort=newest&per_page=%d&page=%d", ref.Owner, ref.Name, perPage, page)
	forks, err := fetch(ctx, ghc, endpointForks, path, projectForks)
	if err != nil || forks == nil {
		return nil, err
	}
	return *forks, nil
}

// CompareBranches lists the commits in head that base lacks. Both refs may be
// cross-repository ("owner:branch").
func (ghc *GitHubClient) CompareBranches(ctx context.Context, ref models.RepositoryRef, base, head string) (*models.Comparison, error) {
	path := fmt.Sprintf("repos/%s/%s/compare/%s...%s", ref.Owner, ref.Name, url.PathEscape(base), url.PathEscape(head))
	return fetch(ctx, ghc, endpointCompare, path, projectComparison)
}

// RefreshRateLimit queries the quota endpoint. It bypasses the response cache.
func (ghc *GitHubClient) RefreshRateLimit(ctx context.Context) error {
	return ghc.rate.Refresh(ctx)
}

func (ghc *GitHubClient) Quota() models.QuotaSnapshot {
	return ghc.rate.Snapshot()
}

func (ghc *GitHubClient) fetchRateLimit(ctx context.Context) (github.Rate, error) {
	limits, resp, err := ghc.client.RateLimit.Get(ctx)
	if err != nil {
		ghc.recorder.IncRequest(endpointRateLimit, metrics.RequestError)
		return github.Rate{}, classify(err, resp, endpointRateLimit)
	}
	ghc.recorder.IncRequest(endpointRateLimit, metrics.RequestSuccess)

	if core := limits.GetCore(); core != nil {
		return *core, nil
	}
	if resp != nil {
		return resp.Rate, nil
	}
	return github.Rate{}, nil
}

// fetch performs a conditional GET of path. The decoded body of type T is
// projected into P, cached with its ETag and returned. A "not modified" reply
// returns the cached projection as stored, and a 404 yields (nil, nil).
func fetch[T, P any](ctx context.Context, ghc *GitHubClient, endpoint, path string, project func(*T) P) (*P, error) {
	log := logger.FromContext(ctx)

	req, err := ghc.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, domainErrors.ErrAPIRequest.
			WithError(err).
			WithContext("endpoint", endpoint)
	}
	key := req.URL.String()

	var cached *P
	entry, ok := ghc.cache.Peek(key)
	if ok {
		var payload P
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			log.Debug("ignoring undecodable cache entry",
				"url", key,
				"error", domainErrors.ErrCacheCorrupted.WithError(err))
		} else {
			cached = &payload
		}
	}

	if cached != nil {
		if ghc.cache.IsFresh(entry) {
			ghc.cache.RecordHit(true)
			log.Debug("serving fresh cache entry", "url", key)
			return cached, nil
		}
		if entry.ETag != "" {
			req.Header.Set("If-None-Match", entry.ETag)
		}
	}

	var body T
	resp, err := ghc.client.Do(ctx, req, &body)
	if resp != nil {
		ghc.rate.Update(resp.Rate)
	}

	if resp != nil && resp.StatusCode == http.StatusNotModified && cached != nil {
		ghc.cache.RecordHit(false)
		ghc.recorder.IncRequest(endpoint, metrics.RequestNotModified)
		log.Debug("cache entry revalidated", "url", key)
		return cached, nil
	}

	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			ghc.recorder.IncRequest(endpoint, metrics.RequestNotFound)
			log.Debug("resource not found", "url", key)
			return nil, nil
		}
		appErr := classify(err, resp, endpoint)
		if domainErrors.IsRateLimit(appErr) {
			ghc.recorder.IncRequest(endpoint, metrics.RequestRateLimited)
		} else {
			ghc.recorder.IncRequest(endpoint, metrics.RequestError)
		}
		return nil, appErr
	}

	projected := project(&body)
	payload, err := json.Marshal(projected)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to encode projected payload", err)
	}
	ghc.cache.Put(key, payload, resp.Header.Get("ETag"))
	ghc.cache.RecordMiss()
	ghc.recorder.IncRequest(endpoint, metrics.RequestSuccess)

	return &projected, nil
}

// classify maps a transport or status error onto the domain sentinels.
func classify(err error, resp *github.Response, endpoint string) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("endpoint", endpoint)
	}

	if resp == nil {
		return domainErrors.ErrAPIRequest.
			WithError(err).
			WithContext("endpoint", endpoint)
	}

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("retry_after", resp.Header.Get("Retry-After"))
	case http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.
			WithError(err).
			WithContext("endpoint", endpoint)
	default:
		return domainErrors.ErrAPIRequest.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("status_code", resp.StatusCode).
			WithContext("status", resp.Status)
	}
}

func projectRepository(repo *github.Repository) models.ForkRecord {
	return models.ForkRecord{
		FullName:        repo.GetFullName(),
		Name:            repo.GetName(),
		DefaultBranch:   repo.GetDefaultBranch(),
		StargazersCount: repo.GetStargazersCount(),
		Forks:           repo.GetForksCount(),
		OpenIssuesCount: repo.GetOpenIssuesCount(),
		Size:            repo.GetSize(),
		PushedAt:        repo.GetPushedAt().Time,
		Owner:           models.Owner{Login: repo.GetOwner().GetLogin()},
	}
}

func projectForks(repos *[]*github.Repository) []models.ForkRecord {
	forks := make([]models.ForkRecord, 0, len(*repos))
	for _, repo := range *repos {
		if repo == nil {
			continue
		}
		record := projectRepository(repo)
		if !record.IsValid() {
			continue
		}
		forks = append(forks, record)
	}
	return forks
}

func projectComparison(cmp *github.CommitsComparison) models.Comparison {
	commits := make([]models.CommitSummary, 0, len(cmp.Commits))
	for _, c := range cmp.Commits {
		if c == nil {
			continue
		}
		sha := c.GetSHA()
		if len(sha) > 7 {
			sha = sha[:7]
		}
		commits = append(commits, models.CommitSummary{
			SHA:         sha,
			Date:        c.GetCommit().GetAuthor().GetDate().Time,
			Message:     c.GetCommit().GetMessage(),
			AuthorLogin: c.GetAuthor().GetLogin(),
		})
	}
	return models.Comparison{Commits: commits}
}

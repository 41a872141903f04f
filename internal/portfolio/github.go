// Package portfolio fetches a candidate's public repository data from the
// GitHub REST API and shapes it into the portfolio types consumed by the
// ranker.
package portfolio

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"llmployable/internal/config"
	"llmployable/internal/errors"
	"llmployable/internal/types"
)

const (
	// repoFetchCount is how many most-recently-updated repositories are
	// considered per profile
	repoFetchCount = 20
	// topProjectCount is how many repositories make the top-projects list
	topProjectCount = 5
)

// Source fetches developer profiles from a portfolio host
type Source interface {
	FetchProfile(ctx context.Context, username string) (types.DeveloperProfile, error)
}

// GitHubClient implements Source against the GitHub REST API. Requests go
// through a client-side rate limiter and a circuit breaker; transient HTTP
// failures are retried with backoff.
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[types.DeveloperProfile]
	logger     *errors.Logger
}

// Ensure GitHubClient implements Source
var _ Source = (*GitHubClient)(nil)

// NewGitHubClient builds a client from configuration. The HTTP transport is
// instrumented with OpenTelemetry.
func NewGitHubClient(cfg *config.GitHubConfig, logger *errors.Logger) *GitHubClient {
	limit := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	if cfg.RequestsPerMinute <= 0 {
		limit = rate.Inf
	}

	client := &GitHubClient{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(limit, cfg.RequestBurst),
		logger:     logger,
	}
	client.breaker = newProfileBreaker(&cfg.CircuitBreaker, logger)
	return client
}

// newProfileBreaker creates the circuit breaker around profile fetches.
// Returns nil when disabled.
func newProfileBreaker(cfg *config.CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[types.DeveloperProfile] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "GitHub-Profile",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[types.DeveloperProfile](settings)
}

// githubUser mirrors the fields we read from GET /users/{username}.
// Missing fields decode to their zero values.
type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Email       string `json:"email"`
	Blog        string `json:"blog"`
	Company     string `json:"company"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// githubRepo mirrors the fields we read from GET /users/{username}/repos
type githubRepo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	HTMLURL     string   `json:"html_url"`
	Topics      []string `json:"topics"`
	Fork        bool     `json:"fork"`
}

// FetchProfile fetches a developer's profile and most recently updated
// repositories, excluding forks, and derives language counts and top
// projects
func (c *GitHubClient) FetchProfile(ctx context.Context, username string) (types.DeveloperProfile, error) {
	if c.breaker == nil {
		return c.fetchProfile(ctx, username)
	}
	return c.breaker.Execute(func() (types.DeveloperProfile, error) {
		return c.fetchProfile(ctx, username)
	})
}

func (c *GitHubClient) fetchProfile(ctx context.Context, username string) (types.DeveloperProfile, error) {
	var user githubUser
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.baseURL, username), &user); err != nil {
		return types.DeveloperProfile{}, err
	}

	var repos []githubRepo
	reposURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&direction=desc&per_page=%d",
		c.baseURL, username, repoFetchCount)
	if err := c.getJSON(ctx, reposURL, &repos); err != nil {
		return types.DeveloperProfile{}, err
	}

	profile := types.DeveloperProfile{
		Username:    username,
		Name:        user.Name,
		Bio:         user.Bio,
		Location:    user.Location,
		Email:       user.Email,
		Blog:        user.Blog,
		Company:     user.Company,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
	}
	if profile.Name == "" {
		profile.Name = username
	}

	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		profile.Repositories = append(profile.Repositories, types.PortfolioItem{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Topics:      repo.Topics,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			URL:         repo.HTMLURL,
		})
	}

	profile.Languages = aggregateLanguages(profile.Repositories)
	profile.TopProjects = topProjects(profile.Repositories, topProjectCount)

	return profile, nil
}

// getJSON performs a rate-limited GET with retry and decodes the response
// body into out
func (c *GitHubClient) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"rate limiter wait aborted", err)
	}

	body, err := c.getWithRetry(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"failed to decode GitHub response", err).WithContext("url", url)
	}
	return nil
}

// getWithRetry retries transient failures with exponential backoff
func (c *GitHubClient) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying GitHub request",
				"url", url,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", lastErr.Error())

			backoff := min(time.Duration(1<<(attempt-1))*time.Second, 10*time.Second)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// get performs a single request. The second return value reports whether
// the failure is worth retrying.
func (c *GitHubClient) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"failed to build GitHub request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// network-level failures are retryable; timeouts get their own code
		var netErr net.Error
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			return nil, true, errors.NewNetworkError(errors.ErrCodeNetworkTimeout,
				"GitHub request timed out", err).WithContext("url", url)
		}
		return nil, true, errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"GitHub request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"failed to read GitHub response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, errors.NewPortfolioError(errors.ErrCodeGitHubNotFound,
			"GitHub user not found", nil).WithContext("url", url)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, errors.NewPortfolioError(errors.ErrCodeGitHubRateLimited,
			"GitHub rate limit exceeded", nil).WithContext("status", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"GitHub server error", nil).WithContext("status", resp.StatusCode)
	default:
		return nil, false, errors.NewPortfolioError(errors.ErrCodeGitHubUnavailable,
			"unexpected GitHub response", nil).WithContext("status", resp.StatusCode)
	}
}

// aggregateLanguages counts repositories per primary language, most used
// first
func aggregateLanguages(repos []types.PortfolioItem) []types.LanguageCount {
	counts := make(map[string]int)
	var order []string
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		if _, seen := counts[repo.Language]; !seen {
			order = append(order, repo.Language)
		}
		counts[repo.Language]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	result := make([]types.LanguageCount, 0, len(order))
	for _, lang := range order {
		result = append(result, types.LanguageCount{Language: lang, Count: counts[lang]})
	}
	return result
}

// topProjects returns the n most starred repositories without reordering
// the input slice
func topProjects(repos []types.PortfolioItem, n int) []types.PortfolioItem {
	sorted := append([]types.PortfolioItem(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stars > sorted[j].Stars
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BreakerStats reports the state of the profile circuit breaker
func (c *GitHubClient) BreakerStats() map[string]any {
	if c.breaker == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    c.breaker.Name(),
		"state":   c.breaker.State().String(),
		"counts":  c.breaker.Counts(),
		"enabled": true,
	}
}

// Package github wraps the GitHub repository search API for the AURA
// backend. Top results get a per-repository detail fetch and a heuristic
// quality score; the rest get lightweight formatting, because the detail
// fetch is the expensive N+1 call.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aura/internal/logger"
)

const defaultBaseURL = "https://api.github.com"

// detailLimit is how many top-ranked results receive the detail fetch and
// quality analysis.
const detailLimit = 5

const maxPerPage = 30

// transportErrMessage is returned as the only element of the result slice
// when the search call itself fails. Callers present results verbatim, so a
// failed search reads as a normal (single) result.
const transportErrMessage = "**GitHub API Error**: Could not fetch repositories. Please try again later."

// Searcher queries the GitHub search API. A zero token is valid and uses the
// unauthenticated rate limit.
type Searcher struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewSearcher creates a searcher against api.github.com.
func NewSearcher(token string) *Searcher {
	return &Searcher{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewSearcherWithBaseURL creates a searcher against a custom endpoint.
// Used by tests.
func NewSearcherWithBaseURL(token, baseURL string) *Searcher {
	s := NewSearcher(token)
	s.baseURL = baseURL
	return s
}

// searchItem is the subset of the search payload the formatter needs.
type searchItem struct {
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
	Description     string `json:"description"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

// RepoDetails is the per-repository detail record used for quality analysis.
type RepoDetails struct {
	Name        string
	FullName    string
	Description string
	Stars       int
	Forks       int
	Language    string
	Languages   map[string]int
	UpdatedAt   string
	License     string
	Topics      []string
	HasWiki     bool
}

// Search queries repositories matching query, sorted by sortBy ("stars",
// "forks" or "updated"; empty means stars) descending, filtered to
// repositories with more than ten stars. An empty query yields an empty
// slice. Transport failures yield a single-element slice holding a
// user-facing error string rather than an error.
func (s *Searcher) Search(ctx context.Context, query string, limit int, sortBy string) []string {
	if query == "" {
		return []string{}
	}
	if sortBy == "" {
		sortBy = "stars"
	}
	perPage := limit
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	logger.Info("Searching GitHub", "query", query, "limit", limit, "sort", sortBy)

	params := url.Values{}
	params.Set("q", query+" stars:>10")
	params.Set("sort", sortBy)
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(perPage))

	var response searchResponse
	if err := s.getJSON(ctx, "/search/repositories?"+params.Encode(), &response); err != nil {
		logger.Error("GitHub search failed", "query", query, "error", err)
		return []string{transportErrMessage}
	}

	items := response.Items
	if len(items) > limit {
		items = items[:limit]
	}

	formatted := make([]string, 0, len(items))
	for i, item := range items {
		rank := i + 1
		if rank <= detailLimit {
			details := s.repositoryDetails(ctx, item.FullName)
			quality := analyzeQuality(details)
			formatted = append(formatted, formatRepositoryWithAnalysis(item, details, quality, rank))
		} else {
			formatted = append(formatted, formatRepositoryBasic(item, rank))
		}
	}
	return formatted
}

// repositoryDetails fetches detail and language-breakdown records for one
// repository. Failures degrade to an empty record; the formatter falls back
// to the search-item fields.
func (s *Searcher) repositoryDetails(ctx context.Context, fullName string) RepoDetails {
	logger.Debug("Fetching repository details", "repo", fullName)

	var payload struct {
		Name        string `json:"name"`
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		Language    string `json:"language"`
		UpdatedAt   string `json:"updated_at"`
		License     *struct {
			Name string `json:"name"`
		} `json:"license"`
		Topics  []string `json:"topics"`
		HasWiki bool     `json:"has_wiki"`
	}
	if err := s.getJSON(ctx, "/repos/"+fullName, &payload); err != nil {
		logger.Warn("Repository detail fetch failed", "repo", fullName, "error", err)
		return RepoDetails{}
	}

	details := RepoDetails{
		Name:        payload.Name,
		FullName:    payload.FullName,
		Description: payload.Description,
		Stars:       payload.Stars,
		Forks:       payload.Forks,
		Language:    payload.Language,
		UpdatedAt:   payload.UpdatedAt,
		Topics:      payload.Topics,
		HasWiki:     payload.HasWiki,
	}
	if payload.License != nil {
		details.License = payload.License.Name
	}

	var languages map[string]int
	if err := s.getJSON(ctx, "/repos/"+fullName+"/languages", &languages); err == nil {
		details.Languages = languages
	}

	return details
}

// getJSON performs an authenticated GET against the API and decodes the body.
func (s *Searcher) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "token "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

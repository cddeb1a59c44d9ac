package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/learnmate/learnmate/internal/model"
)

// GitHub searches the GitHub REST API for learning repositories.
// A token raises the rate limit but is optional.
type GitHub struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewGitHub creates a GitHub provider. An empty token is allowed.
func NewGitHub(token string) *GitHub {
	return &GitHub{
		token:   token,
		baseURL: "https://api.github.com",
		client:  newHTTPClient(),
	}
}

// Search returns up to maxResults repositories for the query sorted by
// stars. Any failure degrades to the curated fallback set.
func (g *GitHub) Search(ctx context.Context, query string, maxResults int) []model.Repo {
	if maxResults > 10 {
		maxResults = 10
	}

	// Star threshold filters out empty tutorial stubs.
	params := url.Values{}
	params.Set("q", query+" in:name,description,readme stars:>10")
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return fallbackRepos(query)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "learnmate")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Warn("github search failed", "error", err)
		return fallbackRepos(query)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("github search failed", "status", resp.StatusCode)
		return fallbackRepos(query)
	}

	var payload struct {
		Items []struct {
			Name            string `json:"name"`
			FullName        string `json:"full_name"`
			HTMLURL         string `json:"html_url"`
			Description     string `json:"description"`
			StargazersCount int    `json:"stargazers_count"`
			Language        string `json:"language"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("github response parse failed", "error", err)
		return fallbackRepos(query)
	}

	var repos []model.Repo
	for _, item := range payload.Items {
		desc := item.Description
		if desc == "" {
			desc = "No description"
		} else if len(desc) > 200 {
			desc = desc[:200]
		}
		repos = append(repos, model.Repo{
			Name:        item.Name,
			FullName:    item.FullName,
			URL:         item.HTMLURL,
			Description: desc,
			Stars:       item.StargazersCount,
			Language:    item.Language,
		})
	}
	if len(repos) == 0 {
		return fallbackRepos(query)
	}
	return repos
}

func fallbackRepos(query string) []model.Repo {
	lower := strings.ToLower(query)
	for keyword, repos := range curatedRepos {
		if strings.Contains(lower, keyword) {
			return repos
		}
	}
	return []model.Repo{{
		Name:        "GitHub search",
		FullName:    "search",
		URL:         "https://github.com/search?q=" + url.QueryEscape(query),
		Description: "Search GitHub for repositories about " + query,
	}}
}

// Package content looks up external learning resources: tutorial videos,
// reference summaries, and code repositories. Every provider degrades to a
// curated fallback on failure; nothing in this package returns an error to
// its caller.
package content

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnmate/learnmate/internal/model"
)

const providerTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: providerTimeout}
}

// Request names which resource categories a lookup should cover.
type Request struct {
	Videos  bool
	Summary bool
	Repos   bool
	Query   string
}

// categoryTriggers maps resource categories to the words that request them.
// Plain data so the detection logic can be tested against the table directly.
var categoryTriggers = map[string][]string{
	"videos":  {"youtube", "video", "videos", "watch"},
	"summary": {"wikipedia", "wiki", "summary", "what is", "explain"},
	"repos":   {"github", "repo", "repos", "repository", "code", "project"},
}

// DetectRequest infers the requested categories from the user's message.
// A message naming no category, or saying "resources", requests all three.
func DetectRequest(message, query string) Request {
	lower := strings.ToLower(message)
	req := Request{Query: query}
	for _, w := range categoryTriggers["videos"] {
		if strings.Contains(lower, w) {
			req.Videos = true
		}
	}
	for _, w := range categoryTriggers["summary"] {
		if strings.Contains(lower, w) {
			req.Summary = true
		}
	}
	for _, w := range categoryTriggers["repos"] {
		if strings.Contains(lower, w) {
			req.Repos = true
		}
	}
	if strings.Contains(lower, "resources") || (!req.Videos && !req.Summary && !req.Repos) {
		req.Videos, req.Summary, req.Repos = true, true, true
	}
	return req
}

// wikiDisambig maps ambiguous short tech terms to unambiguous article titles.
var wikiDisambig = map[string]string{
	"python":     "Python (programming language)",
	"java":       "Java (programming language)",
	"rust":       "Rust (programming language)",
	"go":         "Go (programming language)",
	"ruby":       "Ruby (programming language)",
	"swift":      "Swift (programming language)",
	"docker":     "Docker (software)",
	"kubernetes": "Kubernetes",
	"react":      "React (software)",
	"node":       "Node.js",
	"angular":    "Angular (web framework)",
	"vue":        "Vue.js",
}

// WikiQuery resolves the article title to look up for a search query.
func WikiQuery(query string) string {
	if title, ok := wikiDisambig[strings.ToLower(strings.TrimSpace(query))]; ok {
		return title
	}
	return query
}

// Aggregator fans a lookup out across the three providers.
type Aggregator struct {
	videos     *YouTube
	summaries  *Wikipedia
	repos      *GitHub
	maxResults int
}

// NewAggregator builds an aggregator over the given providers.
func NewAggregator(yt *YouTube, wiki *Wikipedia, gh *GitHub, maxResults int) *Aggregator {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Aggregator{videos: yt, summaries: wiki, repos: gh, maxResults: maxResults}
}

// Fetch queries the requested providers concurrently and joins the results.
// Provider failures are isolated: each provider falls back on its own, so a
// slow or broken API never empties the other categories.
func (a *Aggregator) Fetch(ctx context.Context, req Request) model.ContentBundle {
	var bundle model.ContentBundle
	g, ctx := errgroup.WithContext(ctx)

	if req.Videos {
		g.Go(func() error {
			bundle.Videos = a.videos.Search(ctx, req.Query+" tutorial", a.maxResults)
			return nil
		})
	}
	if req.Summary {
		g.Go(func() error {
			bundle.Summary = a.summaries.Summary(ctx, WikiQuery(req.Query))
			return nil
		})
	}
	if req.Repos {
		g.Go(func() error {
			bundle.Repos = a.repos.Search(ctx, req.Query+" tutorial", a.maxResults)
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; Wait is just the join
	return bundle
}

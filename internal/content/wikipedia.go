package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/learnmate/learnmate/internal/model"
)

const wikiUserAgent = "learnmate/1.0 (learning assistant)"

// Wikipedia fetches article summaries from the free Wikipedia REST API.
type Wikipedia struct {
	baseURL string
	client  *http.Client
}

// NewWikipedia creates a Wikipedia provider. No credentials are needed.
func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		baseURL: "https://en.wikipedia.org",
		client:  newHTTPClient(),
	}
}

// Summary returns the summary of the article matching topic. A missing
// article triggers one search round trip for the closest title; any failure
// degrades to a stub summary pointing at Wikipedia.
func (w *Wikipedia) Summary(ctx context.Context, topic string) model.Summary {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fallbackSummary("programming")
	}

	sum, status := w.fetchSummary(ctx, topic)
	if status == http.StatusNotFound {
		if title := w.searchTitle(ctx, topic); title != "" && title != topic {
			sum, status = w.fetchSummary(ctx, title)
		}
	}
	if status != http.StatusOK {
		return fallbackSummary(topic)
	}
	return sum
}

func (w *Wikipedia) fetchSummary(ctx context.Context, title string) (model.Summary, int) {
	path := "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+path, nil)
	if err != nil {
		return model.Summary{}, 0
	}
	req.Header.Set("User-Agent", wikiUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		slog.Warn("wikipedia summary failed", "title", title, "error", err)
		return model.Summary{}, 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Summary{}, resp.StatusCode
	}

	var payload struct {
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("wikipedia response parse failed", "error", err)
		return model.Summary{}, 0
	}
	return model.Summary{
		Title:   payload.Title,
		Extract: payload.Extract,
		URL:     payload.ContentURLs.Desktop.Page,
	}, http.StatusOK
}

// searchTitle returns the top search hit for a query, or "".
func (w *Wikipedia) searchTitle(ctx context.Context, query string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", "1")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", wikiUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		slog.Warn("wikipedia search failed", "query", query, "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Query.Search) == 0 {
		return ""
	}
	return payload.Query.Search[0].Title
}

func fallbackSummary(topic string) model.Summary {
	return model.Summary{
		Title:   topic,
		Extract: "Learn about " + topic + " - a concept worth exploring in depth.",
		URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(topic, " ", "_")),
	}
}

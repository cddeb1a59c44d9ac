package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/learnmate/learnmate/internal/model"
)

// YouTube searches the YouTube Data API v3 for tutorial videos.
// Without an API key it serves curated fallbacks only.
type YouTube struct {
	key     string
	baseURL string
	client  *http.Client
}

// NewYouTube creates a YouTube provider. An empty key is allowed.
func NewYouTube(apiKey string) *YouTube {
	return &YouTube{
		key:     apiKey,
		baseURL: "https://www.googleapis.com/youtube/v3",
		client:  newHTTPClient(),
	}
}

// Search returns up to maxResults videos for the query. It never fails:
// missing key, network errors and bad responses all degrade to fallbacks.
func (y *YouTube) Search(ctx context.Context, query string, maxResults int) []model.Video {
	if y.key == "" {
		return fallbackVideos(query)
	}
	if maxResults > 10 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", "relevance")
	params.Set("key", y.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		slog.Warn("youtube request build failed", "error", err)
		return fallbackVideos(query)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		slog.Warn("youtube search failed", "error", err)
		return fallbackVideos(query)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("youtube search failed", "status", resp.StatusCode)
		return fallbackVideos(query)
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Description  string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("youtube response parse failed", "error", err)
		return fallbackVideos(query)
	}

	var videos []model.Video
	for _, item := range payload.Items {
		desc := item.Snippet.Description
		if len(desc) > 200 {
			desc = desc[:200]
		}
		videos = append(videos, model.Video{
			Title:       item.Snippet.Title,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Channel:     item.Snippet.ChannelTitle,
			Description: desc,
		})
	}
	if len(videos) == 0 {
		return fallbackVideos(query)
	}
	return videos
}

func fallbackVideos(query string) []model.Video {
	lower := strings.ToLower(query)
	for keyword, videos := range curatedVideos {
		if strings.Contains(lower, keyword) {
			return videos
		}
	}
	search := url.QueryEscape(query)
	return []model.Video{{
		Title:       fmt.Sprintf("Search YouTube for: %s", query),
		URL:         "https://www.youtube.com/results?search_query=" + search,
		Channel:     "YouTube Search",
		Description: "Click to search for tutorials on YouTube",
	}}
}

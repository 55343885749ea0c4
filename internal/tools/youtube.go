package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"

// Video is one YouTube search hit.
type Video struct {
	Title        string
	ChannelTitle string
	PublishedAt  string
	VideoID      string
	Description  string
	ThumbnailURL string
}

// YouTubeClient searches the YouTube Data API v3.
type YouTubeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTube creates a search client. An empty API key yields an
// unconfigured client; callers check Configured and fall back to
// canned answers.
func NewYouTube(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:     apiKey,
		baseURL:    youtubeSearchURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether an API key is set.
func (c *YouTubeClient) Configured() bool { return c.apiKey != "" }

// Search returns up to maxResults relevance-ordered videos for a query.
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{
		"part":       {"snippet"},
		"q":          {query},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(maxResults)},
		"order":      {"relevance"},
		"safeSearch": {"strict"},
		"key":        {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search: HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
				Description  string `json:"description"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	videos := make([]Video, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		videos = append(videos, Video{
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			VideoID:      item.ID.VideoID,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}
	slog.Debug("youtube search", "query", query, "results", len(videos))
	return videos, nil
}

// queryEnhancements maps topic keywords to expanded search phrases that
// surface better instructional results.
var queryEnhancements = []struct {
	keyword  string
	expanded string
}{
	{"ultramarathon", "ultramarathon beginner guide training tips"},
	{"strength training", "strength training beginner guide"},
	{"running", "running training tips guide"},
	{"meditation", "meditation for beginners guide"},
	{"nutrition", "healthy nutrition guide tips"},
	{"workout", "workout routine guide fitness"},
	{"stretching", "stretching routine guide flexibility"},
	{"sleep", "better sleep tips guide"},
	{"productivity", "productivity tips guide habits"},
	{"mindfulness", "mindfulness meditation guide"},
}

// EnhanceQuery rewrites a raw topic into a search query that favors
// guides and tutorials. Unrecognized topics get "guide tutorial"
// appended unless they already carry such a keyword.
func EnhanceQuery(topic string) string {
	lower := strings.ToLower(topic)
	for _, e := range queryEnhancements {
		if strings.Contains(lower, e.keyword) {
			slog.Debug("enhanced search query", "from", topic, "to", e.expanded)
			return e.expanded
		}
	}
	if !strings.Contains(lower, "guide") && !strings.Contains(lower, "tutorial") && !strings.Contains(lower, "tips") {
		return topic + " guide tutorial"
	}
	return topic
}

// FormatVideoResult renders the top hit as a chat reply.
func FormatVideoResult(v Video, originalQuery string) string {
	publishDate := v.PublishedAt
	if t, err := time.Parse(time.RFC3339, v.PublishedAt); err == nil {
		publishDate = t.Format("1/2/2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎥 Found a great video about %q:\n\n", originalQuery)
	fmt.Fprintf(&b, "**%s**\n", v.Title)
	fmt.Fprintf(&b, "📺 Channel: %s\n", v.ChannelTitle)
	fmt.Fprintf(&b, "📅 Published: %s\n", publishDate)
	fmt.Fprintf(&b, "🔗 https://www.youtube.com/watch?v=%s\n\n", v.VideoID)
	b.WriteString("Happy learning! 🚀")
	return b.String()
}

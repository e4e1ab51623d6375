package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

const gnewsBaseURL = "https://gnews.io/api/v4/search"

// GNewsAdapter is the secondary keyed provider (gnews.io).
type GNewsAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGNewsAdapter(apiKey string) *GNewsAdapter {
	return &GNewsAdapter{
		apiKey:  apiKey,
		baseURL: gnewsBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *GNewsAdapter) Name() string { return "gnews" }

type gnewsResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (a *GNewsAdapter) Fetch(ctx context.Context, topic news.Topic, date string) ([]news.Article, error) {
	params := url.Values{
		"apikey": {a.apiKey},
		"q":      {strings.ToLower(string(topic))},
		"lang":   {"en"},
		"max":    {"20"},
		"from":   {date + "T00:00:00Z"},
		"to":     {date + "T23:59:59Z"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building gnews request: %v", ErrUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gnews: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gnews status %d", ErrUnavailable, resp.StatusCode)
	}

	var gr gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%w: decoding gnews response: %v", ErrUnavailable, err)
	}

	articles := make([]news.Article, 0, len(gr.Articles))
	for _, item := range gr.Articles {
		if item.Title == "" || item.Description == "" {
			continue
		}
		src := item.Source.Name
		if src == "" {
			src = "GNews"
		}
		articles = append(articles, news.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      src,
			PublishedAt: item.PublishedAt,
		})
	}
	return articles, nil
}

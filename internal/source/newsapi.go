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

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIAdapter is the primary keyed provider (newsapi.org).
type NewsAPIAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewNewsAPIAdapter(apiKey string) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *NewsAPIAdapter) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (a *NewsAPIAdapter) Fetch(ctx context.Context, topic news.Topic, date string) ([]news.Article, error) {
	params := url.Values{
		"apiKey":   {a.apiKey},
		"q":        {strings.ToLower(string(topic))},
		"from":     {date},
		"to":       {date},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {"20"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building newsapi request: %v", ErrUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: newsapi: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: newsapi status %d", ErrUnavailable, resp.StatusCode)
	}

	var nr newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("%w: decoding newsapi response: %v", ErrUnavailable, err)
	}

	articles := make([]news.Article, 0, len(nr.Articles))
	for _, item := range nr.Articles {
		// Provider sends tombstoned entries with no usable content.
		if item.Title == "" || item.Description == "" {
			continue
		}
		src := item.Source.Name
		if src == "" {
			src = "NewsAPI"
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

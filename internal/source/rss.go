package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

const maxItemsPerFeed = 10

// RSSAdapter reads public feeds per topic. It needs no credential and is
// the lowest-priority source.
type RSSAdapter struct {
	feeds  map[string][]string // topic name -> feed URLs
	parser *gofeed.Parser
}

func NewRSSAdapter(feeds map[string][]string) *RSSAdapter {
	return &RSSAdapter{feeds: feeds, parser: gofeed.NewParser()}
}

func (a *RSSAdapter) Name() string { return "rss" }

func (a *RSSAdapter) Fetch(ctx context.Context, topic news.Topic, date string) ([]news.Article, error) {
	// Feeds only carry current items; for anything but today or yesterday
	// the feed legitimately has nothing, which is an empty success.
	if news.DateAge(date) > 1 {
		return nil, nil
	}

	urls := a.feeds[string(topic)]
	if len(urls) == 0 {
		return nil, nil
	}

	var (
		articles []news.Article
		lastErr  error
	)
	for _, feedURL := range urls {
		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			lastErr = fmt.Errorf("%w: fetching feed %s: %v", ErrUnavailable, feedURL, err)
			continue
		}

		sourceName := feed.Title
		if sourceName == "" {
			sourceName = "RSS Feed"
		}

		count := 0
		for _, item := range feed.Items {
			if count >= maxItemsPerFeed {
				break
			}
			if item.Title == "" {
				continue
			}

			pub := time.Now()
			if item.PublishedParsed != nil {
				pub = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				pub = *item.UpdatedParsed
			}

			desc := item.Description
			if desc == "" {
				desc = item.Content
			}
			desc = truncate(stripHTML(desc), 300)
			if desc == "" {
				continue
			}

			articles = append(articles, news.Article{
				Title:       item.Title,
				Description: desc,
				URL:         item.Link,
				Source:      sourceName,
				PublishedAt: pub,
			})
			count++
		}
	}

	// Every configured feed failed; a partial harvest still counts.
	if len(articles) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return articles, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

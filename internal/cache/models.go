package cache

import (
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

// NewsEntry is one shared news-cache row: the deduplicated article list for
// a topic and calendar date.
type NewsEntry struct {
	Topic     news.Topic
	Date      string
	Articles  []news.Article
	CreatedAt time.Time
	ExpiresAt time.Time
}

// BriefEntry is one personalized brief-cache row.
type BriefEntry struct {
	UserID    string
	Brief     news.Brief
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Stats summarizes the shared news tier.
type Stats struct {
	TotalEntries    int
	NonEmptyEntries int
	LiveEntries     int
}

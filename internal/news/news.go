package news

import (
	"fmt"
	"strings"
	"time"
)

// Topic is a fixed news category a user can subscribe to.
type Topic string

const (
	Technology    Topic = "Technology"
	Business      Topic = "Business"
	Sports        Topic = "Sports"
	Health        Topic = "Health"
	Entertainment Topic = "Entertainment"
	Politics      Topic = "Politics"
)

// AllTopics returns every valid topic in canonical order.
func AllTopics() []Topic {
	return []Topic{Technology, Business, Sports, Health, Entertainment, Politics}
}

// ParseTopic maps a string to a Topic, case-insensitively.
func ParseTopic(s string) (Topic, error) {
	for _, t := range AllTopics() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	names := make([]string, 0, len(AllTopics()))
	for _, t := range AllTopics() {
		names = append(names, string(t))
	}
	return "", fmt.Errorf("unknown topic %q (valid: %s)", s, strings.Join(names, ", "))
}

// ReadingMode controls how much detail a brief carries.
type ReadingMode string

const (
	ModeShort    ReadingMode = "short"
	ModeDetailed ReadingMode = "detailed"
)

// ParseReadingMode maps a string to a ReadingMode, defaulting to short
// for empty input.
func ParseReadingMode(s string) (ReadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeShort):
		return ModeShort, nil
	case string(ModeDetailed):
		return ModeDetailed, nil
	}
	return "", fmt.Errorf("unknown reading mode %q (valid: short, detailed)", s)
}

// Article is a single news story as returned by a source adapter.
// Immutable once fetched.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// SummarizedArticle is an Article enriched with its per-article summary.
type SummarizedArticle struct {
	Article
	Summary string `json:"summary"`
}

// Brief is the personalized, summarized output for one topic and date.
type Brief struct {
	Topic               Topic               `json:"topic"`
	Date                string              `json:"date"`
	ConsolidatedSummary string              `json:"consolidated_summary"`
	Cached              bool                `json:"cached"`
	Articles            []SummarizedArticle `json:"articles"`
}

const dateLayout = "2006-01-02"

// NormalizeDate coerces a date string to YYYY-MM-DD. Empty or malformed
// input resolves to today.
func NormalizeDate(s string) string {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Now().Format(dateLayout)
	}
	return t.Format(dateLayout)
}

// DateAge returns how many calendar days ago the given normalized date was.
// Future dates return 0.
func DateAge(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	days := int(time.Since(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

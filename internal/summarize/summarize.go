// Package summarize condenses articles and topics into short summaries.
// An optional model-backed provider produces abstractive summaries; an
// extractive strategy is always available as fallback, so summarization
// never fails past this package.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/config"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

// topicDigestSize is how many articles the consolidated topic summary
// references.
const topicDigestSize = 5

// TargetLength returns the desired per-article summary length in runes for
// a reading mode.
func TargetLength(mode news.ReadingMode) int {
	if mode == news.ModeDetailed {
		return 400
	}
	return 160
}

// Engine produces article and topic summaries. A nil provider means the
// engine runs in extractive mode for the life of the process.
type Engine struct {
	provider Provider
}

// New builds an Engine. Provider construction failure is non-fatal: the
// engine permanently falls back to extractive summaries.
func New(cfg *config.AIConfig, apiKey string) *Engine {
	p, err := newProvider(cfg, apiKey)
	if err != nil {
		slog.Info("abstractive summarization disabled", "reason", err)
		return &Engine{}
	}
	return &Engine{provider: p}
}

// Abstractive reports whether a model-backed provider is active.
func (e *Engine) Abstractive() bool { return e.provider != nil }

// SummarizeArticle condenses text to roughly target runes. The provider is
// consulted only when the text is longer than the target; on provider
// failure the extractive fallback applies, and as a last resort the text is
// truncated to target.
func (e *Engine) SummarizeArticle(ctx context.Context, text string, target int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) <= target {
		return text
	}

	if e.provider != nil {
		s, err := e.provider.Summarize(ctx, text, target)
		if err != nil {
			slog.Warn("abstractive summarization failed, using extractive fallback", "err", err)
		} else if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	if s := firstSentences(text, 2); s != "" {
		return s
	}
	return truncate(text, target)
}

// SummarizeTopic builds the consolidated digest for one topic and date.
// The output is deterministic for a given article list and mode.
func (e *Engine) SummarizeTopic(topic news.Topic, date string, articles []news.SummarizedArticle, mode news.ReadingMode) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No news available for %s on %s.", topic, date)
	}

	n := topicDigestSize
	if len(articles) < n {
		n = len(articles)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Highlights:\n", topic)
	for _, a := range articles[:n] {
		b.WriteString("\n• ")
		b.WriteString(a.Title)
		if mode == news.ModeDetailed && a.Summary != "" {
			b.WriteString("\n  ")
			b.WriteString(a.Summary)
		}
	}
	return b.String()
}

// firstSentences returns the first n sentences of text, or "" when no
// sentence boundary is found early enough to be useful.
func firstSentences(text string, n int) string {
	found := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Ignore boundaries inside abbreviations and leading fragments.
		if i < 20 {
			continue
		}
		found++
		if found == n {
			return strings.TrimSpace(text[:i+1])
		}
	}
	if found > 0 {
		return text
	}
	return ""
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

// Package brief coordinates the pipeline: preferences, cache tiers, source
// fetching, deduplication, and summarization.
package brief

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/cache"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/dedup"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/prefs"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/source"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/summarize"
)

var (
	// ErrNoPreferences means the user has no topics configured.
	ErrNoPreferences = errors.New("no topics configured")
	// ErrAllSourcesFailed means every adapter failed and no cache existed
	// for the topic.
	ErrAllSourcesFailed = errors.New("all sources failed")
)

const (
	// maxCachedArticles caps the shared news tier per key.
	maxCachedArticles = 15
	// maxBriefArticles caps the articles carried by one brief.
	maxBriefArticles = 10
)

// Failure marks one topic that could not be briefed.
type Failure struct {
	Topic news.Topic
	Err   error
}

// Result is an ordered set of per-topic briefs plus partial failures.
type Result struct {
	Briefs []news.Brief
	Failed []Failure
}

// Orchestrator drives brief generation for verified users.
type Orchestrator struct {
	prefs          *prefs.Store
	cache          *cache.Store
	adapters       []source.Adapter
	engine         *summarize.Engine
	adapterTimeout time.Duration
}

func NewOrchestrator(p *prefs.Store, c *cache.Store, adapters []source.Adapter, e *summarize.Engine, adapterTimeout time.Duration) *Orchestrator {
	if adapterTimeout <= 0 {
		adapterTimeout = 15 * time.Second
	}
	return &Orchestrator{
		prefs:          p,
		cache:          c,
		adapters:       adapters,
		engine:         e,
		adapterTimeout: adapterTimeout,
	}
}

// GetBrief assembles one brief per resolved topic. topicFilter narrows the
// set to that single topic when it is among the user's preferences; an
// unsubscribed filter falls back to the full preference set. Briefs come
// back in topic-set order regardless of per-topic completion order, and a
// failed topic lands in Failed without sinking the rest.
func (o *Orchestrator) GetBrief(ctx context.Context, userID string, topicFilter news.Topic, date string, force bool) (*Result, error) {
	p, err := o.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	topics := p.Topics
	if topicFilter != "" {
		for _, t := range p.Topics {
			if t == topicFilter {
				topics = []news.Topic{topicFilter}
				break
			}
		}
	}
	if len(topics) == 0 {
		return nil, ErrNoPreferences
	}

	date = news.NormalizeDate(date)

	type outcome struct {
		brief news.Brief
		err   error
	}
	outcomes := make([]outcome, len(topics))

	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic news.Topic) {
			defer wg.Done()
			b, err := o.briefForTopic(ctx, userID, topic, date, p.ReadingMode, force)
			outcomes[i] = outcome{brief: b, err: err}
		}(i, topic)
	}
	wg.Wait()

	result := &Result{}
	for i, topic := range topics {
		if outcomes[i].err != nil {
			slog.Warn("topic brief failed", "topic", topic, "date", date, "err", outcomes[i].err)
			result.Failed = append(result.Failed, Failure{Topic: topic, Err: outcomes[i].err})
			continue
		}
		result.Briefs = append(result.Briefs, outcomes[i].brief)
	}
	return result, nil
}

func (o *Orchestrator) briefForTopic(ctx context.Context, userID string, topic news.Topic, date string, mode news.ReadingMode, force bool) (news.Brief, error) {
	if !force {
		entry, ok, err := o.cache.GetUserBrief(ctx, userID, topic, date)
		if err != nil {
			slog.Warn("brief cache read failed", "topic", topic, "err", err)
		} else if ok {
			b := entry.Brief
			b.Cached = true
			return b, nil
		}
	}

	newsEntry, err := o.cache.FetchNews(ctx, topic, date, force, func(ctx context.Context) ([]news.Article, error) {
		res := source.FetchAll(ctx, o.adapters, topic, date, o.adapterTimeout)
		if res.AllFailed() {
			return nil, fmt.Errorf("%w for %s on %s: %v", ErrAllSourcesFailed, topic, date, errors.Join(res.Errors...))
		}
		merged := dedup.Merge(res.Lists...)
		if len(merged) > maxCachedArticles {
			merged = merged[:maxCachedArticles]
		}
		return merged, nil
	})
	if err != nil {
		return news.Brief{}, err
	}

	b := o.personalize(ctx, newsEntry, mode)
	if err := o.cache.PutUserBrief(ctx, userID, b); err != nil {
		slog.Warn("brief cache write failed", "topic", topic, "err", err)
	}
	return b, nil
}

// personalize derives a user-facing brief from a shared news entry and the
// user's reading mode.
func (o *Orchestrator) personalize(ctx context.Context, entry *cache.NewsEntry, mode news.ReadingMode) news.Brief {
	articles := entry.Articles
	if len(articles) > maxBriefArticles {
		articles = articles[:maxBriefArticles]
	}

	target := summarize.TargetLength(mode)
	summarized := make([]news.SummarizedArticle, 0, len(articles))
	for _, a := range articles {
		summarized = append(summarized, news.SummarizedArticle{
			Article: a,
			Summary: o.engine.SummarizeArticle(ctx, a.Description, target),
		})
	}

	return news.Brief{
		Topic:               entry.Topic,
		Date:                entry.Date,
		ConsolidatedSummary: o.engine.SummarizeTopic(entry.Topic, entry.Date, summarized, mode),
		Cached:              false,
		Articles:            summarized,
	}
}

// UpdatePreferences stores new preferences and drops the user's
// personalized cache so the next brief is re-derived from the shared tier
// instead of a stale personalization.
func (o *Orchestrator) UpdatePreferences(ctx context.Context, p prefs.Preferences) error {
	if err := o.prefs.Set(ctx, p); err != nil {
		return err
	}
	if _, err := o.cache.InvalidateUser(ctx, p.UserID); err != nil {
		return err
	}
	return nil
}

// ClearCache drops a user's personalized brief entries on request.
func (o *Orchestrator) ClearCache(ctx context.Context, userID string) (int64, error) {
	return o.cache.InvalidateUser(ctx, userID)
}

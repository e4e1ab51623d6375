package source

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

// ErrUnavailable marks a provider failure: network error, non-success
// response, malformed payload, or timeout. Zero results is not an error.
var ErrUnavailable = errors.New("source unavailable")

// Adapter fetches raw articles for a topic and calendar date from one
// provider. Implementations fail independently of each other.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, topic news.Topic, date string) ([]news.Article, error)
}

// Result is the combined outcome of fetching from every enabled adapter.
// Lists holds per-adapter article lists in adapter priority order;
// succeeded counts adapters that returned without error (possibly empty).
type Result struct {
	Lists     [][]news.Article
	Errors    []error
	Succeeded int
}

// AllFailed reports whether no adapter produced a usable response.
func (r Result) AllFailed() bool {
	return r.Succeeded == 0
}

// FetchAll runs every adapter in parallel with a per-adapter timeout.
// Adapter order in the result matches the order adapters were given, which
// is the dedup priority order.
func FetchAll(ctx context.Context, adapters []Adapter, topic news.Topic, date string, timeout time.Duration) Result {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	result := Result{Lists: make([][]news.Article, len(adapters))}

	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			articles, err := a.Fetch(fetchCtx, topic, date)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("adapter fetch failed", "adapter", a.Name(), "topic", topic, "date", date, "err", err)
				result.Errors = append(result.Errors, err)
				return
			}
			result.Lists[i] = articles
			result.Succeeded++
		}(i, a)
	}

	wg.Wait()
	return result
}

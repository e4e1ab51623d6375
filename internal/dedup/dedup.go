// Package dedup merges article lists from multiple sources into one
// duplicate-free list.
package dedup

import (
	"strings"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

const keyLength = 50

// Merge concatenates the given lists in order and drops every article whose
// title keys the same as an earlier one. The input order is the source
// priority order, so the first source to report a story wins. Articles with
// an empty title are dropped outright.
func Merge(lists ...[]news.Article) []news.Article {
	var merged []news.Article
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, a := range list {
			k := Key(a.Title)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, a)
		}
	}
	return merged
}

// Key normalizes a title into its dedup key: lowercased, whitespace
// collapsed, truncated to the first 50 characters. An empty result means
// the article cannot be keyed.
func Key(title string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	runes := []rune(norm)
	if len(runes) > keyLength {
		return string(runes[:keyLength])
	}
	return norm
}

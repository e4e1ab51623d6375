package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
)

func testPrefs(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestGetReturnsDefaultsForNewUser(t *testing.T) {
	s := testPrefs(t)

	got, err := s.Get(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := Preferences{
		UserID:      "new-user",
		Topics:      []news.Topic{news.Technology, news.Business},
		ReadingMode: news.ModeShort,
		Language:    "en",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("defaults diverged:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	s := testPrefs(t)
	ctx := context.Background()

	in := Preferences{
		UserID:      "user-1",
		Topics:      []news.Topic{news.Sports, news.Health, news.Politics},
		ReadingMode: news.ModeDetailed,
		Language:    "en",
	}
	if err := s.Set(ctx, in); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round-trip diverged:\ngot  %+v\nwant %+v", got, in)
	}
}

func TestSetReplacesExisting(t *testing.T) {
	s := testPrefs(t)
	ctx := context.Background()

	first := Preferences{UserID: "user-1", Topics: []news.Topic{news.Technology}, ReadingMode: news.ModeShort, Language: "en"}
	if err := s.Set(ctx, first); err != nil {
		t.Fatalf("first set: %v", err)
	}
	second := Preferences{UserID: "user-1", Topics: []news.Topic{news.Entertainment}, ReadingMode: news.ModeDetailed, Language: "en"}
	if err := s.Set(ctx, second); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, _ := s.Get(ctx, "user-1")
	if !reflect.DeepEqual(got, second) {
		t.Errorf("expected replacement, got %+v", got)
	}
}

func TestSetValidation(t *testing.T) {
	s := testPrefs(t)
	ctx := context.Background()

	if err := s.Set(ctx, Preferences{UserID: "u", Topics: nil}); !errors.Is(err, ErrNoTopics) {
		t.Errorf("empty topics: expected ErrNoTopics, got %v", err)
	}
	err := s.Set(ctx, Preferences{UserID: "u", Topics: []news.Topic{"Astrology"}})
	if err == nil {
		t.Error("expected error for an unknown topic")
	}
	err = s.Set(ctx, Preferences{UserID: "u", Topics: []news.Topic{news.Technology}, ReadingMode: "verbose"})
	if err == nil {
		t.Error("expected error for an unknown reading mode")
	}
}

func TestSetDeduplicatesTopics(t *testing.T) {
	s := testPrefs(t)
	ctx := context.Background()

	in := Preferences{
		UserID:      "user-1",
		Topics:      []news.Topic{news.Technology, news.Technology, news.Business, news.Technology},
		ReadingMode: news.ModeShort,
	}
	if err := s.Set(ctx, in); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, _ := s.Get(ctx, "user-1")
	want := []news.Topic{news.Technology, news.Business}
	if !reflect.DeepEqual(got.Topics, want) {
		t.Errorf("expected deduplicated topics %v, got %v", want, got.Topics)
	}
}

func TestSetFillsDefaults(t *testing.T) {
	s := testPrefs(t)
	ctx := context.Background()

	in := Preferences{UserID: "user-1", Topics: []news.Topic{news.Health}}
	if err := s.Set(ctx, in); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, _ := s.Get(ctx, "user-1")
	if got.ReadingMode != news.ModeShort {
		t.Errorf("expected short mode default, got %q", got.ReadingMode)
	}
	if got.Language != "en" {
		t.Errorf("expected language default en, got %q", got.Language)
	}
}

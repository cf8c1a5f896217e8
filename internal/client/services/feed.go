package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/logging"
	"github.com/samber/lo"
)

type FeedStatus int

const (
	FeedUninitialized FeedStatus = iota
	FeedLoading
	FeedLoaded
	FeedError
)

func (s FeedStatus) String() string {
	switch s {
	case FeedUninitialized:
		return "uninitialized"
	case FeedLoading:
		return "loading"
	case FeedLoaded:
		return "loaded"
	case FeedError:
		return "error"
	default:
		return "unknown"
	}
}

// FeedItem is an article as displayed, with its bookmark flag.
type FeedItem struct {
	models.Article
	Bookmarked bool
}

// FeedState is an immutable snapshot handed to observers.
type FeedState struct {
	Categories []string
	Category   string
	Status     FeedStatus
	Items      []FeedItem
	Message    string
}

// FeedSynchronizer drives the article list for the selected category and
// owns the bookmark set.
//
// Every load takes a generation number; a response is applied only while
// its generation is current, so the shown feed always matches the last
// selection. Bookmark toggles are optimistic and roll back on failure
// unless a newer toggle of the same article happened in between.
type FeedSynchronizer struct {
	sessions *SessionManager
	api      client.Client
	log      logging.Logger

	mu         sync.Mutex
	categories []string
	selected   string
	status     FeedStatus
	articles   []models.Article
	message    string
	generation uint64

	bookmarks models.BookmarkSet
	// bumped by every local change to bookmarks; a server snapshot taken
	// under an older epoch is not applied
	bookmarkEpoch uint64
	// latest toggle sequence per article; sequences are never reused
	toggles   map[int64]uint64
	toggleSeq uint64

	observers    map[int]func(FeedState)
	nextObserver int
}

func NewFeedSynchronizer(sessions *SessionManager, api client.Client, log logging.Logger) *FeedSynchronizer {
	return &FeedSynchronizer{
		sessions:  sessions,
		api:       api,
		log:       log.With("component", "feed"),
		bookmarks: models.NewBookmarkSet(),
		toggles:   map[int64]uint64{},
		observers: map[int]func(FeedState){},
	}
}

// Subscribe registers fn for state changes and returns its unsubscribe.
// fn is called synchronously, outside internal locks.
func (f *FeedSynchronizer) Subscribe(fn func(FeedState)) func() {
	f.mu.Lock()
	id := f.nextObserver
	f.nextObserver++
	f.observers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.observers, id)
		f.mu.Unlock()
	}
}

func (f *FeedSynchronizer) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *FeedSynchronizer) Selected() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// SetCategories publishes the selectable category set. It never fetches.
func (f *FeedSynchronizer) SetCategories(names []string) {
	f.mu.Lock()
	f.categories = slices.Clone(names)
	f.mu.Unlock()
	f.notify()
}

func (f *FeedSynchronizer) IsBookmarked(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarks.Has(id)
}

func (f *FeedSynchronizer) Bookmarks() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarks.IDs()
}

// Select makes category active and loads it. category is either one of
// the published categories (case-insensitive) or models.BookmarksCategory.
func (f *FeedSynchronizer) Select(ctx context.Context, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return validation("Category is required.")
	}

	f.mu.Lock()
	if !strings.EqualFold(category, models.BookmarksCategory) {
		match, ok := lo.Find(f.categories, func(c string) bool { return strings.EqualFold(c, category) })
		if !ok {
			f.mu.Unlock()
			return validation(fmt.Sprintf("Unknown category %q.", category))
		}
		category = match
	} else {
		category = models.BookmarksCategory
	}
	f.selected = category
	f.mu.Unlock()

	return f.load(ctx)
}

// Refresh reloads the active category.
func (f *FeedSynchronizer) Refresh(ctx context.Context) error {
	if f.Selected() == "" {
		return validation("No category selected.")
	}
	return f.load(ctx)
}

func (f *FeedSynchronizer) load(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	epoch := f.bookmarkEpoch
	category := f.selected
	f.status = FeedLoading
	f.articles = nil
	f.message = ""
	f.mu.Unlock()
	f.notify()

	var got []models.Article
	err := f.sessions.Authorized(ctx, func(ctx context.Context) error {
		var err error
		if category == models.BookmarksCategory {
			got, err = f.api.Bookmarks(ctx)
		} else {
			got, err = f.api.News(ctx, category)
		}
		return err
	})

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		f.log.Debug(ctx, "discarding stale feed response", "category", category, "generation", gen)
		if IsAuthError(err) {
			return err
		}
		return nil
	}

	switch {
	case IsAuthError(err):
		f.status = FeedUninitialized
	case err != nil:
		f.status = FeedError
		f.message = Describe(err, "Failed to load news.")
	default:
		f.status = FeedLoaded
		f.articles = got
		if category == models.BookmarksCategory {
			f.reconcileLocked(got, epoch)
		}
	}
	f.mu.Unlock()
	f.notify()

	if err != nil && !IsAuthError(err) {
		f.log.Warn(ctx, "failed to load feed", "category", category, "error", err)
		return fmt.Errorf("load %s: %w", category, err)
	}
	return err
}

// SyncBookmarks refreshes the bookmark set without touching the active view.
func (f *FeedSynchronizer) SyncBookmarks(ctx context.Context) error {
	f.mu.Lock()
	epoch := f.bookmarkEpoch
	f.mu.Unlock()

	var got []models.Article
	err := f.sessions.Authorized(ctx, func(ctx context.Context) error {
		var err error
		got, err = f.api.Bookmarks(ctx)
		return err
	})
	if err != nil {
		if !IsAuthError(err) {
			f.log.Warn(ctx, "failed to sync bookmarks", "error", err)
		}
		return err
	}

	f.mu.Lock()
	applied := f.reconcileLocked(got, epoch)
	f.mu.Unlock()

	if applied {
		f.notify()
	} else {
		f.log.Debug(ctx, "discarding stale bookmark snapshot")
	}
	return nil
}

// reconcileLocked replaces the bookmark set with the server's when no local
// change happened since epoch.
func (f *FeedSynchronizer) reconcileLocked(articles []models.Article, epoch uint64) bool {
	if epoch != f.bookmarkEpoch {
		return false
	}
	f.bookmarks = models.NewBookmarkSet(lo.Map(articles, func(a models.Article, _ int) int64 { return a.ID })...)
	f.bookmarkEpoch++
	return true
}

// ToggleBookmark flips the bookmark state of id locally, then asks the
// backend to match. On failure the flip is undone unless id was toggled
// again since.
func (f *FeedSynchronizer) ToggleBookmark(ctx context.Context, id int64) error {
	if _, err := f.sessions.RequireSession(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	was := f.bookmarks.Has(id)
	f.bookmarks.Set(id, !was)
	f.bookmarkEpoch++
	f.toggleSeq++
	seq := f.toggleSeq
	f.toggles[id] = seq
	f.mu.Unlock()
	f.notify()

	err := f.sessions.Authorized(ctx, func(ctx context.Context) error {
		if was {
			return f.api.RemoveBookmark(ctx, id)
		}
		return f.api.AddBookmark(ctx, id)
	})
	if err == nil {
		return nil
	}
	if IsAuthError(err) {
		return err
	}

	f.mu.Lock()
	rolledBack := f.toggles[id] == seq
	if rolledBack {
		f.bookmarks.Set(id, was)
		f.bookmarkEpoch++
	}
	f.mu.Unlock()

	f.log.Warn(ctx, "bookmark toggle failed", "article_id", id, "rolled_back", rolledBack, "error", err)
	if rolledBack {
		f.notify()
	}
	return fmt.Errorf("toggle bookmark %d: %w", id, err)
}

// Reset drops all per-user state and invalidates in-flight requests.
func (f *FeedSynchronizer) Reset() {
	f.mu.Lock()
	f.generation++
	f.bookmarkEpoch++
	f.categories = nil
	f.selected = ""
	f.status = FeedUninitialized
	f.articles = nil
	f.message = ""
	f.bookmarks = models.NewBookmarkSet()
	f.toggles = map[int64]uint64{}
	f.mu.Unlock()
	f.notify()
}

func (f *FeedSynchronizer) snapshotLocked() FeedState {
	items := lo.Map(f.articles, func(a models.Article, _ int) FeedItem {
		return FeedItem{Article: a, Bookmarked: f.bookmarks.Has(a.ID)}
	})
	return FeedState{
		Categories: slices.Clone(f.categories),
		Category:   f.selected,
		Status:     f.status,
		Items:      items,
		Message:    f.message,
	}
}

func (f *FeedSynchronizer) notify() {
	f.mu.Lock()
	state := f.snapshotLocked()
	fns := lo.Values(f.observers)
	f.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

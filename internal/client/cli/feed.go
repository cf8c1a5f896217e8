package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/services"
)

func (a *App) Categories(ctx context.Context) error {
	names, err := a.interests.FetchSubscribedCategories(ctx)
	if err != nil {
		if !services.IsAuthError(err) {
			a.println(a.interests.Error())
		}
		return err
	}
	if len(names) == 0 {
		a.println("No categories. Type 'interests' to subscribe.")
		return nil
	}

	current := a.feed.State().Category
	for _, n := range names {
		mark := " "
		if n == current {
			mark = ">"
		}
		a.println(mark + " " + n)
	}
	return nil
}

func (a *App) Select(ctx context.Context, name string) error {
	err := a.feed.Select(ctx, name)
	if err != nil && !services.IsAuthError(err) {
		a.reportFeedError(err)
	}
	return err
}

func (a *App) Bookmarks(ctx context.Context) error {
	return a.Select(ctx, models.BookmarksCategory)
}

// Feed re-prints the current feed without fetching.
func (a *App) Feed(context.Context) error {
	renderFeed(a.out, a.feed.State())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	err := a.feed.Refresh(ctx)
	if err != nil && !services.IsAuthError(err) {
		a.reportFeedError(err)
	}
	return err
}

// reportFeedError prints validation errors; fetch failures are already
// rendered from the feed state.
func (a *App) reportFeedError(err error) {
	if a.feed.State().Status != services.FeedError {
		a.println(services.Describe(err, "Failed to load news."))
	}
}

func (a *App) ToggleBookmark(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		a.println("Invalid article id: " + arg)
		return fmt.Errorf("invalid article id %q", arg)
	}

	err = a.feed.ToggleBookmark(ctx, id)
	switch {
	case services.IsAuthError(err):
		return err
	case err != nil:
		a.println("Bookmark not saved: " + services.Describe(err, "Failed to update bookmark."))
		return err
	case a.feed.IsBookmarked(id):
		a.println(fmt.Sprintf("Bookmarked article %d", id))
	default:
		a.println(fmt.Sprintf("Removed bookmark for article %d", id))
	}
	return nil
}

// EditInterests replaces the user's subscriptions with a new non-empty set.
func (a *App) EditInterests(ctx context.Context) error {
	catalog, err := a.interests.FetchAllAvailableInterests(ctx)
	if err != nil {
		a.println(services.Describe(err, "Could not load interests."))
		return err
	}

	current := make(map[int64]bool)
	for _, c := range a.interests.Subscribed() {
		current[c.ID] = true
	}
	for _, c := range catalog {
		mark := "[ ]"
		if current[c.ID] {
			mark = "[x]"
		}
		a.println(mark + " " + c.Name)
	}

	names, err := getList(a.reader, "Enter your new interests", a.out)
	if err != nil {
		return err
	}
	ids, err := a.interests.ResolveIDs(names)
	if err != nil {
		a.println(services.Describe(err, "Unknown interest."))
		return err
	}

	if err := a.interests.SaveSubscribedCategories(ctx, ids); err != nil {
		if !services.IsAuthError(err) {
			a.println(a.interests.Error())
		}
		return err
	}
	a.println("Interests updated")
	return nil
}

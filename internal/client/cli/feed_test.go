package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/services"
	"github.com/stretchr/testify/require"
)

func TestCategories_MarksCurrent(t *testing.T) {
	i := &fakeInterests{subscribed: []models.InterestCategory{{ID: 1, Name: "sports"}, {ID: 3, Name: "science"}}}
	f := &fakeFeed{state: services.FeedState{Category: "science"}}
	a, out := newTestApp(&fakeSessions{}, i, f)

	require.NoError(t, a.Categories(context.Background()))
	require.Equal(t, "  sports\n> science\n", out.String())
}

func TestCategories_AuthErrorSilent(t *testing.T) {
	i := &fakeInterests{fetchErr: services.ErrAuthenticationExpired, errMsg: "should not show"}
	a, out := newTestApp(&fakeSessions{}, i, &fakeFeed{})

	require.Error(t, a.Categories(context.Background()))
	require.Empty(t, out.String())
}

func TestSelect_ValidationShown(t *testing.T) {
	f := &fakeFeed{selectErr: &services.ValidationError{Msg: `Unknown category "x".`}}
	a, out := newTestApp(&fakeSessions{}, &fakeInterests{}, f)

	require.Error(t, a.Select(context.Background(), "x"))
	require.Contains(t, out.String(), `Unknown category "x".`)
}

func TestSelect_FetchErrorRenderedOnce(t *testing.T) {
	f := &fakeFeed{
		selectErr: client.ErrUnavailable,
		state:     services.FeedState{Status: services.FeedError, Message: "net"},
	}
	a, out := newTestApp(&fakeSessions{}, &fakeInterests{}, f)

	require.Error(t, a.Select(context.Background(), "science"))
	require.Empty(t, out.String(), "fetch errors are rendered by the feed observer")
}

func TestBookmarks_SelectsSentinel(t *testing.T) {
	f := &fakeFeed{}
	a, _ := newTestApp(&fakeSessions{}, &fakeInterests{}, f)

	require.NoError(t, a.Bookmarks(context.Background()))
	require.Equal(t, []string{models.BookmarksCategory}, f.selected)
}

func TestRefresh(t *testing.T) {
	f := &fakeFeed{}
	a, _ := newTestApp(&fakeSessions{}, &fakeInterests{}, f)

	require.NoError(t, a.Refresh(context.Background()))
	require.Equal(t, 1, f.refreshed)
}

func TestToggleBookmark_Command(t *testing.T) {
	f := &fakeFeed{}
	a, out := newTestApp(&fakeSessions{}, &fakeInterests{}, f)
	ctx := context.Background()

	require.NoError(t, a.ToggleBookmark(ctx, "42"))
	require.Contains(t, out.String(), "Bookmarked article 42")

	require.NoError(t, a.ToggleBookmark(ctx, "42"))
	require.Contains(t, out.String(), "Removed bookmark for article 42")

	require.Error(t, a.ToggleBookmark(ctx, "abc"))
	require.Error(t, a.ToggleBookmark(ctx, "-1"))
	require.Equal(t, []int64{42, 42}, f.toggled)
}

func TestToggleBookmark_FailureShown(t *testing.T) {
	f := &fakeFeed{toggleErr: &client.RemoteError{Status: 200}}
	a, out := newTestApp(&fakeSessions{}, &fakeInterests{}, f)

	require.Error(t, a.ToggleBookmark(context.Background(), "7"))
	require.Contains(t, out.String(), "Bookmark not saved: Failed to update bookmark.")
}

func TestEditInterests(t *testing.T) {
	i := &fakeInterests{
		catalog:    []models.InterestCategory{{ID: 1, Name: "sports"}, {ID: 3, Name: "science"}},
		subscribed: []models.InterestCategory{{ID: 1, Name: "sports"}},
	}
	a, out := newTestApp(&fakeSessions{}, i, &fakeFeed{})
	stubInputs(t, nil, "", []string{"science"})

	require.NoError(t, a.EditInterests(context.Background()))
	require.Equal(t, []int64{3}, i.saved)
	require.Contains(t, out.String(), "[x] sports\n[ ] science\n")
	require.Contains(t, out.String(), "Interests updated")
}

func TestEditInterests_SaveFailureShown(t *testing.T) {
	i := &fakeInterests{
		catalog: []models.InterestCategory{{ID: 1, Name: "sports"}},
		saveErr: &services.ValidationError{Msg: "Please select at least one interest."},
		errMsg:  "Please select at least one interest.",
	}
	a, out := newTestApp(&fakeSessions{}, i, &fakeFeed{})
	stubInputs(t, nil, "", []string{})

	require.Error(t, a.EditInterests(context.Background()))
	require.Contains(t, out.String(), "Please select at least one interest.")
}

func TestRenderFeed(t *testing.T) {
	var buf bytes.Buffer
	renderFeed(&buf, services.FeedState{
		Category: "science",
		Status:   services.FeedLoaded,
		Items: []services.FeedItem{{
			Article: models.Article{
				ID: 7, Title: "Quarks", Summary: "Small things.", URL: "https://x/7",
				Source: "Wire", Sentiment: models.SentimentPositive,
				PublishedAt: models.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
			},
			Bookmarked: true,
		}},
	})

	require.Equal(t, "== science (1) ==\n"+
		"* [7] Quarks (Wire, 2024-05-01 10:00, positive)\n"+
		"      Small things.\n"+
		"      https://x/7\n", buf.String())
}

func TestRenderFeed_States(t *testing.T) {
	tests := []struct {
		name  string
		state services.FeedState
		want  string
	}{
		{"uninitialized", services.FeedState{}, "No category selected. Type 'categories' to list yours.\n"},
		{"loading", services.FeedState{Status: services.FeedLoading, Category: "a"}, "Loading a...\n"},
		{"error", services.FeedState{Status: services.FeedError, Message: "boom"}, "Error: boom (type 'refresh' to retry)\n"},
		{"empty", services.FeedState{Status: services.FeedLoaded, Category: "a"}, "No news in a.\n"},
		{"no bookmarks", services.FeedState{Status: services.FeedLoaded, Category: models.BookmarksCategory}, "No bookmarks yet.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderFeed(&buf, tt.state)
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOnFeedState_PrintsOnTransitionsOnly(t *testing.T) {
	a, out := newTestApp(&fakeSessions{}, &fakeInterests{}, &fakeFeed{})

	a.onFeedState(services.FeedState{Category: "a", Status: services.FeedLoading})
	a.onFeedState(services.FeedState{Category: "a", Status: services.FeedLoaded})
	a.onFeedState(services.FeedState{Category: "a", Status: services.FeedLoaded}) // bookmark flip

	require.Equal(t, "Loading a...\nNo news in a.\n", out.String())
}

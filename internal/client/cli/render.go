package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/services"
)

type renderKey struct {
	category string
	status   services.FeedStatus
}

// onFeedState prints the feed whenever its status or category changes.
// Bookmark-only updates are reported by the bookmark command itself.
func (a *App) onFeedState(st services.FeedState) {
	key := renderKey{category: st.Category, status: st.Status}

	a.mu.Lock()
	changed := key != a.lastRender
	a.lastRender = key
	a.mu.Unlock()

	if !changed {
		return
	}

	switch st.Status {
	case services.FeedLoading:
		a.println(fmt.Sprintf("Loading %s...", st.Category))
	case services.FeedLoaded, services.FeedError:
		renderFeed(a.out, st)
	}
}

func renderFeed(w io.Writer, st services.FeedState) {
	switch st.Status {
	case services.FeedUninitialized:
		fmt.Fprintln(w, "No category selected. Type 'categories' to list yours.")
	case services.FeedLoading:
		fmt.Fprintf(w, "Loading %s...\n", st.Category)
	case services.FeedError:
		fmt.Fprintf(w, "Error: %s (type 'refresh' to retry)\n", st.Message)
	case services.FeedLoaded:
		if len(st.Items) == 0 {
			if st.Category == models.BookmarksCategory {
				fmt.Fprintln(w, "No bookmarks yet.")
			} else {
				fmt.Fprintf(w, "No news in %s.\n", st.Category)
			}
			return
		}
		fmt.Fprintf(w, "== %s (%d) ==\n", st.Category, len(st.Items))
		for _, it := range st.Items {
			renderItem(w, it)
		}
	}
}

func renderItem(w io.Writer, it services.FeedItem) {
	mark := " "
	if it.Bookmarked {
		mark = "*"
	}

	meta := make([]string, 0, 3)
	if it.Source != "" {
		meta = append(meta, it.Source)
	}
	if !it.PublishedAt.IsZero() {
		meta = append(meta, it.PublishedAt.Format("2006-01-02 15:04"))
	}
	if it.Sentiment != "" {
		meta = append(meta, string(it.Sentiment))
	}

	fmt.Fprintf(w, "%s [%d] %s", mark, it.ID, it.Title)
	if len(meta) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(meta, ", "))
	}
	fmt.Fprintln(w)
	if it.Summary != "" {
		fmt.Fprintf(w, "      %s\n", it.Summary)
	}
	if it.URL != "" {
		fmt.Fprintf(w, "      %s\n", it.URL)
	}
}

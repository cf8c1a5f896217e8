// Package services holds the client-side core of the news reader.
//
// SessionManager owns the bearer token and the cached user, runs
// authenticated calls and turns authorization failures into a logout plus a
// redirect. InterestResolver loads the user's subscribed categories and
// publishes them to the feed. FeedSynchronizer loads per-category articles,
// discards stale responses and keeps the bookmark set in sync with the
// backend through optimistic toggles.
//
// Every fetch boundary converts its own failure into state the UI can show
// (see Describe); nothing here panics or retries on its own.
package services

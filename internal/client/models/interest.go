package models

// InterestCategory is a topic a user can subscribe to. It is reference
// data: ID is the identity, Name is what the feed is queried by.
type InterestCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookmarksCategory is the selection sentinel for the bookmark view.
const BookmarksCategory = "bookmarks"

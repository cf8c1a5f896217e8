package models

import (
	"slices"

	"github.com/samber/lo"
)

// BookmarkSet is the set of bookmarked article IDs. The zero value is not
// usable; build one with NewBookmarkSet.
type BookmarkSet map[int64]struct{}

func NewBookmarkSet(ids ...int64) BookmarkSet {
	return BookmarkSet(lo.SliceToMap(ids, func(id int64) (int64, struct{}) {
		return id, struct{}{}
	}))
}

func (s BookmarkSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Set puts id in or out of the set.
func (s BookmarkSet) Set(id int64, present bool) {
	if present {
		s[id] = struct{}{}
		return
	}
	delete(s, id)
}

// IDs returns the members in ascending order.
func (s BookmarkSet) IDs() []int64 {
	ids := lo.Keys(s)
	slices.Sort(ids)
	return ids
}

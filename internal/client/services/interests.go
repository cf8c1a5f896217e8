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

// Selection is the feed-side view of category selection.
type Selection interface {
	Selected() string
	SetCategories(names []string)
	Select(ctx context.Context, category string) error
}

// InterestResolver maps the user's subscriptions to feed categories.
type InterestResolver struct {
	sessions *SessionManager
	api      client.Client
	sel      Selection
	log      logging.Logger

	mu         sync.RWMutex
	subscribed []models.InterestCategory
	catalog    []models.InterestCategory
	errMsg     string
}

func NewInterestResolver(sessions *SessionManager, api client.Client, sel Selection, log logging.Logger) *InterestResolver {
	return &InterestResolver{
		sessions: sessions,
		api:      api,
		sel:      sel,
		log:      log.With("component", "interests"),
	}
}

// FetchSubscribedCategories loads the user's interests and publishes their
// names as the selectable categories. The first one is selected when the
// current selection is empty or no longer offered.
func (r *InterestResolver) FetchSubscribedCategories(ctx context.Context) ([]string, error) {
	var got []models.InterestCategory
	err := r.sessions.Authorized(ctx, func(ctx context.Context) error {
		var err error
		got, err = r.api.MyInterests(ctx)
		return err
	})
	if err != nil {
		r.mu.Lock()
		r.subscribed = nil
		if IsAuthError(err) {
			r.errMsg = ""
		} else {
			r.errMsg = Describe(err, "Failed to load your interests.")
		}
		r.mu.Unlock()

		if !IsAuthError(err) {
			r.log.Warn(ctx, "failed to load subscribed interests", "error", err)
			r.sel.SetCategories(nil)
		}
		return nil, err
	}

	names := categoryNames(got)

	r.mu.Lock()
	r.subscribed = got
	r.errMsg = ""
	r.mu.Unlock()

	r.sel.SetCategories(names)

	current := r.sel.Selected()
	if len(names) > 0 && current != models.BookmarksCategory && !slices.Contains(names, current) {
		// fetch failures are reported through the feed state
		_ = r.sel.Select(ctx, names[0])
	}
	return names, nil
}

// FetchAllAvailableInterests loads the public interest catalog.
func (r *InterestResolver) FetchAllAvailableInterests(ctx context.Context) ([]models.InterestCategory, error) {
	got, err := r.api.ListInterests(ctx)
	if err != nil {
		r.log.Warn(ctx, "failed to load interest catalog", "error", err)
		r.mu.Lock()
		r.errMsg = Describe(err, "Failed to load interests.")
		r.mu.Unlock()
		return nil, fmt.Errorf("list interests: %w", err)
	}

	r.mu.Lock()
	r.catalog = got
	r.mu.Unlock()
	return slices.Clone(got), nil
}

// SaveSubscribedCategories replaces the user's interests with ids and
// reloads the subscribed list. An empty selection is rejected locally.
func (r *InterestResolver) SaveSubscribedCategories(ctx context.Context, ids []int64) error {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		err := validation("Please select at least one interest.")
		r.setError(err.Error())
		return err
	}

	err := r.sessions.Authorized(ctx, func(ctx context.Context) error {
		return r.api.ReplaceMyInterests(ctx, ids)
	})
	if err != nil {
		if !IsAuthError(err) {
			r.log.Warn(ctx, "failed to save interests", "error", err)
			r.setError(Describe(err, "Failed to update interests."))
		}
		return err
	}

	r.log.Info(ctx, "interests updated", "count", len(ids))
	_, err = r.FetchSubscribedCategories(ctx)
	return err
}

// ResolveIDs maps category names to catalog IDs, ignoring case. The catalog
// must have been loaded with FetchAllAvailableInterests.
func (r *InterestResolver) ResolveIDs(names []string) ([]int64, error) {
	r.mu.RLock()
	catalog := r.catalog
	r.mu.RUnlock()

	byName := lo.SliceToMap(catalog, func(c models.InterestCategory) (string, int64) {
		return strings.ToLower(c.Name), c.ID
	})

	ids := make([]int64, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		id, ok := byName[strings.ToLower(n)]
		if !ok {
			return nil, validation(fmt.Sprintf("Unknown interest %q.", n))
		}
		ids = append(ids, id)
	}
	return lo.Uniq(ids), nil
}

func (r *InterestResolver) Subscribed() []models.InterestCategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.subscribed)
}

// Categories returns the subscribed category names in server order.
func (r *InterestResolver) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return categoryNames(r.subscribed)
}

func (r *InterestResolver) Catalog() []models.InterestCategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.catalog)
}

// Error is the last user-visible failure, or "".
func (r *InterestResolver) Error() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errMsg
}

// Reset drops per-user state. The public catalog is kept.
func (r *InterestResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = nil
	r.errMsg = ""
}

func (r *InterestResolver) setError(msg string) {
	r.mu.Lock()
	r.errMsg = msg
	r.mu.Unlock()
}

func categoryNames(cs []models.InterestCategory) []string {
	return lo.Map(cs, func(c models.InterestCategory, _ int) string { return c.Name })
}

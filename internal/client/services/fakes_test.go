package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/repositories/session"
	"github.com/dmitrijs2005/newsreader/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

type call struct {
	Method string
	Arg    any
	Token  string
}

// fakeClient implements client.Client. Unset funcs succeed with empty data.
type fakeClient struct {
	mu    sync.Mutex
	calls []call

	LoginFn          func(email, password string) (*client.AuthResult, error)
	SignupFn         func(req client.SignupRequest) (*client.AuthResult, error)
	ListInterestsFn  func() ([]models.InterestCategory, error)
	MyInterestsFn    func() ([]models.InterestCategory, error)
	ReplaceFn        func(ids []int64) error
	NewsFn           func(ctx context.Context, category string) ([]models.Article, error)
	BookmarksFn      func(ctx context.Context) ([]models.Article, error)
	AddBookmarkFn    func(ctx context.Context, id int64) error
	RemoveBookmarkFn func(ctx context.Context, id int64) error
}

func (f *fakeClient) record(ctx context.Context, method string, arg any) {
	tok := client.AccessToken(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Arg: arg, Token: tok})
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeClient) CallCount() int {
	return len(f.Calls())
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.record(ctx, "Login", email)
	if f.LoginFn == nil {
		return &client.AuthResult{Token: "T1"}, nil
	}
	return f.LoginFn(email, password)
}

func (f *fakeClient) Signup(ctx context.Context, req client.SignupRequest) (*client.AuthResult, error) {
	f.record(ctx, "Signup", req)
	if f.SignupFn == nil {
		return &client.AuthResult{Token: "T1"}, nil
	}
	return f.SignupFn(req)
}

func (f *fakeClient) ListInterests(ctx context.Context) ([]models.InterestCategory, error) {
	f.record(ctx, "ListInterests", nil)
	if f.ListInterestsFn == nil {
		return nil, nil
	}
	return f.ListInterestsFn()
}

func (f *fakeClient) MyInterests(ctx context.Context) ([]models.InterestCategory, error) {
	f.record(ctx, "MyInterests", nil)
	if f.MyInterestsFn == nil {
		return nil, nil
	}
	return f.MyInterestsFn()
}

func (f *fakeClient) ReplaceMyInterests(ctx context.Context, ids []int64) error {
	f.record(ctx, "ReplaceMyInterests", ids)
	if f.ReplaceFn == nil {
		return nil
	}
	return f.ReplaceFn(ids)
}

func (f *fakeClient) News(ctx context.Context, category string) ([]models.Article, error) {
	f.record(ctx, "News", category)
	if f.NewsFn == nil {
		return nil, nil
	}
	return f.NewsFn(ctx, category)
}

func (f *fakeClient) Bookmarks(ctx context.Context) ([]models.Article, error) {
	f.record(ctx, "Bookmarks", nil)
	if f.BookmarksFn == nil {
		return nil, nil
	}
	return f.BookmarksFn(ctx)
}

func (f *fakeClient) AddBookmark(ctx context.Context, id int64) error {
	f.record(ctx, "AddBookmark", id)
	if f.AddBookmarkFn == nil {
		return nil
	}
	return f.AddBookmarkFn(ctx, id)
}

func (f *fakeClient) RemoveBookmark(ctx context.Context, id int64) error {
	f.record(ctx, "RemoveBookmark", id)
	if f.RemoveBookmarkFn == nil {
		return nil
	}
	return f.RemoveBookmarkFn(ctx, id)
}

// ---- fake navigator ----

type fakeNav struct {
	mu    sync.Mutex
	views []View
}

func (n *fakeNav) Navigate(v View) {
	n.mu.Lock()
	n.views = append(n.views, v)
	n.mu.Unlock()
}

func (n *fakeNav) Last() (View, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.views) == 0 {
		return 0, false
	}
	return n.views[len(n.views)-1], true
}

// ---- harness ----

type harness struct {
	api      *fakeClient
	nav      *fakeNav
	store    *session.MemoryStore
	sessions *SessionManager
	feed     *FeedSynchronizer
	interest *InterestResolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:   &fakeClient{},
		nav:   &fakeNav{},
		store: session.NewMemoryStore(),
	}
	log := logging.Nop()
	h.sessions = NewSessionManager(h.store, h.api, h.nav, log)
	h.feed = NewFeedSynchronizer(h.sessions, h.api, log)
	h.interest = NewInterestResolver(h.sessions, h.api, h.feed, log)
	h.sessions.OnClear(h.feed.Reset)
	h.sessions.OnClear(h.interest.Reset)
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sessions.EstablishSession(context.Background(), "T1", &models.User{ID: 1}))
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

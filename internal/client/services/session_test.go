package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err error
}

func (s failingStore) Load(context.Context) (models.Session, error) { return models.Session{}, s.err }
func (s failingStore) Save(context.Context, models.Session) error  { return s.err }
func (s failingStore) Clear(context.Context) error                 { return s.err }

func TestEstablishThenRestore_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := &models.User{ID: 1, Firstname: "A", Lastname: "B", Email: "a@b.com"}

	require.NoError(t, h.sessions.EstablishSession(ctx, "T1", u))

	// a fresh manager over the same store sees the same session
	other := NewSessionManager(h.store, h.api, h.nav, h.sessions.log)
	got, err := other.RestoreSession(ctx)
	require.NoError(t, err)
	require.Equal(t, models.Session{Token: "T1", User: u}, got)
	require.Equal(t, got, other.Current())
	require.Zero(t, h.api.CallCount(), "restore must not hit the network")
}

func TestEstablishSession_EmptyTokenRejected(t *testing.T) {
	h := newHarness(t)
	require.Error(t, h.sessions.EstablishSession(context.Background(), "", &models.User{ID: 1}))
	require.False(t, h.sessions.Current().Authenticated())
}

func TestEstablishSession_StoreFailureLeavesMemoryUntouched(t *testing.T) {
	h := newHarness(t)
	m := NewSessionManager(failingStore{err: errors.New("disk full")}, h.api, h.nav, h.sessions.log)

	err := m.EstablishSession(context.Background(), "T1", nil)
	require.ErrorContains(t, err, "disk full")
	require.False(t, m.Current().Authenticated())
}

func TestRestoreSession_StoreFailure(t *testing.T) {
	h := newHarness(t)
	m := NewSessionManager(failingStore{err: errors.New("locked")}, h.api, h.nav, h.sessions.log)

	_, err := m.RestoreSession(context.Background())
	require.ErrorContains(t, err, "restore session")
}

func TestClearSession_RunsHooksAndWipesStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t)

	hooks := 0
	h.sessions.OnClear(func() { hooks++ })

	require.NoError(t, h.sessions.ClearSession(ctx))
	require.Equal(t, 1, hooks)
	require.False(t, h.sessions.Current().Authenticated())

	stored, err := h.store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, models.Session{}, stored)
}

func TestClearSession_HooksRunEvenIfStoreFails(t *testing.T) {
	h := newHarness(t)
	m := NewSessionManager(failingStore{err: errors.New("io")}, h.api, h.nav, h.sessions.log)

	ran := false
	m.OnClear(func() { ran = true })

	require.Error(t, m.ClearSession(context.Background()))
	require.True(t, ran)
}

func TestRequireSession_NoTokenRedirects(t *testing.T) {
	h := newHarness(t)

	_, err := h.sessions.RequireSession(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationRequired)

	v, ok := h.nav.Last()
	require.True(t, ok)
	require.Equal(t, ViewAuth, v)
}

func TestRequireSession_ExpiredJWTClearsAndRedirects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tok := signedToken(t, jwt.MapClaims{"user_id": 1, "expires": float64(time.Now().Add(-time.Hour).Unix())})
	require.NoError(t, h.sessions.EstablishSession(ctx, tok, &models.User{ID: 1}))

	_, err := h.sessions.RequireSession(ctx)
	require.ErrorIs(t, err, ErrAuthenticationExpired)
	require.False(t, h.sessions.Current().Authenticated())

	v, _ := h.nav.Last()
	require.Equal(t, ViewAuth, v)
}

func TestRequireSession_LiveJWTPasses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tok := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, h.sessions.EstablishSession(ctx, tok, nil))

	got, err := h.sessions.RequireSession(ctx)
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestAuthorized_AttachesToken(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	var seen string
	err := h.sessions.Authorized(context.Background(), func(ctx context.Context) error {
		seen = client.AccessToken(ctx)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "T1", seen)
}

func TestAuthorized_UnauthorizedClearsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t)

	err := h.sessions.Authorized(ctx, func(context.Context) error {
		return client.ErrUnauthorized
	})
	require.ErrorIs(t, err, ErrAuthenticationExpired)
	require.False(t, h.sessions.Current().Authenticated())

	stored, _ := h.store.Load(ctx)
	require.False(t, stored.Authenticated())

	v, _ := h.nav.Last()
	require.Equal(t, ViewAuth, v)
}

func TestAuthorized_RejectionOfOldTokenKeepsNewSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t)

	err := h.sessions.Authorized(ctx, func(context.Context) error {
		// user logged in again while the old request was in flight
		require.NoError(t, h.sessions.EstablishSession(ctx, "T2", nil))
		return client.ErrUnauthorized
	})
	require.ErrorIs(t, err, ErrAuthenticationExpired)
	require.Equal(t, "T2", h.sessions.Current().Token)
}

func TestAuthorized_OtherErrorsPassThrough(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	err := h.sessions.Authorized(context.Background(), func(context.Context) error {
		return client.ErrUnavailable
	})
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.True(t, h.sessions.Current().Authenticated())
}

func TestClearedSession_AuthenticatedFetchSendsNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t)
	require.NoError(t, h.sessions.ClearSession(ctx))

	_, err := h.interest.FetchSubscribedCategories(ctx)
	require.ErrorIs(t, err, ErrAuthenticationRequired)
	require.ErrorIs(t, h.feed.ToggleBookmark(ctx, 1), ErrAuthenticationRequired)
	require.ErrorIs(t, h.feed.SyncBookmarks(ctx), ErrAuthenticationRequired)

	require.Zero(t, h.api.CallCount())
	v, _ := h.nav.Last()
	require.Equal(t, ViewAuth, v)
}

func TestLogin_EstablishesSessionAndNavigatesToFeed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := &models.User{ID: 1, Firstname: "A", Lastname: "B", Email: "a@b.com"}
	h.api.LoginFn = func(email, password string) (*client.AuthResult, error) {
		require.Equal(t, "a@b.com", email)
		require.Equal(t, "x", password)
		return &client.AuthResult{Token: "T1", User: user}, nil
	}

	require.NoError(t, h.sessions.Login(ctx, "a@b.com", "x"))
	require.Equal(t, models.Session{Token: "T1", User: user}, h.sessions.Current())

	v, _ := h.nav.Last()
	require.Equal(t, ViewFeed, v)
}

func TestLogin_FailureKeepsLoggedOut(t *testing.T) {
	h := newHarness(t)
	h.api.LoginFn = func(string, string) (*client.AuthResult, error) {
		return nil, &client.RemoteError{Status: 200, Message: "Invalid credentials"}
	}

	err := h.sessions.Login(context.Background(), "a@b.com", "bad")
	require.Error(t, err)
	require.Equal(t, "Invalid credentials", Describe(err, "Login failed."))
	require.False(t, h.sessions.Current().Authenticated())
	_, navigated := h.nav.Last()
	require.False(t, navigated)
}

func TestLogin_EmptyCredentialsNotSent(t *testing.T) {
	h := newHarness(t)

	err := h.sessions.Login(context.Background(), "  ", "x")
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, h.api.CallCount())
}

func TestSignup_RequiresInterests(t *testing.T) {
	h := newHarness(t)

	err := h.sessions.Signup(context.Background(), SignupForm{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "Please select at least one interest.", Describe(err, ""))
	require.Zero(t, h.api.CallCount())
}

func TestSignup_SendsExplicitIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var got client.SignupRequest
	h.api.SignupFn = func(req client.SignupRequest) (*client.AuthResult, error) {
		got = req
		return &client.AuthResult{Token: "T5", User: &models.User{ID: 5}}, nil
	}

	err := h.sessions.Signup(ctx, SignupForm{
		Email: " a@b.com ", Password: "x", Firstname: "A", Lastname: "B",
		InterestIDs: []int64{7, 3, 7},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{7, 3}, got.Interests)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "T5", h.sessions.Current().Token)

	v, _ := h.nav.Last()
	require.Equal(t, ViewFeed, v)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.NoError(t, h.sessions.Logout(context.Background()))
	require.False(t, h.sessions.Current().Authenticated())
	v, _ := h.nav.Last()
	require.Equal(t, ViewAuth, v)
}

func TestEntryView(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ViewAuth, h.sessions.EntryView())

	h.login(t)
	require.Equal(t, ViewFeed, h.sessions.EntryView())

	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, h.sessions.EstablishSession(context.Background(), expired, nil))
	require.Equal(t, ViewAuth, h.sessions.EntryView())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", validation("pick one"), "pick one"},
		{"network", client.ErrUnavailable, NetworkErrorMessage},
		{"timeout wrapped", errors.Join(errors.New("x"), client.ErrTimeout), NetworkErrorMessage},
		{"remote with message", &client.RemoteError{Status: 500, Message: "boom"}, "boom"},
		{"remote without message", &client.RemoteError{Status: 500}, "fallback"},
		{"unknown", errors.New("weird"), "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Describe(tt.err, "fallback"))
		})
	}
}

func TestView_String(t *testing.T) {
	require.Equal(t, "auth", ViewAuth.String())
	require.Equal(t, "feed", ViewFeed.String())
	require.Equal(t, "unknown", View(9).String())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/newsreader/internal/client/auth"
	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/repositories/session"
	"github.com/dmitrijs2005/newsreader/internal/logging"
	"github.com/samber/lo"
)

// SignupForm is the account-creation input. Interests are catalog IDs.
type SignupForm struct {
	Email       string
	Password    string
	Firstname   string
	Lastname    string
	InterestIDs []int64
}

// SessionManager owns the client session. It persists the token and user
// through a session.Store and logs the user out when the backend rejects the token.
type SessionManager struct {
	store session.Store
	api   client.Client
	nav   Navigator
	log   logging.Logger
	now   func() time.Time

	mu      sync.RWMutex
	current models.Session
	onClear []func()
}

func NewSessionManager(store session.Store, api client.Client, nav Navigator, log logging.Logger) *SessionManager {
	return &SessionManager{
		store: store,
		api:   api,
		nav:   nav,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
}

// OnClear registers fn to run after every ClearSession.
func (m *SessionManager) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClear = append(m.onClear, fn)
}

func (m *SessionManager) Current() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *SessionManager) RestoreSession(ctx context.Context) (models.Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("restore session: %w", err)
	}
	s = s.Normalize()

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	if s.Authenticated() {
		m.log.Info(ctx, "session restored", "user_id", userID(s.User))
	}
	return s, nil
}

func (m *SessionManager) EstablishSession(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return errors.New("establish session: empty token")
	}
	s := models.Session{Token: token, User: user}
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.log.Info(ctx, "session established", "user_id", userID(user))
	return nil
}

// ClearSession drops the session from memory and storage, then runs the
// OnClear hooks. Hooks run even when the storage delete fails.
func (m *SessionManager) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	m.current = models.Session{}
	hooks := append([]func(){}, m.onClear...)
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	for _, fn := range hooks {
		fn()
	}

	if err != nil {
		m.log.Error(ctx, "failed to clear stored session", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	m.log.Info(ctx, "session cleared")
	return nil
}

// RequireSession returns the bearer token. Without one the user is sent to
// the auth surface. A JWT past its expiry is treated as rejected.
func (m *SessionManager) RequireSession(ctx context.Context) (string, error) {
	token := m.Current().Token
	if token == "" {
		m.nav.Navigate(ViewAuth)
		return "", ErrAuthenticationRequired
	}
	if auth.Expired(token, m.now()) {
		m.log.Info(ctx, "stored token expired")
		m.expire(ctx, token)
		return "", ErrAuthenticationExpired
	}
	return token, nil
}

// Authorized runs op with the bearer token attached to ctx.
func (m *SessionManager) Authorized(ctx context.Context, op func(ctx context.Context) error) error {
	token, err := m.RequireSession(ctx)
	if err != nil {
		return err
	}

	err = op(client.WithAccessToken(ctx, token))
	if errors.Is(err, client.ErrUnauthorized) {
		m.log.Warn(ctx, "token rejected by backend")
		m.expire(ctx, token)
		return ErrAuthenticationExpired
	}
	return err
}

// expire logs out unless a different session was established meanwhile.
func (m *SessionManager) expire(ctx context.Context, token string) {
	if m.Current().Token != token {
		return
	}
	_ = m.ClearSession(ctx)
	m.nav.Navigate(ViewAuth)
}

func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return validation("Email and password are required.")
	}

	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "error", err)
		return fmt.Errorf("login: %w", err)
	}
	return m.enter(ctx, res)
}

func (m *SessionManager) Signup(ctx context.Context, f SignupForm) error {
	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" || f.Password == "" {
		return validation("Email and password are required.")
	}
	ids := lo.Uniq(f.InterestIDs)
	if len(ids) == 0 {
		return validation("Please select at least one interest.")
	}

	res, err := m.api.Signup(ctx, client.SignupRequest{
		Email:     f.Email,
		Password:  f.Password,
		Firstname: strings.TrimSpace(f.Firstname),
		Lastname:  strings.TrimSpace(f.Lastname),
		Interests: ids,
	})
	if err != nil {
		m.log.Warn(ctx, "signup failed", "error", err)
		return fmt.Errorf("signup: %w", err)
	}
	return m.enter(ctx, res)
}

func (m *SessionManager) enter(ctx context.Context, res *client.AuthResult) error {
	if err := m.EstablishSession(ctx, res.Token, res.User); err != nil {
		return err
	}
	m.nav.Navigate(ViewFeed)
	return nil
}

func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.ClearSession(ctx)
	m.nav.Navigate(ViewAuth)
	return err
}

// EntryView is the surface to show on start: the feed when a usable token
// is held, the auth surface otherwise.
func (m *SessionManager) EntryView() View {
	token := m.Current().Token
	if token == "" || auth.Expired(token, m.now()) {
		return ViewAuth
	}
	return ViewFeed
}

func userID(u *models.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

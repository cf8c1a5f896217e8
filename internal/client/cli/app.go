package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
	"github.com/dmitrijs2005/newsreader/internal/client/config"
	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/repositories/session"
	"github.com/dmitrijs2005/newsreader/internal/client/services"
	"github.com/dmitrijs2005/newsreader/internal/client/storage"
	"github.com/dmitrijs2005/newsreader/internal/logging"
)

type sessionService interface {
	RestoreSession(ctx context.Context) (models.Session, error)
	Current() models.Session
	EntryView() services.View
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, f services.SignupForm) error
	Logout(ctx context.Context) error
}

type interestService interface {
	FetchSubscribedCategories(ctx context.Context) ([]string, error)
	FetchAllAvailableInterests(ctx context.Context) ([]models.InterestCategory, error)
	SaveSubscribedCategories(ctx context.Context, ids []int64) error
	ResolveIDs(names []string) ([]int64, error)
	Subscribed() []models.InterestCategory
	Error() string
}

type feedService interface {
	Select(ctx context.Context, category string) error
	Refresh(ctx context.Context) error
	ToggleBookmark(ctx context.Context, id int64) error
	SyncBookmarks(ctx context.Context) error
	IsBookmarked(id int64) bool
	State() services.FeedState
	Subscribe(fn func(services.FeedState)) func()
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	sessions  sessionService
	interests interestService
	feed      feedService

	reader *bufio.Reader
	out    io.Writer

	mu         sync.Mutex
	view       services.View
	lastRender renderKey
	closers    []func()
}

// NewApp wires storage, the API client and the services for cfg, reading
// from stdin and writing to stdout.
func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, os.Stdin, os.Stdout, os.Stderr)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	log := logging.New(c.LogFormat, c.LogLevel, logOut)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(in),
		out:    out,
	}

	sm := services.NewSessionManager(session.NewSQLiteStore(db), api, a, log)
	feed := services.NewFeedSynchronizer(sm, api, log)
	interests := services.NewInterestResolver(sm, api, feed, log)
	sm.OnClear(feed.Reset)
	sm.OnClear(interests.Reset)

	a.sessions, a.interests, a.feed = sm, interests, feed
	a.closers = append(a.closers, feed.Subscribe(a.onFeedState))
	return a, nil
}

// Navigate implements services.Navigator.
func (a *App) Navigate(v services.View) {
	a.mu.Lock()
	prev := a.view
	a.view = v
	a.mu.Unlock()

	if prev == services.ViewFeed && v == services.ViewAuth {
		a.println("You are logged out. Type 'login' to sign in again.")
	}
}

func (a *App) currentView() services.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) isLoggedIn() bool {
	return a.currentView() == services.ViewFeed && a.sessions.Current().Authenticated()
}

// Run restores the previous session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if _, err := a.sessions.RestoreSession(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}

	a.println("Welcome to the news reader (type 'help' for commands)")

	a.Navigate(a.sessions.EntryView())
	if a.isLoggedIn() {
		if u := a.sessions.Current().User; u != nil && u.Firstname != "" {
			a.println(fmt.Sprintf("Welcome back, %s!", u.Firstname))
		}
		a.enterFeed(ctx)
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close releases the database and flushes the logger.
func (a *App) Close() {
	for _, fn := range a.closers {
		fn()
	}
	a.closers = nil

	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(guest)"
	}

	who := "user"
	if u := a.sessions.Current().User; u != nil && u.Email != "" {
		who = u.Email
	}
	if c := a.feed.State().Category; c != "" {
		return fmt.Sprintf("(%s %s)", who, c)
	}
	return fmt.Sprintf("(%s)", who)
}

// enterFeed loads per-user state after login or restore.
func (a *App) enterFeed(ctx context.Context) {
	if err := a.feed.SyncBookmarks(ctx); err != nil && services.IsAuthError(err) {
		return
	}

	names, err := a.interests.FetchSubscribedCategories(ctx)
	switch {
	case services.IsAuthError(err):
		return
	case err != nil:
		a.println(a.interests.Error())
	case len(names) == 0:
		a.println("You are not subscribed to any interests yet. Type 'interests' to pick some.")
	default:
		a.println("Categories: " + strings.Join(names, ", "))
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

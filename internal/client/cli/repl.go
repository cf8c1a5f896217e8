package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Categories(ctx context.Context) error
	Select(ctx context.Context, name string) error
	Bookmarks(ctx context.Context) error
	Feed(ctx context.Context) error
	Refresh(ctx context.Context) error
	ToggleBookmark(ctx context.Context, arg string) error
	EditInterests(ctx context.Context) error
}

const (
	guestHelp = "Available commands: login, signup, exit"
	userHelp  = "Available commands: categories, select <name>, feed, refresh, bookmarks, bookmark <id>, interests, logout, exit"
)

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help             : show available commands
//	  - login            : authenticate
//	  - signup           : create an account and pick interests
//	  - exit | quit      : leave the program
//
//	Logged in:
//	  - help             : show available commands
//	  - categories       : list subscribed categories
//	  - select <name>    : switch the feed to a category
//	  - feed             : show the current feed
//	  - refresh          : reload the current feed
//	  - bookmarks        : show bookmarked articles
//	  - bookmark <id>    : toggle the bookmark of an article
//	  - interests        : edit subscribed interests
//	  - logout           : log out
//	  - exit | quit      : leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("news %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		arg := strings.Join(parts[1:], " ")

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue
		}

		if a.isLoggedIn() {
			dispatchUser(ctx, a, cmd, arg)
		} else {
			dispatchGuest(ctx, a, cmd)
		}
	}
}

func dispatchGuest(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "login":
		_ = a.Login(ctx)
	case "signup", "register":
		_ = a.Signup(ctx)
	case "categories", "select", "feed", "refresh", "bookmarks", "bookmark", "interests", "logout":
		printlnFn("Please log in first (type 'login').")
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchUser(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "categories":
		_ = a.Categories(ctx)
	case "select":
		if arg == "" {
			printlnFn("Usage: select <category>")
			return
		}
		_ = a.Select(ctx, arg)
	case "feed":
		_ = a.Feed(ctx)
	case "refresh":
		_ = a.Refresh(ctx)
	case "bookmarks":
		_ = a.Bookmarks(ctx)
	case "bookmark":
		if arg == "" {
			printlnFn("Usage: bookmark <article-id>")
			return
		}
		_ = a.ToggleBookmark(ctx, arg)
	case "interests":
		_ = a.EditInterests(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "login", "signup", "register":
		printlnFn("Already logged in. Type 'logout' first.")
	default:
		printlnFn("Unknown command:", cmd)
	}
}

package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/client/services"
)

// getSimpleText, getPassword and getList are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getList       = GetList
)

// Login prompts for credentials and authenticates. On success the feed
// surface is loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.sessions.Login(ctx, email, string(password)); err != nil {
		a.println("Login failed: " + services.Describe(err, "Invalid email or password."))
		return err
	}

	a.println("Login successful")
	a.enterFeed(ctx)
	return nil
}

// Signup collects the account fields and at least one interest, then
// creates the account and loads the feed surface.
func (a *App) Signup(ctx context.Context) error {
	catalog, err := a.interests.FetchAllAvailableInterests(ctx)
	if err != nil {
		a.println("Signup unavailable: " + services.Describe(err, "Could not load interests."))
		return err
	}

	var f services.SignupForm
	if f.Firstname, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if f.Lastname, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)
	f.Password = string(password)

	a.println("Available interests: " + strings.Join(interestNames(catalog), ", "))
	names, err := getList(a.reader, "Pick your interests", a.out)
	if err != nil {
		return err
	}
	if f.InterestIDs, err = a.interests.ResolveIDs(names); err != nil {
		a.println(services.Describe(err, "Unknown interest."))
		return err
	}

	if err := a.sessions.Signup(ctx, f); err != nil {
		a.println("Signup failed: " + services.Describe(err, "Could not create the account."))
		return err
	}

	a.println("Account created")
	a.enterFeed(ctx)
	return nil
}

// Logout clears the stored session and returns to the auth surface.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout did not fully clear the session", "error", err)
		return err
	}
	return nil
}

func interestNames(cs []models.InterestCategory) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

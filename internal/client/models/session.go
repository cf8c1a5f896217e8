// Package models defines the client-side data model of the news reader.
package models

// User is the account record returned by login and signup.
type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

// Session is the authenticated identity held by the client. Token is the
// source of truth: User is only meaningful when Token is set.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Normalize drops a cached user that has no token alongside it.
func (s Session) Normalize() Session {
	if s.Token == "" {
		return Session{}
	}
	return s
}

// Package cli provides the interactive news reader command-line client.
//
// It wires configuration, the local session database, the API client and
// the core services into a REPL with two surfaces: the auth surface (login,
// signup) and the feed surface (categories, articles, bookmarks, interest
// editing). The services switch between them through App.Navigate, e.g. a
// rejected token drops the user back to the auth surface.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

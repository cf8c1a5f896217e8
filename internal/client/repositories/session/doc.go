// Package session persists the authenticated session (bearer token plus the
// cached user record) on the client.
//
// Two Store implementations are provided: SQLiteStore keeps the session in
// the local database so it survives restarts, MemoryStore keeps it for the
// lifetime of the process. Both uphold the session invariant: a user record
// is only ever returned together with a token.
//
// Keys
//
//	token : raw bearer token
//	user  : JSON-encoded models.User
package session

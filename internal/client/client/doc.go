// Package client talks to the news backend over JSON/HTTP.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): login,
//     signup, the interest catalog, the user's subscriptions, the news feed
//     and bookmarks.
//  2. A concrete implementation (see HTTPClient) that attaches the bearer
//     token carried in the context, stamps every request with an
//     X-Request-ID, applies a per-request timeout and maps failures to
//     sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnauthorized, ErrUnavailable, ErrTimeout,
// ErrMalformedResponse. Deliberate failures reported by the backend come back
// as *RemoteError (match with errors.As) and carry the server message.
//
// The backend signals a bad token in three ways: 401, 403 (missing header)
// and a 200 response with {"success": false, "message": "Unauthorized"}.
// On bearer calls all three become ErrUnauthorized.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client

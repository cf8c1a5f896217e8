// Package auth inspects bearer tokens on the client side. Signatures are
// never checked here (the client does not hold the key); only the expiry
// claims are read so an obviously dead token is not sent at all.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// legacyExpiryClaim is the non-standard expiry claim ("expires", unix
// seconds) issued by the news backend alongside or instead of "exp".
const legacyExpiryClaim = "expires"

// ExpiresAt returns the expiry encoded in token. ok is false when the token
// is not a JWT or carries no expiry claim.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time, true
	}

	switch v := claims[legacyExpiryClaim].(type) {
	case float64:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec), true
	default:
		return time.Time{}, false
	}
}

// Expired reports whether token is known to be expired at now. Opaque
// tokens and tokens without an expiry are never reported as expired.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return !now.Before(exp)
}

package models

import "time"

// Session binds an opaque bearer token to a subject and a validity window.
// RevokedAt, once set, is never cleared; expiry is checked lazily against
// wall-clock time, there is no background eviction.
type Session struct {
	ID        string
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time

	// Subject is resolved alongside the session so policy checks need no
	// further lookups.
	Subject Subject
}

// Usable reports whether the session is currently resolvable: not revoked
// and not past its expiry at the given instant.
func (s *Session) Usable(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return !now.After(s.ExpiresAt)
}

package models

import "time"

// Session is a server-recorded proof of authentication tied to a random
// token cookie. A session moves through the states
// ACTIVE -> EXPIRED (time-based) -> NOTICE_WINDOW -> GONE; expiry is lazy,
// a session past ExpiresAt is simply treated as invalid on lookup.
type Session struct {
	// SessionID is the high-entropy token handed to the client in the
	// session cookie. It is the primary lookup key and is never a guest id.
	SessionID string `json:"-"`

	// UserID is the owner of the session.
	UserID int64 `json:"user_id"`

	// CreatedAt is the time of the successful login or signup.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the nominal end of the session's validity.
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// SessionExpiration is the companion notice record created alongside each
// session. It outlives the session itself so the client can still be told
// "your session recently expired" after the session cookie is gone, using
// the longer-lived current-user cookie as the lookup key.
//
// Invariant: at most one live notice lineage per user; all prior rows for a
// user are deleted when a new session is created.
type SessionExpiration struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"-"`

	// SessionExpiredAt mirrors the session's ExpiresAt and marks the start
	// of the notice window.
	SessionExpiredAt time.Time `json:"session_expired_at"`

	// ExpiresAt ends the notice window; the row is meaningless (and swept)
	// after this point.
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the database table
// associated with the SessionExpiration model.
func (s SessionExpiration) TableName() string {
	return "session_expirations"
}

// Auth is the denormalized view returned by session resolution: the session
// record together with its owner.
type Auth struct {
	Session Session `json:"session"`
	User    User    `json:"user"`

	// Expired is set when the session token did not resolve to a live
	// session (deleted, forged, or past ExpiresAt). When set, Session and
	// User carry no data.
	Expired bool `json:"expired,omitempty"`
}

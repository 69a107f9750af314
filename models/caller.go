package models

// CallerKind enumerates the possible identities of an inbound request after
// resolution. Exactly one kind applies per request.
type CallerKind int

const (
	// CallerAnonymous is a request with no usable identity at all.
	CallerAnonymous CallerKind = iota

	// CallerGuest is an unauthenticated visitor tracked by the guest cookie.
	CallerGuest

	// CallerExpired is a request whose session has lapsed but is still
	// inside the expiration-notice window. Expired always takes precedence
	// over guest: a request carrying a session token is never treated as a
	// guest, even when that token turns out to be stale.
	CallerExpired

	// CallerRegistered is a request backed by a live authenticated session.
	CallerRegistered
)

// String implements fmt.Stringer for log output and API responses.
func (k CallerKind) String() string {
	switch k {
	case CallerRegistered:
		return "registered"
	case CallerExpired:
		return "expired"
	case CallerGuest:
		return "guest"
	default:
		return "anonymous"
	}
}

// Caller is the tagged variant produced once per request by identity
// resolution and passed down to every operation, replacing ad-hoc
// "if userID != 0 ... else guest ..." branching.
//
// Field population by kind:
//   - CallerRegistered: User and Session are set.
//   - CallerExpired:    UserID may be set (from the current-user cookie).
//   - CallerGuest:      GuestSessionID is set.
//   - CallerAnonymous:  no other field is set.
type Caller struct {
	Kind CallerKind `json:"kind"`

	User    User    `json:"user,omitzero"`
	Session Session `json:"session,omitzero"`

	UserID         int64  `json:"user_id,omitempty"`
	GuestSessionID string `json:"-"`
}

// Registered reports whether the caller is an authenticated user.
func (c Caller) Registered() bool {
	return c.Kind == CallerRegistered
}

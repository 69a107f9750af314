package models

import "time"

// User represents a profile owner. A user is either registered (created at
// signup, identified by a stable UserID and an immutable login email) or a
// transient guest (identified solely by GuestSessionID and swept after
// ExpiresAt).
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the login identifier of a registered user. Immutable after
	// signup and never set for guests.
	Email string `json:"email,omitempty"`

	// DisplayEmail is the publicly shown contact email. Mutable and
	// independent of Email.
	DisplayEmail string `json:"display_email,omitempty"`

	// Username is the display name shown on the public profile.
	Username string `json:"username,omitempty"`

	// Image is the URL of the profile avatar hosted by the media service.
	Image string `json:"image,omitempty"`

	// PasswordHash stores the scrypt-derived key of the user's password.
	// This value MUST be a derived value, never plaintext. Empty for guests.
	PasswordHash string `json:"-"`

	// Salt is the per-user random salt used for password derivation.
	// Set together with PasswordHash, never separately.
	Salt string `json:"-"`

	// Registered distinguishes registered accounts from transient guests.
	Registered bool `json:"registered"`

	// GuestSessionID is the opaque cookie-borne identifier of a guest.
	// Empty for registered users.
	GuestSessionID string `json:"-"`

	// Links is the embedded, unordered-insert link list of a guest user.
	// Registered users keep their links in the links table instead.
	Links []Link `json:"links,omitempty"`

	// IsNotified records whether a guest has acknowledged the
	// "your data is temporary" warning.
	IsNotified bool `json:"-"`

	// CreatedAt is the timestamp when the user record was created.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the sweep deadline for guest users. Zero for
	// registered users.
	ExpiresAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

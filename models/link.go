package models

import "time"

// Link is a single social-platform entry on a profile. A link is
// exclusively owned by one user at a time: registered owners reference it
// by UserID in the links table, guest owners carry it embedded in their
// user row. The ownership-transfer protocol is the only operation allowed
// to move a link from guest to registered ownership.
type Link struct {
	// LinkID is the database identifier. Zero for guest-embedded links,
	// which are addressed by position inside the embedded list.
	LinkID int64 `json:"id,omitempty"`

	// Platform is the display name of the target platform, validated
	// against the static platform registry.
	Platform string `json:"platform"`

	URL string `json:"url"`

	// Order is the 1-based position of the link on the profile. Order
	// values for one owner always form a dense sequence starting at 1;
	// deletes and reorders renumber the remainder.
	Order int `json:"order"`

	CreatedAt time.Time `json:"created_at"`

	// UserID is the registered owner. Zero for guest-embedded links.
	UserID int64 `json:"-"`
}

// TableName returns the name of the database table
// associated with the Link model.
func (l Link) TableName() string {
	return "links"
}

// LinkUpdate is a partial update of a single link. Only non-nil fields are
// written; the repository builds the UPDATE statement dynamically from the
// populated fields.
type LinkUpdate struct {
	// LinkID identifies the record to update. Required.
	LinkID int64 `json:"id"`

	Platform *string `json:"platform,omitempty"`
	URL      *string `json:"url,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

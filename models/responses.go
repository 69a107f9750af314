package models

// ProfileView is the profile representation returned to clients. For guest
// callers it also carries the embedded link list so a single fetch renders
// the whole editor.
type ProfileView struct {
	Username     string `json:"username"`
	DisplayEmail string `json:"display_email"`
	Image        string `json:"image"`
	Registered   bool   `json:"registered"`
	Links        []Link `json:"links,omitempty"`
}

// PublicProfile is the reduced view exposed through a share token: display
// fields and links only, nothing account-related.
type PublicProfile struct {
	Username     string `json:"username"`
	DisplayEmail string `json:"display_email"`
	Image        string `json:"image"`
	Links        []Link `json:"links"`
}

// FieldError attributes a validation or conflict message to a single form
// field; "general" addresses the form as a whole.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AuthResult is the body returned by the signup and login endpoints.
type AuthResult struct {
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// GuestNoticeStatus reports whether the guest welcome notification should
// be shown: "should-show", "already-notified", or "no-guest".
type GuestNoticeStatus struct {
	Status string `json:"status"`
}

package models

import "net/http"

// CookieJar is the explicit request context handed to every identity and
// session function: a readable view of the request's cookies plus a writer
// for response cookies. Passing it in rather than reading ambient request
// state keeps the resolution logic unit-testable without a real request.
type CookieJar interface {
	// Get returns the value of the named request cookie and whether it was
	// present.
	Get(name string) (string, bool)

	// Set adds a cookie to the response.
	Set(cookie *http.Cookie)

	// Delete expires the named cookie on the client.
	Delete(name string)
}

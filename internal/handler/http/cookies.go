package http

import (
	"net/http"

	"devlinks/models"
)

// cookieJar adapts a request/response pair to [models.CookieJar] so the
// service layer never touches *http.Request directly.
type cookieJar struct {
	w http.ResponseWriter
	r *http.Request
}

func newCookieJar(w http.ResponseWriter, r *http.Request) models.CookieJar {
	return &cookieJar{w: w, r: r}
}

// Get returns the value of the named request cookie.
func (c *cookieJar) Get(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Set adds a cookie to the response.
func (c *cookieJar) Set(cookie *http.Cookie) {
	http.SetCookie(c.w, cookie)
}

// Delete expires the named cookie on the client. The attributes must match
// the ones the cookie was set with or the browser keeps the original.
func (c *cookieJar) Delete(name string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

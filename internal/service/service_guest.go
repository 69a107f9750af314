package service

import (
	"net/http"
	"time"

	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/models"
)

// IDGenerator mints opaque guest identifiers.
type IDGenerator interface {
	Generate() string
}

// guestService is the concrete implementation of [GuestService]. The guest
// identity lives entirely in a cookie; no database row exists until the
// guest first writes data.
//
// The Get / GetOrCreate split is deliberate: resolution and other read
// paths call Get and never mint an identity, so merely visiting a page
// creates no state. Only write paths call GetOrCreate.
type guestService struct {
	cookieName string
	duration   time.Duration
	production bool

	generator IDGenerator
	logger    *logger.Logger
}

// NewGuestService constructs a [GuestService] from the auth configuration.
func NewGuestService(cfg config.Auth, production bool, generator IDGenerator, logger *logger.Logger) GuestService {
	return &guestService{
		cookieName: cfg.GuestCookie,
		duration:   cfg.GuestDuration,
		production: production,
		generator:  generator,
		logger:     logger,
	}
}

// Get returns the guest identifier carried by the request, if any.
func (g *guestService) Get(jar models.CookieJar) (string, bool) {
	value, ok := jar.Get(g.cookieName)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// GetOrCreate returns the existing guest identifier or mints a new one and
// sets its cookie on the response.
func (g *guestService) GetOrCreate(jar models.CookieJar) string {
	if existing, ok := g.Get(jar); ok {
		return existing
	}

	guestSessionID := g.generator.Generate()
	jar.Set(&http.Cookie{
		Name:     g.cookieName,
		Value:    guestSessionID,
		Path:     "/",
		MaxAge:   int(g.duration.Seconds()),
		HttpOnly: true,
		Secure:   g.production,
		SameSite: http.SameSiteLaxMode,
	})

	g.logger.Debug().Str("func", "guestService.GetOrCreate").Msg("minted new guest identity")

	return guestSessionID
}

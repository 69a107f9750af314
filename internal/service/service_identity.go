package service

import (
	"context"
	"strconv"

	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/models"
)

// identityService is the concrete implementation of [IdentityService].
//
// Resolution precedence:
//  1. A session token, even a stale one, wins. A request that carries a
//     token is never treated as a guest.
//  2. No token but a current-user cookie inside the notice window means
//     the caller's session recently expired.
//  3. A guest cookie makes the caller a guest.
//  4. Anything else is anonymous.
//
// Resolution fails open: a store failure degrades the caller to anonymous
// rather than failing the request. Identity is an input to authorization,
// not authorization itself.
type identityService struct {
	sessions SessionService
	guests   GuestService

	sessionCookie     string
	currentUserCookie string
	production        bool

	logger *logger.Logger
}

// NewIdentityService constructs an [IdentityService] on top of the session
// and guest services.
func NewIdentityService(sessions SessionService, guests GuestService, cfg config.Auth, production bool, logger *logger.Logger) IdentityService {
	return &identityService{
		sessions:          sessions,
		guests:            guests,
		sessionCookie:     cfg.SessionCookie,
		currentUserCookie: cfg.CurrentUserCookie,
		production:        production,
		logger:            logger,
	}
}

// ResolveCaller computes the caller identity for the request represented
// by jar.
func (i *identityService) ResolveCaller(ctx context.Context, jar models.CookieJar) models.Caller {
	if token, ok := jar.Get(i.sessionCookie); ok && token != "" {
		return i.resolveFromToken(ctx, jar, token)
	}

	if caller, ok := i.resolveFromNotice(ctx, jar); ok {
		return caller
	}

	if guestSessionID, ok := i.guests.Get(jar); ok {
		return models.Caller{
			Kind:           models.CallerGuest,
			GuestSessionID: guestSessionID,
		}
	}

	return models.Caller{Kind: models.CallerAnonymous}
}

// resolveFromToken handles the token-present branch. The token may be
// stale; staleness yields an expired caller, never a guest one.
func (i *identityService) resolveFromToken(ctx context.Context, jar models.CookieJar, token string) models.Caller {
	auth, err := i.sessions.Resolve(ctx, token)
	if err != nil {
		i.logResolutionFailure(ctx, err, "session resolution failed, degrading to anonymous")
		return models.Caller{Kind: models.CallerAnonymous}
	}

	if auth.Expired {
		caller := models.Caller{Kind: models.CallerExpired}
		if userID, ok := i.currentUserID(jar); ok {
			caller.UserID = userID
		}
		return caller
	}

	return models.Caller{
		Kind:    models.CallerRegistered,
		User:    auth.User,
		Session: auth.Session,
		UserID:  auth.User.UserID,
	}
}

// resolveFromNotice handles the no-token branch: a current-user cookie
// whose owner is inside the notice window still resolves as expired.
func (i *identityService) resolveFromNotice(ctx context.Context, jar models.CookieJar) (models.Caller, bool) {
	userID, ok := i.currentUserID(jar)
	if !ok {
		return models.Caller{}, false
	}

	inWindow, err := i.sessions.CheckExpired(ctx, userID)
	if err != nil {
		i.logResolutionFailure(ctx, err, "notice window check failed, degrading to anonymous")
		return models.Caller{Kind: models.CallerAnonymous}, true
	}
	if !inWindow {
		return models.Caller{}, false
	}

	return models.Caller{
		Kind:   models.CallerExpired,
		UserID: userID,
	}, true
}

func (i *identityService) currentUserID(jar models.CookieJar) (int64, bool) {
	raw, ok := jar.Get(i.currentUserCookie)
	if !ok || raw == "" {
		return 0, false
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return userID, true
}

// logResolutionFailure records a degraded resolution. Suppressed in
// production where the volume would be noise; the degradation itself is
// the designed behavior, not an incident.
func (i *identityService) logResolutionFailure(ctx context.Context, err error, msg string) {
	if i.production {
		return
	}
	logger.FromContext(ctx).Warn().Err(err).Str("func", "identityService.ResolveCaller").Msg(msg)
}

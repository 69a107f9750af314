package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"devlinks/internal/cache"
	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/internal/utils"
	"devlinks/models"
)

// sessionCacheTTL bounds how stale a cached session resolution may be. A
// revoked session can therefore be observed for up to this long unless the
// revocation invalidates the session tag first.
const sessionCacheTTL = time.Minute

// sessionService is the concrete implementation of [SessionService].
//
// Sessions expire lazily: nothing runs at the moment of expiry, the state
// is derived on lookup. A token that resolves to no row is treated as
// expired, not as an error, because the sweeper may have removed the row
// already.
type sessionService struct {
	sessionRepository store.SessionRepository

	cache *cache.TagCache

	sessionCookie     string
	currentUserCookie string
	sessionDuration   time.Duration
	noticeDuration    time.Duration
	production        bool

	logger *logger.Logger
}

// NewSessionService constructs a [SessionService] wired to the given
// repository and shared tag cache.
func NewSessionService(sessionRepository store.SessionRepository, tagCache *cache.TagCache, cfg config.Auth, production bool, logger *logger.Logger) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		cache:             tagCache,
		sessionCookie:     cfg.SessionCookie,
		currentUserCookie: cfg.CurrentUserCookie,
		sessionDuration:   cfg.SessionDuration,
		noticeDuration:    cfg.NoticeDuration,
		production:        production,
		logger:            logger,
	}
}

// Create starts a new session for the user: a fresh random token, the
// session row plus its expiration lineage (replacing any previous lineage
// for the user), and the two response cookies.
//
// The current-user cookie outlives the session cookie by the notice
// duration so the expired-session notice can still be keyed after the
// session cookie is gone.
func (s *sessionService) Create(ctx context.Context, jar models.CookieJar, user models.User) (models.Session, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateSessionToken()
	if err != nil {
		log.Err(err).Str("func", "sessionService.Create").Msg("failed to generate session token")
		return models.Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := models.Session{
		SessionID: token,
		UserID:    user.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	expiration := models.SessionExpiration{
		UserID:           user.UserID,
		SessionID:        token,
		SessionExpiredAt: session.ExpiresAt,
		ExpiresAt:        session.ExpiresAt.Add(s.noticeDuration),
	}

	if err := s.sessionRepository.CreateSession(ctx, session, expiration); err != nil {
		log.Err(err).
			Str("func", "sessionService.Create").
			Int64("user_id", user.UserID).
			Msg("failed to persist session")
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	jar.Set(s.newCookie(s.sessionCookie, token, s.sessionDuration))
	jar.Set(s.newCookie(s.currentUserCookie, strconv.FormatInt(user.UserID, 10), s.sessionDuration+s.noticeDuration))

	s.cache.InvalidateTags(cache.TagAuth, cache.TagExpiredSessions)

	return session, nil
}

// Resolve maps a session token to the denormalized session+user view.
//
// The result is memoized for the remainder of the request and cached for
// [sessionCacheTTL] under the auth and session tags. An absent row or a
// passed deadline yields Auth{Expired: true} with a nil error; only a store
// failure is an error.
func (s *sessionService) Resolve(ctx context.Context, sessionID string) (models.Auth, error) {
	log := logger.FromContext(ctx)

	memoKey := "auth:" + sessionID
	if memo, ok := cache.MemoFromContext(ctx); ok {
		if cached, hit := memo.Get(memoKey); hit {
			return cached.(models.Auth), nil
		}
	}

	cacheKey := "session:" + sessionID
	if cached, hit := s.cache.Get(cacheKey); hit {
		auth := cached.(models.Auth)
		s.memoize(ctx, memoKey, auth)
		return auth, nil
	}

	auth, err := s.sessionRepository.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoSessionWasFound) {
			// the row may simply have been swept; treat as expired
			auth = models.Auth{Expired: true}
		} else {
			log.Err(err).Str("func", "sessionService.Resolve").Msg("session lookup failed")
			return models.Auth{}, fmt.Errorf("session lookup failed: %w", err)
		}
	}

	if !auth.Expired && time.Now().After(auth.Session.ExpiresAt) {
		auth = models.Auth{Expired: true}
	}

	s.cache.Set(cacheKey, auth, sessionCacheTTL, cache.TagAuth, cache.TagSession)
	s.memoize(ctx, memoKey, auth)

	return auth, nil
}

// CheckExpired reports whether the user's most recent session lapsed and
// the current time is still inside the half-open notice window
// [SessionExpiredAt, ExpiresAt).
func (s *sessionService) CheckExpired(ctx context.Context, userID int64) (bool, error) {
	log := logger.FromContext(ctx)

	cacheKey := "expired:" + strconv.FormatInt(userID, 10)
	if cached, hit := s.cache.Get(cacheKey); hit {
		return cached.(bool), nil
	}

	expiration, err := s.sessionRepository.FindExpiration(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoExpirationWasFound) {
			return false, nil
		}
		log.Err(err).
			Str("func", "sessionService.CheckExpired").
			Int64("user_id", userID).
			Msg("expiration lookup failed")
		return false, fmt.Errorf("expiration lookup failed: %w", err)
	}

	now := time.Now()
	inWindow := !now.Before(expiration.SessionExpiredAt) && now.Before(expiration.ExpiresAt)

	s.cache.Set(cacheKey, inWindow, sessionCacheTTL, cache.TagAuth, cache.TagExpiredSessions)

	return inWindow, nil
}

// Destroy ends the caller's session. The cookies are cleared first and
// unconditionally; the database cleanup is best effort and its failure is
// logged, never surfaced, so logout always succeeds from the client's
// point of view.
func (s *sessionService) Destroy(ctx context.Context, jar models.CookieJar) {
	log := logger.FromContext(ctx)

	token, hadToken := jar.Get(s.sessionCookie)

	jar.Delete(s.sessionCookie)
	jar.Delete(s.currentUserCookie)

	if !hadToken || token == "" {
		return
	}

	// The lineage delete resolves the owner through the session row, so it
	// has to run while that row still exists.
	if err := s.sessionRepository.DeleteExpirationsBySession(ctx, token); err != nil {
		log.Err(err).Str("func", "sessionService.Destroy").Msg("best-effort expiration lineage delete failed")
	}

	if err := s.sessionRepository.DeleteSession(ctx, token); err != nil {
		log.Err(err).Str("func", "sessionService.Destroy").Msg("best-effort session delete failed")
	}

	s.cache.Delete("session:" + token)
	s.cache.InvalidateTags(cache.TagAuth, cache.TagExpiredSessions)
}

func (s *sessionService) memoize(ctx context.Context, key string, auth models.Auth) {
	if memo, ok := cache.MemoFromContext(ctx); ok {
		memo.Set(key, auth)
	}
}

func (s *sessionService) newCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	}
}

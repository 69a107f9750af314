package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"devlinks/models"
)

// UserRepository persists registered and guest user records. Guests live in
// the same table with registered=false, a unique guest_session_id, and their
// links embedded as a JSONB list so guest link mutations stay atomic.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	UpsertGuest(ctx context.Context, guest models.User) (models.User, error)
	FindGuestBySessionID(ctx context.Context, guestSessionID string) (models.User, error)
	UpdateGuestLinks(ctx context.Context, guestSessionID string, links []models.Link) error
	DeleteGuest(ctx context.Context, guestSessionID string) (bool, error)

	MergeProfile(ctx context.Context, userID int64, profile models.User) error
	SetNotified(ctx context.Context, userID int64) error

	DeleteExpiredGuests(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository persists session tokens and the per-user expiration
// lineage used for the "session expired" notice.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session, expiration models.SessionExpiration) error
	FindSession(ctx context.Context, sessionID string) (models.Auth, error)
	FindExpiration(ctx context.Context, userID int64) (models.SessionExpiration, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpirationsBySession(ctx context.Context, sessionID string) error

	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// LinkRepository persists the links of registered owners. Guest links are
// handled by [UserRepository] through the embedded JSONB list.
type LinkRepository interface {
	ListLinks(ctx context.Context, userID int64) ([]models.Link, error)
	CountLinks(ctx context.Context, userID int64) (int, error)
	CreateLink(ctx context.Context, link models.Link) (models.Link, error)
	CreateLinks(ctx context.Context, userID int64, links []models.Link) error
	UpdateLink(ctx context.Context, userID int64, update models.LinkUpdate) error
	DeleteLink(ctx context.Context, userID int64, linkID int64) error
}

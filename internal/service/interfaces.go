package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"devlinks/models"
)

// CredentialService derives and verifies password material. Implementations
// must be constant-time on the comparison path and fail closed: any error
// while processing stored material verifies as false.
type CredentialService interface {
	GenerateSalt() (string, error)
	Hash(password, salt string) (string, error)
	Verify(storedHash, password, salt string) bool
}

// GuestService resolves the cookie-borne guest identity. Get never mutates
// state; GetOrCreate mints and sets the cookie when absent. Read paths must
// use Get so that merely viewing a page does not create an identity.
type GuestService interface {
	Get(jar models.CookieJar) (string, bool)
	GetOrCreate(jar models.CookieJar) string
}

// SessionService owns the session lifecycle from login to the expiration
// notice.
type SessionService interface {
	Create(ctx context.Context, jar models.CookieJar, user models.User) (models.Session, error)
	Resolve(ctx context.Context, sessionID string) (models.Auth, error)
	CheckExpired(ctx context.Context, userID int64) (bool, error)
	Destroy(ctx context.Context, jar models.CookieJar)
}

// IdentityService computes the caller identity of a request.
type IdentityService interface {
	ResolveCaller(ctx context.Context, jar models.CookieJar) models.Caller
}

// TransferService moves guest-owned data to a registered account. Links
// must be transferred before the profile: profile transfer consumes the
// guest row.
type TransferService interface {
	TransferLinks(ctx context.Context, jar models.CookieJar, userID int64) error
	TransferProfile(ctx context.Context, jar models.CookieJar, userID int64) error
}

// AuthService implements the signup, login, and logout flows.
type AuthService interface {
	Signup(ctx context.Context, jar models.CookieJar, email, password string) (models.AuthResult, error)
	Login(ctx context.Context, jar models.CookieJar, email, password string) (models.AuthResult, error)
	Logout(ctx context.Context, jar models.CookieJar, caller models.Caller)
}

// LinkService operates on the caller's link list, routing registered owners
// to the links table and guests to their embedded list.
type LinkService interface {
	List(ctx context.Context, caller models.Caller) ([]models.Link, error)
	Count(ctx context.Context, caller models.Caller) (int, error)
	Create(ctx context.Context, caller models.Caller, link models.Link) (models.Link, error)
	Update(ctx context.Context, caller models.Caller, updates []models.LinkUpdate) error
	Delete(ctx context.Context, caller models.Caller, linkID int64) error
}

// ProfileService operates on profile display fields, the guest notice flag,
// and public share tokens.
type ProfileService interface {
	Get(ctx context.Context, caller models.Caller) (models.ProfileView, error)
	Update(ctx context.Context, caller models.Caller, profile models.User) error
	UploadAvatar(ctx context.Context, caller models.Caller, filename string, data []byte) (string, error)
	NoticeStatus(ctx context.Context, caller models.Caller) (models.GuestNoticeStatus, error)
	MarkNotified(ctx context.Context, caller models.Caller) error
	Share(ctx context.Context, caller models.Caller) (models.ShareToken, error)
	Shared(ctx context.Context, token string) (models.PublicProfile, error)
}

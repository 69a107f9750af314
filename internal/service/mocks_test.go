package service

import (
	"context"
	"net/http"
	"time"

	"devlinks/models"
)

// ─────────────────────────────────────────────
// Fake: models.CookieJar
// ─────────────────────────────────────────────

type fakeJar struct {
	values  map[string]string
	set     []*http.Cookie
	deleted []string
}

func newFakeJar(values map[string]string) *fakeJar {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeJar{values: values}
}

func (j *fakeJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *fakeJar) Set(cookie *http.Cookie) {
	j.set = append(j.set, cookie)
	j.values[cookie.Name] = cookie.Value
}

func (j *fakeJar) Delete(name string) {
	j.deleted = append(j.deleted, name)
	delete(j.values, name)
}

func (j *fakeJar) setCookie(name string) *http.Cookie {
	for _, c := range j.set {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn          func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn     func(ctx context.Context, email string) (models.User, error)
	findUserByIDFn        func(ctx context.Context, userID int64) (models.User, error)
	upsertGuestFn         func(ctx context.Context, guest models.User) (models.User, error)
	findGuestFn           func(ctx context.Context, guestSessionID string) (models.User, error)
	updateGuestLinksFn    func(ctx context.Context, guestSessionID string, links []models.Link) error
	deleteGuestFn         func(ctx context.Context, guestSessionID string) (bool, error)
	mergeProfileFn        func(ctx context.Context, userID int64, profile models.User) error
	setNotifiedFn         func(ctx context.Context, userID int64) error
	deleteExpiredGuestsFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) UpsertGuest(ctx context.Context, guest models.User) (models.User, error) {
	if m.upsertGuestFn != nil {
		return m.upsertGuestFn(ctx, guest)
	}
	return guest, nil
}

func (m *mockUserRepository) FindGuestBySessionID(ctx context.Context, guestSessionID string) (models.User, error) {
	if m.findGuestFn != nil {
		return m.findGuestFn(ctx, guestSessionID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) UpdateGuestLinks(ctx context.Context, guestSessionID string, links []models.Link) error {
	if m.updateGuestLinksFn != nil {
		return m.updateGuestLinksFn(ctx, guestSessionID, links)
	}
	return nil
}

func (m *mockUserRepository) DeleteGuest(ctx context.Context, guestSessionID string) (bool, error) {
	if m.deleteGuestFn != nil {
		return m.deleteGuestFn(ctx, guestSessionID)
	}
	return false, nil
}

func (m *mockUserRepository) MergeProfile(ctx context.Context, userID int64, profile models.User) error {
	if m.mergeProfileFn != nil {
		return m.mergeProfileFn(ctx, userID, profile)
	}
	return nil
}

func (m *mockUserRepository) SetNotified(ctx context.Context, userID int64) error {
	if m.setNotifiedFn != nil {
		return m.setNotifiedFn(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) DeleteExpiredGuests(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredGuestsFn != nil {
		return m.deleteExpiredGuestsFn(ctx, now)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

type mockSessionRepository struct {
	createSessionFn         func(ctx context.Context, session models.Session, expiration models.SessionExpiration) error
	findSessionFn           func(ctx context.Context, sessionID string) (models.Auth, error)
	findExpirationFn        func(ctx context.Context, userID int64) (models.SessionExpiration, error)
	deleteSessionFn         func(ctx context.Context, sessionID string) error
	deleteExpirationsFn     func(ctx context.Context, sessionID string) error
	deleteExpiredSessionsFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepository) CreateSession(ctx context.Context, session models.Session, expiration models.SessionExpiration) error {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, session, expiration)
	}
	return nil
}

func (m *mockSessionRepository) FindSession(ctx context.Context, sessionID string) (models.Auth, error) {
	if m.findSessionFn != nil {
		return m.findSessionFn(ctx, sessionID)
	}
	return models.Auth{}, nil
}

func (m *mockSessionRepository) FindExpiration(ctx context.Context, userID int64) (models.SessionExpiration, error) {
	if m.findExpirationFn != nil {
		return m.findExpirationFn(ctx, userID)
	}
	return models.SessionExpiration{}, nil
}

func (m *mockSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(ctx, sessionID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpirationsBySession(ctx context.Context, sessionID string) error {
	if m.deleteExpirationsFn != nil {
		return m.deleteExpirationsFn(ctx, sessionID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredSessionsFn != nil {
		return m.deleteExpiredSessionsFn(ctx, now)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.LinkRepository
// ─────────────────────────────────────────────

type mockLinkRepository struct {
	listLinksFn   func(ctx context.Context, userID int64) ([]models.Link, error)
	countLinksFn  func(ctx context.Context, userID int64) (int, error)
	createLinkFn  func(ctx context.Context, link models.Link) (models.Link, error)
	createLinksFn func(ctx context.Context, userID int64, links []models.Link) error
	updateLinkFn  func(ctx context.Context, userID int64, update models.LinkUpdate) error
	deleteLinkFn  func(ctx context.Context, userID int64, linkID int64) error
}

func (m *mockLinkRepository) ListLinks(ctx context.Context, userID int64) ([]models.Link, error) {
	if m.listLinksFn != nil {
		return m.listLinksFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockLinkRepository) CountLinks(ctx context.Context, userID int64) (int, error) {
	if m.countLinksFn != nil {
		return m.countLinksFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockLinkRepository) CreateLink(ctx context.Context, link models.Link) (models.Link, error) {
	if m.createLinkFn != nil {
		return m.createLinkFn(ctx, link)
	}
	return link, nil
}

func (m *mockLinkRepository) CreateLinks(ctx context.Context, userID int64, links []models.Link) error {
	if m.createLinksFn != nil {
		return m.createLinksFn(ctx, userID, links)
	}
	return nil
}

func (m *mockLinkRepository) UpdateLink(ctx context.Context, userID int64, update models.LinkUpdate) error {
	if m.updateLinkFn != nil {
		return m.updateLinkFn(ctx, userID, update)
	}
	return nil
}

func (m *mockLinkRepository) DeleteLink(ctx context.Context, userID int64, linkID int64) error {
	if m.deleteLinkFn != nil {
		return m.deleteLinkFn(ctx, userID, linkID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: SessionService / GuestService / TransferService / CredentialService
// ─────────────────────────────────────────────

type mockSessionService struct {
	createFn       func(ctx context.Context, jar models.CookieJar, user models.User) (models.Session, error)
	resolveFn      func(ctx context.Context, sessionID string) (models.Auth, error)
	checkExpiredFn func(ctx context.Context, userID int64) (bool, error)
	destroyFn      func(ctx context.Context, jar models.CookieJar)
}

func (m *mockSessionService) Create(ctx context.Context, jar models.CookieJar, user models.User) (models.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, jar, user)
	}
	return models.Session{}, nil
}

func (m *mockSessionService) Resolve(ctx context.Context, sessionID string) (models.Auth, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, sessionID)
	}
	return models.Auth{}, nil
}

func (m *mockSessionService) CheckExpired(ctx context.Context, userID int64) (bool, error) {
	if m.checkExpiredFn != nil {
		return m.checkExpiredFn(ctx, userID)
	}
	return false, nil
}

func (m *mockSessionService) Destroy(ctx context.Context, jar models.CookieJar) {
	if m.destroyFn != nil {
		m.destroyFn(ctx, jar)
	}
}

type mockGuestService struct {
	getFn         func(jar models.CookieJar) (string, bool)
	getOrCreateFn func(jar models.CookieJar) string
}

func (m *mockGuestService) Get(jar models.CookieJar) (string, bool) {
	if m.getFn != nil {
		return m.getFn(jar)
	}
	return "", false
}

func (m *mockGuestService) GetOrCreate(jar models.CookieJar) string {
	if m.getOrCreateFn != nil {
		return m.getOrCreateFn(jar)
	}
	return ""
}

type mockTransferService struct {
	transferLinksFn   func(ctx context.Context, jar models.CookieJar, userID int64) error
	transferProfileFn func(ctx context.Context, jar models.CookieJar, userID int64) error
}

func (m *mockTransferService) TransferLinks(ctx context.Context, jar models.CookieJar, userID int64) error {
	if m.transferLinksFn != nil {
		return m.transferLinksFn(ctx, jar, userID)
	}
	return nil
}

func (m *mockTransferService) TransferProfile(ctx context.Context, jar models.CookieJar, userID int64) error {
	if m.transferProfileFn != nil {
		return m.transferProfileFn(ctx, jar, userID)
	}
	return nil
}

type mockCredentialService struct {
	generateSaltFn func() (string, error)
	hashFn         func(password, salt string) (string, error)
	verifyFn       func(storedHash, password, salt string) bool
}

func (m *mockCredentialService) GenerateSalt() (string, error) {
	if m.generateSaltFn != nil {
		return m.generateSaltFn()
	}
	return "00ff", nil
}

func (m *mockCredentialService) Hash(password, salt string) (string, error) {
	if m.hashFn != nil {
		return m.hashFn(password, salt)
	}
	return "hashed:" + password, nil
}

func (m *mockCredentialService) Verify(storedHash, password, salt string) bool {
	if m.verifyFn != nil {
		return m.verifyFn(storedHash, password, salt)
	}
	return false
}

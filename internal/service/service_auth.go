package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devlinks/internal/cache"
	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/models"
)

const minPasswordLength = 8

// genericCredentialMessage is the single message for every credential
// failure on login. Which part was wrong is deliberately not disclosed.
const genericCredentialMessage = "check your email and password"

// authService is the concrete implementation of [AuthService]: the signup,
// login, and logout flows, including the ownership transfer both entry
// flows run after authenticating.
type authService struct {
	userRepository store.UserRepository

	credentials CredentialService
	sessions    SessionService
	guests      GuestService
	transfers   TransferService

	cache       *cache.TagCache
	guestCookie string

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService].
func NewAuthService(userRepository store.UserRepository, credentials CredentialService, sessions SessionService, guests GuestService, transfers TransferService, tagCache *cache.TagCache, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		credentials:    credentials,
		sessions:       sessions,
		guests:         guests,
		transfers:      transfers,
		cache:          tagCache,
		guestCookie:    cfg.GuestCookie,
		logger:         logger,
	}
}

// Signup registers a new account, starts a session, and adopts any guest
// data.
//
// Validation failures and a duplicate email come back as field-level
// errors in the [models.AuthResult], not as Go errors: they are expected
// outcomes of the form. The duplicate check is arbitrated solely by the
// unique index on the email column, so two racing signups can never both
// succeed. Transfer failures are logged and swallowed; the signup still
// completes.
func (a *authService) Signup(ctx context.Context, jar models.CookieJar, email, password string) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if fieldErrors := validateCredentials(email, password); len(fieldErrors) > 0 {
		return models.AuthResult{Errors: fieldErrors}, nil
	}

	salt, err := a.credentials.GenerateSalt()
	if err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("failed to generate salt")
		return models.AuthResult{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := a.credentials.Hash(password, salt)
	if err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("failed to hash password")
		return models.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		DisplayEmail: email,
		PasswordHash: hash,
		Salt:         salt,
	}

	created, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.AuthResult{
				Errors: []models.FieldError{{Field: "email", Message: "email already in use"}},
			}, nil
		}
		log.Err(err).Str("func", "authService.Signup").Msg("user creation failed")
		return models.AuthResult{}, fmt.Errorf("user creation failed: %w", err)
	}

	if _, err := a.sessions.Create(ctx, jar, created); err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("session creation failed after signup")
		return models.AuthResult{}, fmt.Errorf("session creation failed after signup: %w", err)
	}

	// Guest data moves over only once the new session is in place, so a
	// failed session create leaves the guest row untouched.
	a.adoptGuestData(ctx, jar, created.UserID)

	return models.AuthResult{Success: true}, nil
}

// Login authenticates an existing account, starts a session, and adopts
// any guest data.
//
// Every credential failure (unknown email, wrong password, corrupt stored
// material) produces the same generic field error.
func (a *authService) Login(ctx context.Context, jar models.CookieJar, email, password string) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return genericCredentialFailure(), nil
	}

	found, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return genericCredentialFailure(), nil
		}
		log.Err(err).Str("func", "authService.Login").Msg("user lookup failed")
		return models.AuthResult{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !a.credentials.Verify(found.PasswordHash, password, found.Salt) {
		return genericCredentialFailure(), nil
	}

	if _, err := a.sessions.Create(ctx, jar, found); err != nil {
		log.Err(err).Str("func", "authService.Login").Msg("session creation failed after login")
		return models.AuthResult{}, fmt.Errorf("session creation failed after login: %w", err)
	}

	a.adoptGuestData(ctx, jar, found.UserID)

	return models.AuthResult{Success: true}, nil
}

// Logout clears the caller's cookies first and unconditionally, then does
// best-effort server-side cleanup. A pure-guest logout additionally
// deletes the guest row and its cookie: logging out as a guest discards
// the guest identity entirely.
func (a *authService) Logout(ctx context.Context, jar models.CookieJar, caller models.Caller) {
	log := logger.FromContext(ctx)

	a.sessions.Destroy(ctx, jar)

	if caller.Kind != models.CallerGuest || caller.GuestSessionID == "" {
		return
	}

	jar.Delete(a.guestCookie)

	if _, err := a.userRepository.DeleteGuest(ctx, caller.GuestSessionID); err != nil {
		log.Err(err).Str("func", "authService.Logout").Msg("best-effort guest delete failed")
		return
	}

	a.cache.InvalidateTags(cache.TagProfile, cache.TagLinks, cache.TagLinksCount)
}

// adoptGuestData runs the ownership transfer after a successful signup or
// login. Link transfer must precede profile transfer because the profile
// step consumes the guest row. Failures are logged and swallowed: losing
// guest drafts must never block authentication.
func (a *authService) adoptGuestData(ctx context.Context, jar models.CookieJar, userID int64) {
	log := logger.FromContext(ctx)

	if err := a.transfers.TransferLinks(ctx, jar, userID); err != nil {
		log.Err(err).Str("func", "authService.adoptGuestData").Msg("guest link transfer failed")
		return
	}

	if err := a.transfers.TransferProfile(ctx, jar, userID); err != nil {
		log.Err(err).Str("func", "authService.adoptGuestData").Msg("guest profile transfer failed")
		return
	}

	// the guest identity is consumed; a leftover cookie would resolve to a
	// guest that no longer exists
	jar.Delete(a.guestCookie)
}

func validateCredentials(email, password string) []models.FieldError {
	var fieldErrors []models.FieldError

	if email == "" || !strings.Contains(email, "@") {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "email", Message: "enter a valid email"})
	}
	if len(password) < minPasswordLength {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	return fieldErrors
}

func genericCredentialFailure() models.AuthResult {
	return models.AuthResult{
		Errors: []models.FieldError{{Field: "general", Message: genericCredentialMessage}},
	}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devlinks/internal/logger"
	"devlinks/models"

	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles registered accounts and guest records against the "users" table.
// Guest rows keep their links embedded in a JSONB column so a guest link
// mutation is always a single-row write.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateUser persists a new registered account and returns the populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists]. This is
//     the single arbiter for concurrent signups with the same email.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, createUser, user.Email, user.DisplayEmail, user.Username, user.PasswordHash, user.Salt)

	if err := row.Scan(&user.UserID, &user.CreatedAt); err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			log.Warn().Str("func", "*userRepository.CreateUser").Msg("duplicate email on signup")
			return models.User{}, ErrEmailAlreadyExists
		default:
			log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	user.Registered = true
	return user, nil
}

// FindUserByEmail retrieves the registered account whose login email matches.
//
// Returns [ErrNoUserWasFound] when no row matches, so login flows can map the
// miss to a generic credential failure without leaking which field was wrong.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	row := r.DB.QueryRowContext(ctx, findUserByEmail, email)

	err := row.Scan(
		&found.UserID,
		&found.Email,
		&found.DisplayEmail,
		&found.Username,
		&found.Image,
		&found.PasswordHash,
		&found.Salt,
		&found.Registered,
		&found.IsNotified,
		&found.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// FindUserByID retrieves a user record by its internal identifier. Credential
// columns are not selected.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	row := r.DB.QueryRowContext(ctx, findUserByID, userID)

	err := row.Scan(
		&found.UserID,
		&found.Email,
		&found.DisplayEmail,
		&found.Username,
		&found.Image,
		&found.Registered,
		&found.IsNotified,
		&found.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Int64("user_id", userID).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpsertGuest inserts a guest row for the given guest session identifier or,
// when one already exists, refreshes its sweep deadline and appends the
// payload links behind the stored list, renumbered to keep the embedded
// order dense. The canonical row is returned in both cases, so concurrent
// first-contact requests converge on a single guest record without losing
// either side's links.
func (r *userRepository) UpsertGuest(ctx context.Context, guest models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	// The conflict arm concatenates the payload onto the stored JSONB list,
	// so a nil slice has to encode as [] rather than null.
	links := guest.Links
	if links == nil {
		links = []models.Link{}
	}

	encodedLinks, err := json.Marshal(links)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpsertGuest").Msg("failed to encode guest links")
		return models.User{}, fmt.Errorf("%w: %w", ErrEncodingLinks, err)
	}

	row := r.DB.QueryRowContext(ctx, upsertGuest, guest.GuestSessionID, encodedLinks, guest.ExpiresAt)

	saved, err := scanGuestRow(row)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.UpsertGuest").
			Str("guest_session_id", guest.GuestSessionID).
			Msg("error upserting guest")
		return models.User{}, err
	}

	return saved, nil
}

// FindGuestBySessionID retrieves a guest record by its cookie-borne
// identifier. Returns [ErrNoGuestWasFound] when no row matches; guests are
// created lazily, so callers treat the miss as "nothing to do".
func (r *userRepository) FindGuestBySessionID(ctx context.Context, guestSessionID string) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, findGuestBySessionID, guestSessionID)

	found, err := scanGuestRow(row)
	if err != nil {
		if errors.Is(err, ErrNoGuestWasFound) {
			return models.User{}, err
		}
		log.Err(err).
			Str("func", "*userRepository.FindGuestBySessionID").
			Str("guest_session_id", guestSessionID).
			Msg("error finding guest")
		return models.User{}, err
	}

	return found, nil
}

// UpdateGuestLinks replaces the embedded link list of a guest in a single
// UPDATE, keeping the whole list change atomic.
//
// Returns [ErrNoGuestWasFound] when the guest row does not exist.
func (r *userRepository) UpdateGuestLinks(ctx context.Context, guestSessionID string, links []models.Link) error {
	log := logger.FromContext(ctx)

	encodedLinks, err := json.Marshal(links)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateGuestLinks").Msg("failed to encode guest links")
		return fmt.Errorf("%w: %w", ErrEncodingLinks, err)
	}

	result, err := r.DB.ExecContext(ctx, updateGuestLinks, guestSessionID, encodedLinks)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.UpdateGuestLinks").
			Str("guest_session_id", guestSessionID).
			Msg("error updating guest links")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNoGuestWasFound
	}

	return nil
}

// DeleteGuest removes a guest row. The registered=false guard makes the
// delete idempotent against a concurrent ownership transfer that already
// consumed the guest: a second call simply reports false.
func (r *userRepository) DeleteGuest(ctx context.Context, guestSessionID string) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, deleteGuest, guestSessionID)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.DeleteGuest").
			Str("guest_session_id", guestSessionID).
			Msg("error deleting guest")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// MergeProfile copies the non-blank profile fields of profile onto the user
// identified by userID. Blank fields are skipped entirely, so existing values
// are never overwritten with empty ones. A merge with no non-blank fields is
// a successful no-op.
func (r *userRepository) MergeProfile(ctx context.Context, userID int64, profile models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := buildMergeProfileQuery(userID, profile)
	if err != nil {
		if errors.Is(err, errNothingToUpdate) {
			log.Debug().
				Str("func", "*userRepository.MergeProfile").
				Int64("user_id", userID).
				Msg("no non-blank fields to merge")
			return nil
		}
		log.Err(err).Str("func", "*userRepository.MergeProfile").Msg("failed to build merge query")
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.MergeProfile").
			Int64("user_id", userID).
			Msg("error merging profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// SetNotified marks the user as having acknowledged the temporary-data
// warning.
func (r *userRepository) SetNotified(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setNotified, userID)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.SetNotified").
			Int64("user_id", userID).
			Msg("error setting notified flag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// DeleteExpiredGuests removes every guest row whose sweep deadline has
// passed. Called by the background sweeper; returns the number of rows
// removed for observability.
func (r *userRepository) DeleteExpiredGuests(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, deleteExpiredGuests, now)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteExpiredGuests").Msg("error deleting expired guests")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// scanGuestRow scans the guest column set shared by [upsertGuest] and
// [findGuestBySessionID], decoding the embedded JSONB link list.
func scanGuestRow(row *sql.Row) (models.User, error) {
	var guest models.User
	var encodedLinks []byte

	err := row.Scan(
		&guest.UserID,
		&guest.GuestSessionID,
		&guest.DisplayEmail,
		&guest.Username,
		&guest.Image,
		&encodedLinks,
		&guest.IsNotified,
		&guest.CreatedAt,
		&guest.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoGuestWasFound
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if len(encodedLinks) > 0 {
		if err := json.Unmarshal(encodedLinks, &guest.Links); err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrEncodingLinks, err)
		}
	}

	return guest, nil
}

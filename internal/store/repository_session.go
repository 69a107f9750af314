package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"devlinks/internal/logger"
	"devlinks/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. Session creation and the per-user expiration lineage
// are kept consistent inside a single transaction: inserting a new session
// always replaces whatever lineage the user had before, so at most one
// lineage exists per user at any time.
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateSession inserts a new session row together with its expiration
// lineage record inside one transaction. Any previous lineage rows for the
// user are deleted first.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session, expiration models.SessionExpiration) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteExpirationLineage, session.UserID); err != nil {
		log.Err(err).
			Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("failed to delete previous expiration lineage")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, createSession, session.SessionID, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		log.Err(err).
			Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("failed to insert session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, createExpiration, expiration.UserID, expiration.SessionID, expiration.SessionExpiredAt, expiration.ExpiresAt); err != nil {
		log.Err(err).
			Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("failed to insert expiration lineage")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// FindSession retrieves a session together with its owning user in a single
// denormalized read. Returns [ErrNoSessionWasFound] when the token matches no
// row; callers interpret the absence as an expired session since the sweeper
// may already have removed the row.
func (r *sessionRepository) FindSession(ctx context.Context, sessionID string) (models.Auth, error) {
	log := logger.FromContext(ctx)

	var auth models.Auth
	row := r.DB.QueryRowContext(ctx, findSession, sessionID)

	err := row.Scan(
		&auth.Session.SessionID,
		&auth.Session.UserID,
		&auth.Session.CreatedAt,
		&auth.Session.ExpiresAt,
		&auth.User.UserID,
		&auth.User.Email,
		&auth.User.DisplayEmail,
		&auth.User.Username,
		&auth.User.Image,
		&auth.User.Registered,
		&auth.User.IsNotified,
		&auth.User.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Auth{}, ErrNoSessionWasFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindSession").Msg("error: scanning error")
		return models.Auth{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return auth, nil
}

// FindExpiration retrieves the most recent expiration lineage record for the
// given user. Returns [ErrNoExpirationWasFound] when the user has none.
func (r *sessionRepository) FindExpiration(ctx context.Context, userID int64) (models.SessionExpiration, error) {
	log := logger.FromContext(ctx)

	var expiration models.SessionExpiration
	row := r.DB.QueryRowContext(ctx, findExpiration, userID)

	err := row.Scan(
		&expiration.UserID,
		&expiration.SessionID,
		&expiration.SessionExpiredAt,
		&expiration.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionExpiration{}, ErrNoExpirationWasFound
		}
		log.Err(err).
			Str("func", "*sessionRepository.FindExpiration").
			Int64("user_id", userID).
			Msg("error: scanning error")
		return models.SessionExpiration{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return expiration, nil
}

// DeleteSession removes a session row. Deleting an already absent session is
// not an error: logout must succeed regardless of server-side state.
func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteSession, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSession").Msg("error deleting session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpirationsBySession removes the expiration lineage of the user who
// owns the given session. Runs before the session row itself goes away, so
// the owner can still be resolved through a subquery in one round trip.
func (r *sessionRepository) DeleteExpirationsBySession(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteExpirationsBySession, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpirationsBySession").Msg("error deleting expiration lineage")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpiredSessions removes sessions and expiration lineage rows past
// their deadlines. Called by the background sweeper; returns the combined
// number of rows removed.
func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	sessionsResult, err := r.DB.ExecContext(ctx, deleteExpiredSessions, now)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("error deleting expired sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	expirationsResult, err := r.DB.ExecContext(ctx, deleteExpiredExpirations, now)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("error deleting expired lineage records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	sessionsRemoved, _ := sessionsResult.RowsAffected()
	expirationsRemoved, _ := expirationsResult.RowsAffected()

	return sessionsRemoved + expirationsRemoved, nil
}

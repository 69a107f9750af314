package store

import (
	"errors"
	"fmt"

	"devlinks/models"

	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (email, display_email, username, password_hash, salt, registered)
    VALUES ($1, $2, $3, $4, $5, TRUE)
    RETURNING user_id, created_at;`

	findUserByEmail = `SELECT user_id, email, display_email, username, image, password_hash, salt, registered, is_notified, created_at
    FROM users
    WHERE email = $1 AND registered = TRUE;`

	findUserByID = `SELECT user_id, COALESCE(email, ''), display_email, username, image, registered, is_notified, created_at
    FROM users
    WHERE user_id = $1;`

	upsertGuest = `INSERT INTO users (guest_session_id, registered, links, expires_at)
    VALUES ($1, FALSE, $2, $3)
    ON CONFLICT (guest_session_id) WHERE guest_session_id IS NOT NULL
        DO UPDATE SET
            expires_at = EXCLUDED.expires_at,
            links = users.links || COALESCE(
                (SELECT jsonb_agg(jsonb_set(e.value, '{order}', to_jsonb(jsonb_array_length(users.links) + e.ord)))
                 FROM jsonb_array_elements(EXCLUDED.links) WITH ORDINALITY AS e(value, ord)),
                '[]'::jsonb)
    RETURNING user_id, guest_session_id, display_email, username, image, links, is_notified, created_at, expires_at;`

	findGuestBySessionID = `SELECT user_id, guest_session_id, display_email, username, image, links, is_notified, created_at, expires_at
    FROM users
    WHERE guest_session_id = $1 AND registered = FALSE;`

	updateGuestLinks = `UPDATE users
    SET links = $2
    WHERE guest_session_id = $1 AND registered = FALSE;`

	deleteGuest = `DELETE FROM users
    WHERE guest_session_id = $1 AND registered = FALSE;`

	setNotified = `UPDATE users
    SET is_notified = TRUE
    WHERE user_id = $1;`

	deleteExpiredGuests = `DELETE FROM users
    WHERE registered = FALSE AND expires_at IS NOT NULL AND expires_at <= $1;`
)

const (
	createSession = `INSERT INTO sessions (session_id, user_id, created_at, expires_at)
    VALUES ($1, $2, $3, $4);`

	deleteExpirationLineage = `DELETE FROM session_expirations
    WHERE user_id = $1;`

	deleteExpirationsBySession = `DELETE FROM session_expirations
    WHERE user_id IN (SELECT user_id FROM sessions WHERE session_id = $1);`

	createExpiration = `INSERT INTO session_expirations (user_id, session_id, session_expired_at, expires_at)
    VALUES ($1, $2, $3, $4);`

	findSession = `SELECT s.session_id, s.user_id, s.created_at, s.expires_at,
           u.user_id, COALESCE(u.email, ''), u.display_email, u.username, u.image, u.registered, u.is_notified, u.created_at
    FROM sessions s
    JOIN users u ON u.user_id = s.user_id
    WHERE s.session_id = $1;`

	findExpiration = `SELECT user_id, session_id, session_expired_at, expires_at
    FROM session_expirations
    WHERE user_id = $1
    ORDER BY session_expired_at DESC
    LIMIT 1;`

	deleteSession = `DELETE FROM sessions
    WHERE session_id = $1;`

	deleteExpiredSessions = `DELETE FROM sessions
    WHERE expires_at <= $1;`

	deleteExpiredExpirations = `DELETE FROM session_expirations
    WHERE expires_at <= $1;`
)

const (
	listLinks = `SELECT link_id, user_id, platform, url, sort_order, created_at
    FROM links
    WHERE user_id = $1
    ORDER BY sort_order;`

	countLinks = `SELECT COUNT(*)
    FROM links
    WHERE user_id = $1;`

	createLink = `INSERT INTO links (user_id, platform, url, sort_order)
    VALUES ($1, $2, $3, COALESCE((SELECT MAX(l.sort_order) FROM links l WHERE l.user_id = $1), 0) + 1)
    RETURNING link_id, sort_order, created_at;`

	maxLinkOrder = `SELECT COALESCE(MAX(sort_order), 0)
    FROM links
    WHERE user_id = $1;`

	createLinkAtOrder = `INSERT INTO links (user_id, platform, url, sort_order, created_at)
    VALUES ($1, $2, $3, $4, COALESCE($5, now()));`

	deleteLinkReturningOrder = `DELETE FROM links
    WHERE user_id = $1 AND link_id = $2
    RETURNING sort_order;`

	renumberLinksAfter = `UPDATE links
    SET sort_order = sort_order - 1
    WHERE user_id = $1 AND sort_order > $2;`
)

// errNothingToUpdate signals that a dynamic UPDATE builder received no
// changed fields. Repositories treat it as a successful no-op.
var errNothingToUpdate = errors.New("no fields to update")

// buildMergeProfileQuery builds an UPDATE that copies only the non-blank
// profile fields onto the target user row. Blank source fields never
// overwrite existing values.
func buildMergeProfileQuery(userID int64, profile models.User) (string, []any, error) {
	builder := sq.Update("users").PlaceholderFormat(sq.Dollar)

	changes := 0
	if profile.DisplayEmail != "" {
		builder = builder.Set("display_email", profile.DisplayEmail)
		changes++
	}
	if profile.Username != "" {
		builder = builder.Set("username", profile.Username)
		changes++
	}
	if profile.Image != "" {
		builder = builder.Set("image", profile.Image)
		changes++
	}

	if changes == 0 {
		return "", nil, errNothingToUpdate
	}

	query, args, err := builder.Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateLinkQuery builds a partial UPDATE for a single link. Only the
// fields present in the update are written.
func buildUpdateLinkQuery(userID int64, update models.LinkUpdate) (string, []any, error) {
	builder := sq.Update("links").PlaceholderFormat(sq.Dollar)

	changes := 0
	if update.Platform != nil {
		builder = builder.Set("platform", *update.Platform)
		changes++
	}
	if update.URL != nil {
		builder = builder.Set("url", *update.URL)
		changes++
	}
	if update.Order != nil {
		builder = builder.Set("sort_order", *update.Order)
		changes++
	}

	if changes == 0 {
		return "", nil, errNothingToUpdate
	}

	query, args, err := builder.
		Where(sq.Eq{"link_id": update.LinkID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

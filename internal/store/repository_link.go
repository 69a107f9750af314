package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"devlinks/internal/logger"
	"devlinks/models"
)

// linkRepository is the PostgreSQL-backed implementation of [LinkRepository].
// It maintains the dense 1-based sort_order invariant for each owner: new
// links append at max+1 and a delete renumbers everything behind it inside
// the same transaction.
type linkRepository struct {
	*DB
	logger *logger.Logger
}

// NewLinkRepository constructs a [LinkRepository] backed by the provided
// database connection and logger.
func NewLinkRepository(db *DB, logger *logger.Logger) LinkRepository {
	logger.Debug().Msg("creating link repository")
	return &linkRepository{
		DB:     db,
		logger: logger,
	}
}

// ListLinks retrieves every link of the given owner ordered by sort_order.
// Returns an empty slice when the owner has no links.
func (r *linkRepository) ListLinks(ctx context.Context, userID int64) ([]models.Link, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, listLinks, userID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "linkRepository.ListLinks").
			Int64("user_id", userID).
			Msg("failed to execute query for listing links")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	links := make([]models.Link, 0, 10)

	for rows.Next() {
		var link models.Link

		scanErr := rows.Scan(
			&link.LinkID,
			&link.UserID,
			&link.Platform,
			&link.URL,
			&link.Order,
			&link.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "linkRepository.ListLinks").
				Int64("user_id", userID).
				Msg("failed to scan link row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		links = append(links, link)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "linkRepository.ListLinks").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return links, nil
}

// CountLinks returns how many links the owner currently has.
func (r *linkRepository) CountLinks(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := r.DB.QueryRowContext(ctx, countLinks, userID).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "linkRepository.CountLinks").
			Int64("user_id", userID).
			Msg("failed to count links")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// CreateLink appends a single link at the owner's next sort_order. The order
// is computed inside the INSERT itself, so concurrent appends cannot read a
// stale max.
func (r *linkRepository) CreateLink(ctx context.Context, link models.Link) (models.Link, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, createLink, link.UserID, link.Platform, link.URL)

	if err := row.Scan(&link.LinkID, &link.Order, &link.CreatedAt); err != nil {
		log.Err(err).
			Str("func", "linkRepository.CreateLink").
			Int64("user_id", link.UserID).
			Msg("failed to insert link")
		return models.Link{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return link, nil
}

// CreateLinks appends a batch of links behind the owner's current maximum
// order inside a single transaction, preserving the relative order of the
// input. Used by the ownership transfer to copy a guest's embedded links.
//
// An empty batch is a no-op.
func (r *linkRepository) CreateLinks(ctx context.Context, userID int64, links []models.Link) error {
	log := logger.FromContext(ctx)

	if len(links) == 0 {
		log.Debug().
			Str("func", "linkRepository.CreateLinks").
			Int64("user_id", userID).
			Msg("no links provided")
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "linkRepository.CreateLinks").
			Int64("user_id", userID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var maxOrder int
	if err := tx.QueryRowContext(ctx, maxLinkOrder, userID).Scan(&maxOrder); err != nil {
		log.Err(err).
			Str("func", "linkRepository.CreateLinks").
			Int64("user_id", userID).
			Msg("failed to read current max order")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	stmt, err := tx.PrepareContext(ctx, createLinkAtOrder)
	if err != nil {
		log.Err(err).
			Str("func", "linkRepository.CreateLinks").
			Int64("user_id", userID).
			Msg("failed to prepare insert statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, link := range links {
		// A zero CreatedAt falls back to the column default; adopted links
		// carry their original timestamp through.
		createdAt := sql.NullTime{Time: link.CreatedAt, Valid: !link.CreatedAt.IsZero()}

		result, execErr := stmt.ExecContext(ctx, userID, link.Platform, link.URL, maxOrder+idx+1, createdAt)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "linkRepository.CreateLinks").
				Int("iteration", idx+1).
				Int("total", len(links)).
				Msg("failed to insert link in transaction")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			log.Error().
				Str("func", "linkRepository.CreateLinks").
				Int("iteration", idx+1).
				Msg("link was not saved")
			return ErrLinkNotSaved
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "linkRepository.CreateLinks").
			Int64("user_id", userID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// UpdateLink applies a partial update to a single link owned by userID. Only
// the fields present in the update are written; an update with no fields is
// a successful no-op. Returns [ErrLinkNotFound] when the target link does
// not exist or belongs to another owner.
func (r *linkRepository) UpdateLink(ctx context.Context, userID int64, update models.LinkUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateLinkQuery(userID, update)
	if err != nil {
		if errors.Is(err, errNothingToUpdate) {
			log.Debug().
				Str("func", "linkRepository.UpdateLink").
				Int64("link_id", update.LinkID).
				Msg("no fields to update")
			return nil
		}
		log.Err(err).Str("func", "linkRepository.UpdateLink").Msg("failed to build update query")
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "linkRepository.UpdateLink").
			Int64("link_id", update.LinkID).
			Int64("user_id", userID).
			Msg("failed to execute update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// DeleteLink removes a link and renumbers every link behind it, both inside
// one transaction so the dense order invariant holds even under failure.
// Returns [ErrLinkNotFound] when the target link does not exist or belongs
// to another owner.
func (r *linkRepository) DeleteLink(ctx context.Context, userID int64, linkID int64) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "linkRepository.DeleteLink").
			Int64("link_id", linkID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var deletedOrder int
	err = tx.QueryRowContext(ctx, deleteLinkReturningOrder, userID, linkID).Scan(&deletedOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().
				Str("func", "linkRepository.DeleteLink").
				Int64("link_id", linkID).
				Int64("user_id", userID).
				Msg("link not found")
			return ErrLinkNotFound
		}
		log.Err(err).
			Str("func", "linkRepository.DeleteLink").
			Int64("link_id", linkID).
			Msg("failed to execute delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err := tx.ExecContext(ctx, renumberLinksAfter, userID, deletedOrder); err != nil {
		log.Err(err).
			Str("func", "linkRepository.DeleteLink").
			Int64("link_id", linkID).
			Msg("failed to renumber remaining links")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "linkRepository.DeleteLink").
			Int64("link_id", linkID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

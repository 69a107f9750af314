package service

import (
	"context"
	"errors"
	"fmt"

	"devlinks/internal/cache"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/models"
)

// transferService is the concrete implementation of [TransferService]: the
// ownership-transfer protocol that moves a guest's data onto a freshly
// authenticated account.
//
// The protocol runs in two ordered steps. TransferLinks copies the guest's
// embedded links into the links table and leaves the guest row alone, so a
// crash between the steps loses nothing. TransferProfile then merges the
// non-blank display fields and deletes the guest row, consuming the guest
// identity. The conditional delete (registered=false guard in the store)
// makes a replay of the second step a no-op.
type transferService struct {
	userRepository store.UserRepository
	linkRepository store.LinkRepository

	guests GuestService
	cache  *cache.TagCache

	logger *logger.Logger
}

// NewTransferService constructs a [TransferService].
func NewTransferService(userRepository store.UserRepository, linkRepository store.LinkRepository, guests GuestService, tagCache *cache.TagCache, logger *logger.Logger) TransferService {
	return &transferService{
		userRepository: userRepository,
		linkRepository: linkRepository,
		guests:         guests,
		cache:          tagCache,
		logger:         logger,
	}
}

// TransferLinks appends the guest's embedded links to the registered user's
// link list, preserving their relative order behind any links the account
// already has. The guest row is not modified. Without a guest cookie, or
// when the guest row never materialized, the transfer is a no-op.
func (t *transferService) TransferLinks(ctx context.Context, jar models.CookieJar, userID int64) error {
	log := logger.FromContext(ctx)

	guestSessionID, ok := t.guests.Get(jar)
	if !ok {
		return nil
	}

	guest, err := t.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return nil
		}
		log.Err(err).Str("func", "transferService.TransferLinks").Msg("guest lookup failed")
		return fmt.Errorf("guest lookup failed: %w", err)
	}

	if len(guest.Links) == 0 {
		return nil
	}

	if err := t.linkRepository.CreateLinks(ctx, userID, guest.Links); err != nil {
		log.Err(err).
			Str("func", "transferService.TransferLinks").
			Int64("user_id", userID).
			Int("links_count", len(guest.Links)).
			Msg("failed to copy guest links")
		return fmt.Errorf("failed to copy guest links: %w", err)
	}

	t.cache.InvalidateTags(cache.TagLinks, cache.TagLinksCount)

	log.Info().
		Str("func", "transferService.TransferLinks").
		Int64("user_id", userID).
		Int("links_count", len(guest.Links)).
		Msg("guest links transferred")

	return nil
}

// TransferProfile merges the guest's non-blank display fields onto the
// registered account and deletes the guest row. Must run after
// TransferLinks: the delete consumes the guest identity the link step
// reads from. Without a guest cookie the transfer is a no-op.
func (t *transferService) TransferProfile(ctx context.Context, jar models.CookieJar, userID int64) error {
	log := logger.FromContext(ctx)

	guestSessionID, ok := t.guests.Get(jar)
	if !ok {
		return nil
	}

	guest, err := t.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return nil
		}
		log.Err(err).Str("func", "transferService.TransferProfile").Msg("guest lookup failed")
		return fmt.Errorf("guest lookup failed: %w", err)
	}

	if err := t.userRepository.MergeProfile(ctx, userID, guest); err != nil {
		log.Err(err).
			Str("func", "transferService.TransferProfile").
			Int64("user_id", userID).
			Msg("failed to merge guest profile")
		return fmt.Errorf("failed to merge guest profile: %w", err)
	}

	if _, err := t.userRepository.DeleteGuest(ctx, guestSessionID); err != nil {
		log.Err(err).
			Str("func", "transferService.TransferProfile").
			Str("guest_session_id", guestSessionID).
			Msg("failed to delete consumed guest")
		return fmt.Errorf("failed to delete consumed guest: %w", err)
	}

	t.cache.InvalidateTag(cache.TagProfile)

	log.Info().
		Str("func", "transferService.TransferProfile").
		Int64("user_id", userID).
		Msg("guest profile transferred")

	return nil
}

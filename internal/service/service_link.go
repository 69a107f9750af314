package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devlinks/internal/cache"
	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/models"
)

const linkCacheTTL = time.Minute

// linkService is the concrete implementation of [LinkService]. Registered
// owners keep links in the links table; guests keep them embedded in their
// user row, addressed by 1-based position. Both representations maintain
// the dense order invariant.
type linkService struct {
	linkRepository store.LinkRepository
	userRepository store.UserRepository

	cache         *cache.TagCache
	guestDuration time.Duration

	logger *logger.Logger
}

// NewLinkService constructs a [LinkService].
func NewLinkService(linkRepository store.LinkRepository, userRepository store.UserRepository, tagCache *cache.TagCache, cfg config.Auth, logger *logger.Logger) LinkService {
	return &linkService{
		linkRepository: linkRepository,
		userRepository: userRepository,
		cache:          tagCache,
		guestDuration:  cfg.GuestDuration,
		logger:         logger,
	}
}

// List returns the caller's links in display order. Expired and anonymous
// callers own nothing and get an empty list.
func (l *linkService) List(ctx context.Context, caller models.Caller) ([]models.Link, error) {
	switch caller.Kind {
	case models.CallerRegistered:
		return l.listRegistered(ctx, caller.UserID)
	case models.CallerGuest:
		guest, err := l.findGuest(ctx, caller.GuestSessionID)
		if err != nil {
			return nil, err
		}
		return guest.Links, nil
	default:
		return []models.Link{}, nil
	}
}

// Count returns how many links the caller owns.
func (l *linkService) Count(ctx context.Context, caller models.Caller) (int, error) {
	switch caller.Kind {
	case models.CallerRegistered:
		cacheKey := "links-count:" + strconv.FormatInt(caller.UserID, 10)
		if cached, hit := l.cache.Get(cacheKey); hit {
			return cached.(int), nil
		}

		count, err := l.linkRepository.CountLinks(ctx, caller.UserID)
		if err != nil {
			return 0, err
		}

		l.cache.Set(cacheKey, count, linkCacheTTL, cache.TagLinksCount)
		return count, nil
	case models.CallerGuest:
		guest, err := l.findGuest(ctx, caller.GuestSessionID)
		if err != nil {
			return 0, err
		}
		return len(guest.Links), nil
	default:
		return 0, nil
	}
}

// Create appends a link at the caller's next order position. For a guest
// the backing row is created lazily on this first write. Only registered
// and guest callers may create links.
func (l *linkService) Create(ctx context.Context, caller models.Caller, link models.Link) (models.Link, error) {
	log := logger.FromContext(ctx)

	if err := validateLink(&link); err != nil {
		return models.Link{}, err
	}

	switch caller.Kind {
	case models.CallerRegistered:
		link.UserID = caller.UserID
		created, err := l.linkRepository.CreateLink(ctx, link)
		if err != nil {
			log.Err(err).Str("func", "linkService.Create").Msg("failed to create link")
			return models.Link{}, fmt.Errorf("failed to create link: %w", err)
		}

		l.cache.InvalidateTags(cache.TagLinks, cache.TagLinksCount)
		return created, nil

	case models.CallerGuest:
		return l.createGuestLink(ctx, caller.GuestSessionID, link)

	default:
		return models.Link{}, ErrNotAuthorized
	}
}

// Update applies a batch of partial link updates. For guests the LinkID
// addresses the 1-based position inside the embedded list.
func (l *linkService) Update(ctx context.Context, caller models.Caller, updates []models.LinkUpdate) error {
	log := logger.FromContext(ctx)

	if len(updates) == 0 {
		return nil
	}

	for idx, update := range updates {
		if update.Platform != nil && !models.ValidPlatform(*update.Platform) {
			return ErrInvalidPlatform
		}
		if update.URL != nil {
			normalized := normalizeURL(*update.URL)
			if err := validateURL(normalized); err != nil {
				return err
			}
			updates[idx].URL = &normalized
		}
	}

	switch caller.Kind {
	case models.CallerRegistered:
		for _, update := range updates {
			if err := l.linkRepository.UpdateLink(ctx, caller.UserID, update); err != nil {
				log.Err(err).
					Str("func", "linkService.Update").
					Int64("link_id", update.LinkID).
					Msg("failed to update link")
				return err
			}
		}

		l.cache.InvalidateTag(cache.TagLinks)
		return nil

	case models.CallerGuest:
		return l.updateGuestLinks(ctx, caller.GuestSessionID, updates)

	default:
		return ErrNotAuthorized
	}
}

// Delete removes a link and renumbers the remainder so link orders stay
// dense. For guests the linkID addresses the 1-based position inside the
// embedded list.
func (l *linkService) Delete(ctx context.Context, caller models.Caller, linkID int64) error {
	log := logger.FromContext(ctx)

	switch caller.Kind {
	case models.CallerRegistered:
		if err := l.linkRepository.DeleteLink(ctx, caller.UserID, linkID); err != nil {
			log.Err(err).
				Str("func", "linkService.Delete").
				Int64("link_id", linkID).
				Msg("failed to delete link")
			return err
		}

		l.cache.InvalidateTags(cache.TagLinks, cache.TagLinksCount)
		return nil

	case models.CallerGuest:
		return l.deleteGuestLink(ctx, caller.GuestSessionID, linkID)

	default:
		return ErrNotAuthorized
	}
}

func (l *linkService) listRegistered(ctx context.Context, userID int64) ([]models.Link, error) {
	cacheKey := "links:" + strconv.FormatInt(userID, 10)
	if cached, hit := l.cache.Get(cacheKey); hit {
		return cached.([]models.Link), nil
	}

	links, err := l.linkRepository.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	l.cache.Set(cacheKey, links, linkCacheTTL, cache.TagLinks)
	return links, nil
}

// findGuest returns the guest row or an empty guest when none exists yet.
func (l *linkService) findGuest(ctx context.Context, guestSessionID string) (models.User, error) {
	guest, err := l.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return models.User{GuestSessionID: guestSessionID}, nil
		}
		return models.User{}, err
	}
	return guest, nil
}

// createGuestLink appends to the embedded list, creating the guest row on
// first write.
func (l *linkService) createGuestLink(ctx context.Context, guestSessionID string, link models.Link) (models.Link, error) {
	log := logger.FromContext(ctx)

	guest, err := l.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNoGuestWasFound) {
			log.Err(err).Str("func", "linkService.createGuestLink").Msg("guest lookup failed")
			return models.Link{}, fmt.Errorf("guest lookup failed: %w", err)
		}

		link.Order = 1
		link.CreatedAt = time.Now()
		_, upsertErr := l.userRepository.UpsertGuest(ctx, models.User{
			GuestSessionID: guestSessionID,
			Links:          []models.Link{link},
			ExpiresAt:      time.Now().Add(l.guestDuration),
		})
		if upsertErr != nil {
			log.Err(upsertErr).Str("func", "linkService.createGuestLink").Msg("failed to create guest row")
			return models.Link{}, fmt.Errorf("failed to create guest row: %w", upsertErr)
		}
		return link, nil
	}

	link.Order = len(guest.Links) + 1
	link.CreatedAt = time.Now()
	guest.Links = append(guest.Links, link)

	if err := l.userRepository.UpdateGuestLinks(ctx, guestSessionID, guest.Links); err != nil {
		log.Err(err).Str("func", "linkService.createGuestLink").Msg("failed to append guest link")
		return models.Link{}, fmt.Errorf("failed to append guest link: %w", err)
	}

	return link, nil
}

func (l *linkService) updateGuestLinks(ctx context.Context, guestSessionID string, updates []models.LinkUpdate) error {
	guest, err := l.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return store.ErrLinkNotFound
		}
		return err
	}

	for _, update := range updates {
		position := int(update.LinkID)
		if position < 1 || position > len(guest.Links) {
			return store.ErrLinkNotFound
		}

		target := &guest.Links[position-1]
		if update.Platform != nil {
			target.Platform = *update.Platform
		}
		if update.URL != nil {
			target.URL = *update.URL
		}
		if update.Order != nil {
			target.Order = *update.Order
		}
	}

	return l.userRepository.UpdateGuestLinks(ctx, guestSessionID, guest.Links)
}

func (l *linkService) deleteGuestLink(ctx context.Context, guestSessionID string, linkID int64) error {
	guest, err := l.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return store.ErrLinkNotFound
		}
		return err
	}

	position := int(linkID)
	if position < 1 || position > len(guest.Links) {
		return store.ErrLinkNotFound
	}

	remaining := append(guest.Links[:position-1], guest.Links[position:]...)
	for idx := range remaining {
		remaining[idx].Order = idx + 1
	}

	return l.userRepository.UpdateGuestLinks(ctx, guestSessionID, remaining)
}

func validateLink(link *models.Link) error {
	if link.Platform == "" {
		link.Platform = models.DefaultPlatform
	}
	if !models.ValidPlatform(link.Platform) {
		return ErrInvalidPlatform
	}
	link.URL = normalizeURL(link.URL)
	return validateURL(link.URL)
}

// normalizeURL prefixes schemeless input with https:// so that
// "github.com/dev" and "https://github.com/dev" store the same value.
func normalizeURL(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

func validateURL(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

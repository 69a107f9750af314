package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"devlinks/internal/cache"
	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/internal/utils"
	"devlinks/models"
)

const profileCacheTTL = 5 * time.Minute

// MediaUploader pushes avatar images to the external media service and
// returns the hosted URL.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// profileService is the concrete implementation of [ProfileService].
type profileService struct {
	userRepository store.UserRepository
	linkRepository store.LinkRepository

	media MediaUploader
	cache *cache.TagCache

	guestDuration      time.Duration
	shareTokenSignKey  string
	shareTokenIssuer   string
	shareTokenDuration time.Duration

	logger *logger.Logger
}

// NewProfileService constructs a [ProfileService]. media may be nil, in
// which case avatar uploads return [ErrMediaNotEnabled].
func NewProfileService(userRepository store.UserRepository, linkRepository store.LinkRepository, media MediaUploader, tagCache *cache.TagCache, cfg config.Auth, logger *logger.Logger) ProfileService {
	return &profileService{
		userRepository:     userRepository,
		linkRepository:     linkRepository,
		media:              media,
		cache:              tagCache,
		guestDuration:      cfg.GuestDuration,
		shareTokenSignKey:  cfg.ShareTokenSignKey,
		shareTokenIssuer:   cfg.ShareTokenIssuer,
		shareTokenDuration: cfg.ShareTokenDuration,
		logger:             logger,
	}
}

// Get returns the caller's profile view. Guest views carry the embedded
// link list; registered views are cached briefly since they sit on the
// render path of every editor page.
func (p *profileService) Get(ctx context.Context, caller models.Caller) (models.ProfileView, error) {
	switch caller.Kind {
	case models.CallerRegistered:
		cacheKey := "profile:" + strconv.FormatInt(caller.UserID, 10)
		if cached, hit := p.cache.Get(cacheKey); hit {
			return cached.(models.ProfileView), nil
		}

		user, err := p.userRepository.FindUserByID(ctx, caller.UserID)
		if err != nil {
			return models.ProfileView{}, err
		}

		view := models.ProfileView{
			Username:     user.Username,
			DisplayEmail: user.DisplayEmail,
			Image:        user.Image,
			Registered:   true,
		}

		p.cache.Set(cacheKey, view, profileCacheTTL, cache.TagProfile)
		return view, nil

	case models.CallerGuest:
		guest, err := p.userRepository.FindGuestBySessionID(ctx, caller.GuestSessionID)
		if err != nil {
			if errors.Is(err, store.ErrNoGuestWasFound) {
				return models.ProfileView{}, nil
			}
			return models.ProfileView{}, err
		}

		return models.ProfileView{
			Username:     guest.Username,
			DisplayEmail: guest.DisplayEmail,
			Image:        guest.Image,
			Links:        guest.Links,
		}, nil

	default:
		return models.ProfileView{}, ErrNotAuthorized
	}
}

// Update merges the non-blank display fields onto the caller's record. For
// a guest the backing row is created lazily on this first write.
func (p *profileService) Update(ctx context.Context, caller models.Caller, profile models.User) error {
	log := logger.FromContext(ctx)

	switch caller.Kind {
	case models.CallerRegistered:
		if err := p.userRepository.MergeProfile(ctx, caller.UserID, profile); err != nil {
			log.Err(err).
				Str("func", "profileService.Update").
				Int64("user_id", caller.UserID).
				Msg("failed to merge profile")
			return err
		}

		p.cache.InvalidateTag(cache.TagProfile)
		return nil

	case models.CallerGuest:
		guest, err := p.ensureGuest(ctx, caller.GuestSessionID)
		if err != nil {
			return err
		}
		if err := p.userRepository.MergeProfile(ctx, guest.UserID, profile); err != nil {
			log.Err(err).
				Str("func", "profileService.Update").
				Str("guest_session_id", caller.GuestSessionID).
				Msg("failed to merge guest profile")
			return err
		}
		return nil

	default:
		return ErrNotAuthorized
	}
}

// UploadAvatar pushes the image to the media service and records the
// hosted URL as the caller's avatar.
func (p *profileService) UploadAvatar(ctx context.Context, caller models.Caller, filename string, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	if p.media == nil {
		return "", ErrMediaNotEnabled
	}
	if caller.Kind != models.CallerRegistered && caller.Kind != models.CallerGuest {
		return "", ErrNotAuthorized
	}

	hostedURL, err := p.media.Upload(ctx, filename, data)
	if err != nil {
		log.Err(err).Str("func", "profileService.UploadAvatar").Msg("media upload failed")
		return "", fmt.Errorf("media upload failed: %w", err)
	}

	if err := p.Update(ctx, caller, models.User{Image: hostedURL}); err != nil {
		return "", err
	}

	return hostedURL, nil
}

// NoticeStatus reports whether the guest welcome notification should be
// shown to the caller.
func (p *profileService) NoticeStatus(ctx context.Context, caller models.Caller) (models.GuestNoticeStatus, error) {
	if caller.Kind != models.CallerGuest {
		return models.GuestNoticeStatus{Status: "no-guest"}, nil
	}

	guest, err := p.userRepository.FindGuestBySessionID(ctx, caller.GuestSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNoGuestWasFound) {
			return models.GuestNoticeStatus{Status: "no-guest"}, nil
		}
		return models.GuestNoticeStatus{}, err
	}

	if guest.IsNotified {
		return models.GuestNoticeStatus{Status: "already-notified"}, nil
	}

	return models.GuestNoticeStatus{Status: "should-show"}, nil
}

// MarkNotified records that the guest acknowledged the temporary-data
// warning, creating the backing row when needed.
func (p *profileService) MarkNotified(ctx context.Context, caller models.Caller) error {
	if caller.Kind != models.CallerGuest {
		return ErrNotAuthorized
	}

	guest, err := p.ensureGuest(ctx, caller.GuestSessionID)
	if err != nil {
		return err
	}

	return p.userRepository.SetNotified(ctx, guest.UserID)
}

// Share issues a signed public preview token for the caller's profile.
// Only registered owners can share: a guest profile is transient by
// definition.
func (p *profileService) Share(ctx context.Context, caller models.Caller) (models.ShareToken, error) {
	log := logger.FromContext(ctx)

	if caller.Kind != models.CallerRegistered {
		return models.ShareToken{}, ErrNotAuthorized
	}

	token, err := utils.GenerateShareToken(p.shareTokenIssuer, caller.UserID, p.shareTokenDuration, p.shareTokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "profileService.Share").Msg("failed to issue share token")
		return models.ShareToken{}, fmt.Errorf("failed to issue share token: %w", err)
	}

	return token, nil
}

// Shared resolves a share token to the public projection of its owner's
// profile: display fields and links, nothing account-related.
func (p *profileService) Shared(ctx context.Context, token string) (models.PublicProfile, error) {
	log := logger.FromContext(ctx)

	parsed, err := utils.ValidateAndParseShareToken(token, p.shareTokenSignKey, p.shareTokenIssuer)
	if err != nil {
		return models.PublicProfile{}, ErrTokenIsExpired
	}

	cacheKey := "shared:" + strconv.FormatInt(parsed.UserID, 10)
	if cached, hit := p.cache.Get(cacheKey); hit {
		return cached.(models.PublicProfile), nil
	}

	user, err := p.userRepository.FindUserByID(ctx, parsed.UserID)
	if err != nil {
		log.Err(err).
			Str("func", "profileService.Shared").
			Int64("user_id", parsed.UserID).
			Msg("shared profile lookup failed")
		return models.PublicProfile{}, err
	}

	links, err := p.linkRepository.ListLinks(ctx, parsed.UserID)
	if err != nil {
		log.Err(err).
			Str("func", "profileService.Shared").
			Int64("user_id", parsed.UserID).
			Msg("shared links lookup failed")
		return models.PublicProfile{}, err
	}

	profile := models.PublicProfile{
		Username:     user.Username,
		DisplayEmail: user.DisplayEmail,
		Image:        user.Image,
		Links:        links,
	}

	p.cache.Set(cacheKey, profile, profileCacheTTL, cache.TagProfile, cache.TagLinks)

	return profile, nil
}

// ensureGuest returns the guest row, creating it when absent.
func (p *profileService) ensureGuest(ctx context.Context, guestSessionID string) (models.User, error) {
	guest, err := p.userRepository.FindGuestBySessionID(ctx, guestSessionID)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, store.ErrNoGuestWasFound) {
		return models.User{}, err
	}

	return p.userRepository.UpsertGuest(ctx, models.User{
		GuestSessionID: guestSessionID,
		ExpiresAt:      time.Now().Add(p.guestDuration),
	})
}

package service

import (
	"devlinks/internal/cache"
	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/internal/utils"
)

// Services bundles every application service for handler wiring.
type Services struct {
	CredentialService CredentialService
	GuestService      GuestService
	SessionService    SessionService
	IdentityService   IdentityService
	TransferService   TransferService
	AuthService       AuthService
	LinkService       LinkService
	ProfileService    ProfileService
}

// NewServices wires the full service graph on top of the storages, the
// shared tag cache, and the (possibly nil) media uploader.
func NewServices(storages *store.Storages, tagCache *cache.TagCache, media MediaUploader, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	production := cfg.App.Production

	credentials := NewCredentialService(log)
	guests := NewGuestService(cfg.Auth, production, utils.NewUUIDGenerator(), log)
	sessions := NewSessionService(storages.SessionRepository, tagCache, cfg.Auth, production, log)
	identity := NewIdentityService(sessions, guests, cfg.Auth, production, log)
	transfers := NewTransferService(storages.UserRepository, storages.LinkRepository, guests, tagCache, log)
	auth := NewAuthService(storages.UserRepository, credentials, sessions, guests, transfers, tagCache, cfg.Auth, log)
	links := NewLinkService(storages.LinkRepository, storages.UserRepository, tagCache, cfg.Auth, log)
	profiles := NewProfileService(storages.UserRepository, storages.LinkRepository, media, tagCache, cfg.Auth, log)

	return &Services{
		CredentialService: credentials,
		GuestService:      guests,
		SessionService:    sessions,
		IdentityService:   identity,
		TransferService:   transfers,
		AuthService:       auth,
		LinkService:       links,
		ProfileService:    profiles,
	}
}

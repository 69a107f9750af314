package store

import "devlinks/internal/logger"

type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository
	LinkRepository    LinkRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		LinkRepository:    NewLinkRepository(db, log),
	}
}

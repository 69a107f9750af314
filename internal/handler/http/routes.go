package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// Identity resolution runs on every route. Nothing here rejects an
	// anonymous caller: each handler decides what anonymity means for it.
	router.Group(func(r chi.Router) {
		r.Use(h.withIdentity)

		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/session", h.session)

		r.Get("/api/links", h.listLinks)
		r.Post("/api/links", h.createLink)
		r.Patch("/api/links", h.updateLinks)
		r.Delete("/api/links/{id}", h.deleteLink)

		r.Get("/api/profile", h.getProfile)
		r.Put("/api/profile", h.updateProfile)
		r.Get("/api/profile/notice", h.noticeStatus)
		r.Post("/api/profile/notified", h.markNotified)
		r.Post("/api/profile/share", h.shareProfile)
	})

	// The public preview needs no identity at all.
	router.Get("/api/profile/shared", h.sharedProfile)

	return router
}

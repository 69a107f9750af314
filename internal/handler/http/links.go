package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"devlinks/internal/logger"
	"devlinks/internal/utils"
	"devlinks/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	links, err := h.services.LinkService.List(ctx, callerFromRequest(r))
	if err != nil {
		log.Err(err).Msg("failed to list links")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	if links == nil {
		links = []models.Link{}
	}

	utils.WriteJSON(w, links, http.StatusOK)
}

// createLink appends a link for the caller. An anonymous caller gets a
// guest identity minted here: creating a link is the first write that
// makes a visitor worth remembering.
func (h *Handler) createLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var link models.Link
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	caller := callerFromRequest(r)
	if caller.Kind == models.CallerAnonymous {
		caller = models.Caller{
			Kind:           models.CallerGuest,
			GuestSessionID: h.services.GuestService.GetOrCreate(newCookieJar(w, r)),
		}
	}

	created, err := h.services.LinkService.Create(ctx, caller, link)
	if err != nil {
		log.Err(err).Msg("failed to create link")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var updates []models.LinkUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.LinkService.Update(ctx, callerFromRequest(r), updates); err != nil {
		log.Err(err).Msg("failed to update links")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	linkID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Err(err).Msg("invalid link id")
		http.Error(w, "invalid link id", http.StatusBadRequest)
		return
	}

	if err := h.services.LinkService.Delete(ctx, callerFromRequest(r), linkID); err != nil {
		log.Err(err).Msg("failed to delete link")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"devlinks/internal/logger"
	"devlinks/internal/utils"
	"devlinks/models"
)

// maxAvatarBytes bounds the multipart form a profile update may carry.
const maxAvatarBytes = 10 << 20

type shareResponse struct {
	Token string `json:"token"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	view, err := h.services.ProfileService.Get(ctx, callerFromRequest(r))
	if err != nil {
		log.Err(err).Msg("failed to get profile")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

// updateProfile merges profile display fields. A multipart request may also
// carry an avatar file, which is pushed to the media service before the
// field merge so a failed upload leaves the profile untouched.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	caller := callerFromRequest(r)

	var profile models.User
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			log.Err(err).Msg("invalid multipart form")
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		profile.Username = r.FormValue("username")
		profile.DisplayEmail = r.FormValue("display_email")

		file, header, err := r.FormFile("avatar")
		if err == nil {
			data, readErr := io.ReadAll(file)
			file.Close()
			if readErr != nil {
				log.Err(readErr).Msg("failed to read avatar file")
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			if _, err := h.services.ProfileService.UploadAvatar(ctx, caller, header.Filename, data); err != nil {
				log.Err(err).Msg("failed to upload avatar")
				http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
				return
			}
		} else if err != http.ErrMissingFile {
			log.Err(err).Msg("invalid avatar file")
			http.Error(w, "invalid avatar file", http.StatusBadRequest)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
	}

	if profile.Username != "" || profile.DisplayEmail != "" {
		if err := h.services.ProfileService.Update(ctx, caller, profile); err != nil {
			log.Err(err).Msg("failed to update profile")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	view, err := h.services.ProfileService.Get(ctx, caller)
	if err != nil {
		log.Err(err).Msg("failed to reload profile")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) noticeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	status, err := h.services.ProfileService.NoticeStatus(ctx, callerFromRequest(r))
	if err != nil {
		log.Err(err).Msg("failed to get notice status")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) markNotified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.ProfileService.MarkNotified(ctx, callerFromRequest(r)); err != nil {
		log.Err(err).Msg("failed to mark guest as notified")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) shareProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, err := h.services.ProfileService.Share(ctx, callerFromRequest(r))
	if err != nil {
		log.Err(err).Msg("failed to issue share token")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, shareResponse{Token: token.SignedString}, http.StatusOK)
}

func (h *Handler) sharedProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	profile, err := h.services.ProfileService.Shared(ctx, token)
	if err != nil {
		log.Err(err).Msg("failed to resolve shared profile")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

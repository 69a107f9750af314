package http

import (
	"encoding/json"
	"net/http"

	"devlinks/internal/logger"
	"devlinks/internal/utils"
)

// credentialsRequest is the body of the signup and login endpoints.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Signup(ctx, newCookieJar(w, r), creds.Email, creds.Password)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during signup")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// field errors are expected outcomes of the form, not failures
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	utils.WriteJSON(w, result, status)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Login(ctx, newCookieJar(w, r), creds.Email, creds.Password)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}

	utils.WriteJSON(w, result, status)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.services.AuthService.Logout(ctx, newCookieJar(w, r), callerFromRequest(r))

	w.WriteHeader(http.StatusNoContent)
}

// session reports the caller identity resolved for this request. Clients
// use it to decide between the editor, the expired-session notice, and the
// login screen.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)

	utils.WriteJSON(w, sessionResponse{
		Kind:   caller.Kind.String(),
		UserID: caller.UserID,
	}, http.StatusOK)
}

type sessionResponse struct {
	Kind   string `json:"kind"`
	UserID int64  `json:"user_id,omitempty"`
}

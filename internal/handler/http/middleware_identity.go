package http

import (
	"context"
	"net/http"

	"devlinks/internal/cache"
	"devlinks/internal/utils"
	"devlinks/models"
)

// withIdentity resolves the caller identity exactly once per request and
// stores it in the request context under [utils.CallerCtxKey]. It also
// attaches the per-request memo so repeated session lookups further down
// the stack are answered from memory.
//
// The middleware never rejects a request: an unresolvable identity is an
// anonymous caller, and whether anonymous callers are allowed is each
// handler's decision.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := cache.WithRequestMemo(r.Context())

		caller := h.services.IdentityService.ResolveCaller(ctx, newCookieJar(w, r))
		ctx = context.WithValue(ctx, utils.CallerCtxKey, caller)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerFromRequest returns the caller resolved by withIdentity, degrading
// to anonymous when the middleware did not run.
func callerFromRequest(r *http.Request) models.Caller {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		return models.Caller{Kind: models.CallerAnonymous}
	}
	return caller
}

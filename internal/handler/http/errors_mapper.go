package http

import (
	"errors"
	"net/http"

	"devlinks/internal/service"
	"devlinks/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidPlatform:     http.StatusBadRequest,
	service.ErrInvalidURL:          http.StatusBadRequest,
	service.ErrWrongCredentials:    http.StatusUnauthorized,
	service.ErrTokenIsExpired:      http.StatusUnauthorized,
	service.ErrNotAuthorized:       http.StatusForbidden,
	service.ErrNoGuestPresent:      http.StatusNotFound,
	service.ErrMediaNotEnabled:     http.StatusServiceUnavailable,

	store.ErrEmailAlreadyExists:   http.StatusConflict,
	store.ErrNoUserWasFound:       http.StatusNotFound,
	store.ErrNoGuestWasFound:      http.StatusNotFound,
	store.ErrNoSessionWasFound:    http.StatusUnauthorized,
	store.ErrNoExpirationWasFound: http.StatusNotFound,
	store.ErrLinkNotFound:         http.StatusNotFound,
	store.ErrLinkNotSaved:         http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
	store.ErrEncodingLinks:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

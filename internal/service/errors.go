package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongCredentials    = errors.New("wrong email or password")

	ErrNotAuthorized  = errors.New("caller is not authorized for this operation")
	ErrNoGuestPresent = errors.New("no guest identity present")

	ErrInvalidPlatform = errors.New("unknown platform")
	ErrInvalidURL      = errors.New("invalid link url")

	ErrTokenIsExpired  = errors.New("share token is expired")
	ErrMediaNotEnabled = errors.New("media uploads are not configured")
)

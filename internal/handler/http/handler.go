// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and the cookie jar adapter for
// the REST API. Identity resolution, logging, and tracing concerns are all
// handled at this layer before requests are forwarded to the service
// layer.
package http

import (
	"devlinks/internal/logger"
	"devlinks/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

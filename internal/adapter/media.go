// Package adapter holds clients for external services the application
// depends on. Adapters translate between the service layer's interfaces
// and the wire formats of the remote side.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/internal/service"

	"github.com/go-resty/resty/v2"
)

// ErrUploadRejected is returned when the media service refuses the file
// (unsupported type, too large, bad credentials).
var ErrUploadRejected = errors.New("media service rejected the upload")

// mediaAdapter is the HTTP client for the external media service hosting
// avatar images. It implements [service.MediaUploader].
type mediaAdapter struct {
	client *resty.Client

	logger *logger.Logger
}

// uploadResponse is the body returned by the media service on success.
type uploadResponse struct {
	URL string `json:"url"`
}

// NewMediaAdapter constructs a [service.MediaUploader] from the media
// configuration. When no upload URL is configured the adapter is disabled
// and (nil, nil) is returned; the caller passes the nil uploader through
// and avatar uploads answer with a service-level error.
func NewMediaAdapter(cfg config.Media, logger *logger.Logger) (service.MediaUploader, error) {
	if strings.TrimSpace(cfg.UploadURL) == "" {
		return nil, nil
	}

	baseURL, err := normalizeBaseURL(cfg.UploadURL)
	if err != nil {
		return nil, fmt.Errorf("invalid media upload url: %w", err)
	}

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &mediaAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Upload implements [service.MediaUploader]. It POSTs the file as
// multipart form data to /upload and returns the hosted URL from the
// response body.
func (m *mediaAdapter) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		Post("/upload")
	if err != nil {
		return "", fmt.Errorf("media upload request: %w", err)
	}

	if err = mapUploadError(resp); err != nil {
		m.logger.Warn().
			Err(err).
			Str("func", "mediaAdapter.Upload").
			Int("status", resp.StatusCode()).
			Msg("media upload failed")
		return "", err
	}

	var body uploadResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("decode media upload response: %w", err)
	}
	if body.URL == "" {
		return "", errors.New("media service returned no url")
	}

	return body.URL, nil
}

func mapUploadError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() < http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d", ErrUploadRejected, resp.StatusCode())
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

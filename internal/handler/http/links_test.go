package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"devlinks/internal/service"
	"devlinks/internal/store"
	"devlinks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// GET /api/links
// ─────────────────────────────────────────────

func TestListLinks_ReturnsCallerLinks(t *testing.T) {
	h, m := newTestHandler(t)
	caller := registeredCaller(42)
	m.expectCaller(caller)
	m.links.EXPECT().List(gomock.Any(), caller).Return([]models.Link{
		{LinkID: 1, Platform: "GitHub", URL: "https://github.com/alice", Order: 1},
		{LinkID: 2, Platform: "Twitch", URL: "https://www.twitch.tv/alice", Order: 2},
	}, nil)

	rr := serve(h, http.MethodGet, "/api/links", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var links []models.Link
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &links))
	require.Len(t, links, 2)
	assert.Equal(t, "GitHub", links[0].Platform)
	assert.Equal(t, 2, links[1].Order)
}

// TestListLinks_EmptyListIsJSONArray pins the wire shape: clients iterate
// the response, so an empty list must encode as [] and never as null.
func TestListLinks_EmptyListIsJSONArray(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.links.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	rr := serve(h, http.MethodGet, "/api/links", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

// ─────────────────────────────────────────────
// POST /api/links
// ─────────────────────────────────────────────

func TestCreateLink_Registered(t *testing.T) {
	h, m := newTestHandler(t)
	caller := registeredCaller(42)
	m.expectCaller(caller)
	m.links.EXPECT().
		Create(gomock.Any(), caller, models.Link{Platform: "GitHub", URL: "https://github.com/alice"}).
		Return(models.Link{LinkID: 7, Platform: "GitHub", URL: "https://github.com/alice", Order: 1}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/links",
		`{"platform":"GitHub","url":"https://github.com/alice"}`)

	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Link
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(7), created.LinkID)
	assert.Equal(t, 1, created.Order)
}

// TestCreateLink_AnonymousMintsGuest verifies that the first link write of
// an anonymous visitor creates a guest identity instead of failing.
func TestCreateLink_AnonymousMintsGuest(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.guests.EXPECT().GetOrCreate(gomock.Any()).Return("guest-abc")
	m.links.EXPECT().
		Create(gomock.Any(), guestCaller("guest-abc"), gomock.Any()).
		Return(models.Link{Platform: "GitHub", URL: "https://github.com/alice", Order: 1}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/links",
		`{"platform":"GitHub","url":"https://github.com/alice"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateLink_InvalidPlatform(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(registeredCaller(42))
	m.links.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.Link{}, service.ErrInvalidPlatform)

	rr := serveJSON(h, http.MethodPost, "/api/links",
		`{"platform":"MySpace","url":"https://myspace.com/alice"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateLink_InvalidJSON(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(registeredCaller(42))

	rr := serveJSON(h, http.MethodPost, "/api/links", `{"platform":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ─────────────────────────────────────────────
// PATCH /api/links
// ─────────────────────────────────────────────

func TestUpdateLinks_Success(t *testing.T) {
	h, m := newTestHandler(t)
	caller := registeredCaller(42)
	m.expectCaller(caller)
	m.links.EXPECT().
		Update(gomock.Any(), caller, gomock.Len(2)).
		Return(nil)

	rr := serveJSON(h, http.MethodPatch, "/api/links",
		`[{"id":1,"order":2},{"id":2,"order":1}]`)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestUpdateLinks_AnonymousForbidden(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.links.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(service.ErrNotAuthorized)

	rr := serveJSON(h, http.MethodPatch, "/api/links", `[{"id":1,"order":2}]`)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// ─────────────────────────────────────────────
// DELETE /api/links/{id}
// ─────────────────────────────────────────────

func TestDeleteLink_Success(t *testing.T) {
	h, m := newTestHandler(t)
	caller := registeredCaller(42)
	m.expectCaller(caller)
	m.links.EXPECT().Delete(gomock.Any(), caller, int64(7)).Return(nil)

	rr := serve(h, http.MethodDelete, "/api/links/7", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDeleteLink_NonNumericID(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(registeredCaller(42))

	rr := serve(h, http.MethodDelete, "/api/links/seven", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteLink_NotFound(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(registeredCaller(42))
	m.links.EXPECT().
		Delete(gomock.Any(), gomock.Any(), int64(999)).
		Return(store.ErrLinkNotFound)

	rr := serve(h, http.MethodDelete, "/api/links/999", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"devlinks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// signup
// ─────────────────────────────────────────────

func TestSignup_Success(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.auth.EXPECT().
		Signup(gomock.Any(), gomock.Any(), "alice@example.com", "s3cret-password").
		Return(models.AuthResult{Success: true}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/auth/signup",
		`{"email":"alice@example.com","password":"s3cret-password"}`)

	require.Equal(t, http.StatusCreated, rr.Code)

	var result models.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
}

func TestSignup_FieldErrors(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.auth.EXPECT().
		Signup(gomock.Any(), gomock.Any(), "taken@example.com", "s3cret-password").
		Return(models.AuthResult{
			Success: false,
			Errors:  []models.FieldError{{Field: "email", Message: "email already in use"}},
		}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/auth/signup",
		`{"email":"taken@example.com","password":"s3cret-password"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var result models.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "email", result.Errors[0].Field)
}

func TestSignup_InvalidJSON(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())

	rr := serveJSON(h, http.MethodPost, "/api/auth/signup", `{"email": not-json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignup_StoreFailure(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.auth.EXPECT().
		Signup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.AuthResult{}, errors.New("connection refused"))

	rr := serveJSON(h, http.MethodPost, "/api/auth/signup",
		`{"email":"alice@example.com","password":"s3cret-password"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.auth.EXPECT().
		Login(gomock.Any(), gomock.Any(), "alice@example.com", "s3cret-password").
		Return(models.AuthResult{Success: true}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret-password"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var result models.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestLogin_WrongCredentials(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())
	m.auth.EXPECT().
		Login(gomock.Any(), gomock.Any(), "alice@example.com", "wrong").
		Return(models.AuthResult{
			Success: false,
			Errors:  []models.FieldError{{Field: "general", Message: "email or password is incorrect"}},
		}, nil)

	rr := serveJSON(h, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var result models.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "general", result.Errors[0].Field)
}

// ─────────────────────────────────────────────
// logout
// ─────────────────────────────────────────────

func TestLogout_PassesResolvedCaller(t *testing.T) {
	h, m := newTestHandler(t)
	caller := registeredCaller(42)
	m.expectCaller(caller)
	m.auth.EXPECT().Logout(gomock.Any(), gomock.Any(), caller)

	rr := serveJSON(h, http.MethodPost, "/api/auth/logout", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

// ─────────────────────────────────────────────
// session
// ─────────────────────────────────────────────

func TestSession_Registered(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(registeredCaller(42))

	rr := serve(h, http.MethodGet, "/api/auth/session", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"kind":"registered","user_id":42}`, rr.Body.String())
}

func TestSession_Anonymous(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(anonymousCaller())

	rr := serve(h, http.MethodGet, "/api/auth/session", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"kind":"anonymous"}`, rr.Body.String())
}

func TestSession_Expired(t *testing.T) {
	h, m := newTestHandler(t)
	m.expectCaller(models.Caller{Kind: models.CallerExpired, UserID: 42})

	rr := serve(h, http.MethodGet, "/api/auth/session", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"kind":"expired","user_id":42}`, rr.Body.String())
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"devlinks/internal/logger"
	"devlinks/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &userRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Email:        "john@example.com",
		DisplayEmail: "john@example.com",
		Username:     "John",
		PasswordHash: "hash",
		Salt:         "salt",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"user_id", "created_at"}).
		AddRow(1, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.DisplayEmail, user.Username, user.PasswordHash, user.Salt).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if !created.Registered {
		t.Error("expected created user to be registered")
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"user_id", "email", "display_email", "username", "image", "password_hash", "salt", "registered", "is_notified", "created_at"}).
		AddRow(1, "john@example.com", "john@example.com", "John", "", "hash", "salt", true, false, now)

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnRows(rows)

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "john@example.com" {
		t.Errorf("expected email john@example.com, got %s", found.Email)
	}
	if found.PasswordHash != "hash" {
		t.Errorf("expected password hash to be scanned, got %q", found.PasswordHash)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(ctx, "john@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), 5)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpsertGuest_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	expires := now.Add(168 * time.Hour)

	guest := models.User{
		GuestSessionID: "0191a-guest",
		Links: []models.Link{
			{Platform: "GitHub", URL: "https://github.com/john", Order: 1},
		},
		ExpiresAt: expires,
	}

	encodedLinks, _ := json.Marshal(guest.Links)

	rows := sqlmock.
		NewRows([]string{"user_id", "guest_session_id", "display_email", "username", "image", "links", "is_notified", "created_at", "expires_at"}).
		AddRow(7, guest.GuestSessionID, "", "", "", encodedLinks, false, now, expires)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(guest.GuestSessionID, encodedLinks, expires).
		WillReturnRows(rows)

	saved, err := repo.UpsertGuest(ctx, guest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", saved.UserID)
	}
	if len(saved.Links) != 1 || saved.Links[0].Platform != "GitHub" {
		t.Errorf("expected embedded link list to round-trip, got %+v", saved.Links)
	}
}

func TestUpsertGuest_NilLinksEncodeAsEmptyList(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	expires := now.Add(168 * time.Hour)
	guest := models.User{GuestSessionID: "0191a-guest", ExpiresAt: expires}

	rows := sqlmock.
		NewRows([]string{"user_id", "guest_session_id", "display_email", "username", "image", "links", "is_notified", "created_at", "expires_at"}).
		AddRow(7, guest.GuestSessionID, "", "", "", []byte("[]"), false, now, expires)

	// A JSON null payload would break the conflict arm's list concatenation.
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(guest.GuestSessionID, []byte("[]"), expires).
		WillReturnRows(rows)

	if _, err := repo.UpsertGuest(context.Background(), guest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertGuest_ConflictKeepsBothSides(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	expires := now.Add(168 * time.Hour)
	guest := models.User{
		GuestSessionID: "0191a-guest",
		Links:          []models.Link{{Platform: "GitLab", URL: "https://gitlab.com/john", Order: 1}},
		ExpiresAt:      expires,
	}

	encodedPayload, _ := json.Marshal(guest.Links)
	merged, _ := json.Marshal([]models.Link{
		{Platform: "GitHub", URL: "https://github.com/john", Order: 1},
		{Platform: "GitLab", URL: "https://gitlab.com/john", Order: 2},
	})

	rows := sqlmock.
		NewRows([]string{"user_id", "guest_session_id", "display_email", "username", "image", "links", "is_notified", "created_at", "expires_at"}).
		AddRow(7, guest.GuestSessionID, "", "", "", merged, false, now, expires)

	// The statement must append the payload behind the stored list rather
	// than discard it when a concurrent insert won the race.
	mock.ExpectQuery("links = users.links").
		WithArgs(guest.GuestSessionID, encodedPayload, expires).
		WillReturnRows(rows)

	saved, err := repo.UpsertGuest(context.Background(), guest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.Links) != 2 {
		t.Fatalf("expected both links to survive the conflict, got %+v", saved.Links)
	}
	if saved.Links[1].Platform != "GitLab" || saved.Links[1].Order != 2 {
		t.Errorf("expected the payload link renumbered behind the stored list, got %+v", saved.Links[1])
	}
}

func TestFindGuestBySessionID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("missing-guest").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindGuestBySessionID(context.Background(), "missing-guest")
	if !errors.Is(err, ErrNoGuestWasFound) {
		t.Fatalf("expected ErrNoGuestWasFound, got %v", err)
	}
}

func TestUpdateGuestLinks_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	links := []models.Link{
		{Platform: "GitHub", URL: "https://github.com/john", Order: 1},
		{Platform: "YouTube", URL: "https://youtube.com/@john", Order: 2},
	}
	encodedLinks, _ := json.Marshal(links)

	mock.ExpectExec("UPDATE users").
		WithArgs("guest-1", encodedLinks).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateGuestLinks(context.Background(), "guest-1", links); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateGuestLinks_GuestMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateGuestLinks(context.Background(), "guest-1", nil)
	if !errors.Is(err, ErrNoGuestWasFound) {
		t.Fatalf("expected ErrNoGuestWasFound, got %v", err)
	}
}

func TestDeleteGuest_Deleted(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("guest-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteGuest(context.Background(), "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}
}

func TestDeleteGuest_AlreadyGone(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("guest-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteGuest(context.Background(), "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for absent guest")
	}
}

func TestMergeProfile_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs("John", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MergeProfile(context.Background(), 1, models.User{Username: "John"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeProfile_NothingToMerge(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	// no expectations: a fully blank profile must not touch the database
	err := repo.MergeProfile(context.Background(), 1, models.User{})
	if err != nil {
		t.Fatalf("expected no-op, got error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database interaction: %v", err)
	}
}

func TestMergeProfile_UserMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MergeProfile(context.Background(), 1, models.User{Username: "John"})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestSetNotified_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetNotified(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteExpiredGuests(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("DELETE FROM users").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.DeleteExpiredGuests(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected 4 removed rows, got %d", removed)
	}
}

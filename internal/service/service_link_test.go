// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package service

import (
	"context"
	"testing"

	"devlinks/internal/cache"
	"devlinks/internal/logger"
	"devlinks/internal/store"
	"devlinks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLinkService(links store.LinkRepository, users store.UserRepository) LinkService {
	if links == nil {
		links = &mockLinkRepository{}
	}
	if users == nil {
		users = &mockUserRepository{}
	}
	return NewLinkService(links, users, cache.NewTagCache(), testAuthConfig(), logger.Nop())
}

func registeredCaller(userID int64) models.Caller {
	return models.Caller{Kind: models.CallerRegistered, UserID: userID, User: models.User{UserID: userID}}
}

func guestCaller(guestSessionID string) models.Caller {
	return models.Caller{Kind: models.CallerGuest, GuestSessionID: guestSessionID}
}

// ─────────────────────────────────────────────
// List / Count
// ─────────────────────────────────────────────

func TestLinkService_List(t *testing.T) {
	stored := []models.Link{
		{LinkID: 1, Platform: "GitHub", URL: "https://github.com/dev", Order: 1, UserID: 42},
		{LinkID: 2, Platform: "GitLab", URL: "https://gitlab.com/dev", Order: 2, UserID: 42},
	}

	t.Run("registered caller reads the links table", func(t *testing.T) {
		repo := &mockLinkRepository{
			listLinksFn: func(_ context.Context, userID int64) ([]models.Link, error) {
				assert.Equal(t, int64(42), userID)
				return stored, nil
			},
		}
		links := newTestLinkService(repo, nil)

		got, err := links.List(context.Background(), registeredCaller(42))

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("guest caller reads the embedded list", func(t *testing.T) {
		embedded := []models.Link{{Platform: "GitHub", URL: "https://github.com/dev", Order: 1}}
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{GuestSessionID: "guest-abc", Links: embedded}, nil
			},
		}
		links := newTestLinkService(nil, users)

		got, err := links.List(context.Background(), guestCaller("guest-abc"))

		require.NoError(t, err)
		assert.Equal(t, embedded, got)
	})

	t.Run("guest without a row gets an empty list", func(t *testing.T) {
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{}, store.ErrNoGuestWasFound
			},
		}
		links := newTestLinkService(nil, users)

		got, err := links.List(context.Background(), guestCaller("guest-abc"))

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("anonymous and expired callers own nothing", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		for _, caller := range []models.Caller{
			{Kind: models.CallerAnonymous},
			{Kind: models.CallerExpired, UserID: 42},
		} {
			got, err := links.List(context.Background(), caller)
			require.NoError(t, err)
			assert.Empty(t, got)
		}
	})

	t.Run("second registered read is served from cache", func(t *testing.T) {
		calls := 0
		repo := &mockLinkRepository{
			listLinksFn: func(context.Context, int64) ([]models.Link, error) {
				calls++
				return stored, nil
			},
		}
		links := newTestLinkService(repo, nil)

		_, err := links.List(context.Background(), registeredCaller(42))
		require.NoError(t, err)
		_, err = links.List(context.Background(), registeredCaller(42))
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
	})
}

func TestLinkService_Count(t *testing.T) {
	t.Run("registered", func(t *testing.T) {
		repo := &mockLinkRepository{
			countLinksFn: func(context.Context, int64) (int, error) { return 3, nil },
		}
		links := newTestLinkService(repo, nil)

		count, err := links.Count(context.Background(), registeredCaller(42))

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("guest counts the embedded list", func(t *testing.T) {
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{Links: []models.Link{{Order: 1}, {Order: 2}}}, nil
			},
		}
		links := newTestLinkService(nil, users)

		count, err := links.Count(context.Background(), guestCaller("guest-abc"))

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("anonymous", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		count, err := links.Count(context.Background(), models.Caller{Kind: models.CallerAnonymous})

		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestLinkService_Create(t *testing.T) {
	t.Run("registered caller appends to the links table", func(t *testing.T) {
		repo := &mockLinkRepository{
			createLinkFn: func(_ context.Context, link models.Link) (models.Link, error) {
				assert.Equal(t, int64(42), link.UserID)
				link.LinkID = 7
				link.Order = 3
				return link, nil
			},
		}
		links := newTestLinkService(repo, nil)

		created, err := links.Create(context.Background(), registeredCaller(42), models.Link{
			Platform: "GitHub",
			URL:      "https://github.com/dev",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), created.LinkID)
		assert.Equal(t, 3, created.Order)
	})

	t.Run("first guest write creates the row lazily", func(t *testing.T) {
		var upserted models.User
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{}, store.ErrNoGuestWasFound
			},
			upsertGuestFn: func(_ context.Context, guest models.User) (models.User, error) {
				upserted = guest
				return guest, nil
			},
		}
		links := newTestLinkService(nil, users)

		created, err := links.Create(context.Background(), guestCaller("guest-abc"), models.Link{
			Platform: "GitHub",
			URL:      "https://github.com/dev",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, created.Order)
		assert.Equal(t, "guest-abc", upserted.GuestSessionID)
		require.Len(t, upserted.Links, 1)
		assert.False(t, upserted.ExpiresAt.IsZero(), "a lazily created guest row must carry a TTL")
	})

	t.Run("subsequent guest writes append in order", func(t *testing.T) {
		existing := []models.Link{{Platform: "GitHub", URL: "https://github.com/dev", Order: 1}}
		var updated []models.Link
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{GuestSessionID: "guest-abc", Links: existing}, nil
			},
			updateGuestLinksFn: func(_ context.Context, _ string, links []models.Link) error {
				updated = links
				return nil
			},
		}
		links := newTestLinkService(nil, users)

		created, err := links.Create(context.Background(), guestCaller("guest-abc"), models.Link{
			Platform: "GitLab",
			URL:      "https://gitlab.com/dev",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, created.Order)
		require.Len(t, updated, 2)
		assert.Equal(t, "GitLab", updated[1].Platform)
	})

	t.Run("empty platform defaults", func(t *testing.T) {
		repo := &mockLinkRepository{
			createLinkFn: func(_ context.Context, link models.Link) (models.Link, error) {
				assert.Equal(t, models.DefaultPlatform, link.Platform)
				return link, nil
			},
		}
		links := newTestLinkService(repo, nil)

		_, err := links.Create(context.Background(), registeredCaller(42), models.Link{URL: "https://github.com/dev"})

		assert.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		tests := []struct {
			name    string
			link    models.Link
			wantErr error
		}{
			{name: "unknown platform", link: models.Link{Platform: "MySpace", URL: "https://example.com/x"}, wantErr: ErrInvalidPlatform},
			{name: "empty url", link: models.Link{Platform: "GitHub"}, wantErr: ErrInvalidURL},
			{name: "bad scheme", link: models.Link{Platform: "GitHub", URL: "ftp://example.com/x"}, wantErr: ErrInvalidURL},
			{name: "no host", link: models.Link{Platform: "GitHub", URL: "https://"}, wantErr: ErrInvalidURL},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := links.Create(context.Background(), registeredCaller(42), tt.link)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("schemeless urls get an https prefix", func(t *testing.T) {
		var stored models.Link
		repo := &mockLinkRepository{
			createLinkFn: func(_ context.Context, link models.Link) (models.Link, error) {
				stored = link
				return link, nil
			},
		}
		links := newTestLinkService(repo, nil)

		created, err := links.Create(context.Background(), registeredCaller(42), models.Link{
			Platform: "GitHub",
			URL:      "github.com/dev",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://github.com/dev", stored.URL)
		assert.Equal(t, "https://github.com/dev", created.URL)
	})

	t.Run("anonymous caller may not create", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		_, err := links.Create(context.Background(), models.Caller{Kind: models.CallerAnonymous}, models.Link{
			Platform: "GitHub",
			URL:      "https://github.com/dev",
		})

		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

// ─────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────

func TestLinkService_Update(t *testing.T) {
	newURL := "https://www.twitch.tv/dev"
	newPlatform := "Twitch"
	badPlatform := "MySpace"

	t.Run("registered caller updates by link id", func(t *testing.T) {
		var got models.LinkUpdate
		repo := &mockLinkRepository{
			updateLinkFn: func(_ context.Context, userID int64, update models.LinkUpdate) error {
				assert.Equal(t, int64(42), userID)
				got = update
				return nil
			},
		}
		links := newTestLinkService(repo, nil)

		err := links.Update(context.Background(), registeredCaller(42), []models.LinkUpdate{
			{LinkID: 7, URL: &newURL},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.LinkID)
		require.NotNil(t, got.URL)
		assert.Equal(t, newURL, *got.URL)
	})

	t.Run("schemeless replacement url gets an https prefix", func(t *testing.T) {
		var got models.LinkUpdate
		repo := &mockLinkRepository{
			updateLinkFn: func(_ context.Context, _ int64, update models.LinkUpdate) error {
				got = update
				return nil
			},
		}
		links := newTestLinkService(repo, nil)

		bareURL := "twitch.tv/dev"
		err := links.Update(context.Background(), registeredCaller(42), []models.LinkUpdate{
			{LinkID: 7, URL: &bareURL},
		})

		require.NoError(t, err)
		require.NotNil(t, got.URL)
		assert.Equal(t, "https://twitch.tv/dev", *got.URL)
	})

	t.Run("guest update addresses the 1-based position", func(t *testing.T) {
		embedded := []models.Link{
			{Platform: "GitHub", URL: "https://github.com/dev", Order: 1},
			{Platform: "GitLab", URL: "https://gitlab.com/dev", Order: 2},
		}
		var updated []models.Link
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{GuestSessionID: "guest-abc", Links: embedded}, nil
			},
			updateGuestLinksFn: func(_ context.Context, _ string, links []models.Link) error {
				updated = links
				return nil
			},
		}
		links := newTestLinkService(nil, users)

		err := links.Update(context.Background(), guestCaller("guest-abc"), []models.LinkUpdate{
			{LinkID: 2, Platform: &newPlatform, URL: &newURL},
		})

		require.NoError(t, err)
		require.Len(t, updated, 2)
		assert.Equal(t, "GitHub", updated[0].Platform, "position 1 untouched")
		assert.Equal(t, newPlatform, updated[1].Platform)
		assert.Equal(t, newURL, updated[1].URL)
	})

	t.Run("guest position out of range", func(t *testing.T) {
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{Links: []models.Link{{Order: 1}}}, nil
			},
		}
		links := newTestLinkService(nil, users)

		err := links.Update(context.Background(), guestCaller("guest-abc"), []models.LinkUpdate{{LinkID: 5, URL: &newURL}})

		assert.ErrorIs(t, err, store.ErrLinkNotFound)
	})

	t.Run("validation runs before any write", func(t *testing.T) {
		repo := &mockLinkRepository{
			updateLinkFn: func(context.Context, int64, models.LinkUpdate) error {
				t.Fatal("must not write an invalid update")
				return nil
			},
		}
		links := newTestLinkService(repo, nil)

		err := links.Update(context.Background(), registeredCaller(42), []models.LinkUpdate{
			{LinkID: 7, Platform: &badPlatform},
		})

		assert.ErrorIs(t, err, ErrInvalidPlatform)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		assert.NoError(t, links.Update(context.Background(), registeredCaller(42), nil))
	})

	t.Run("anonymous caller may not update", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		err := links.Update(context.Background(), models.Caller{Kind: models.CallerAnonymous}, []models.LinkUpdate{{LinkID: 1, URL: &newURL}})

		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

// ─────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────

func TestLinkService_Delete(t *testing.T) {
	t.Run("registered caller deletes by link id", func(t *testing.T) {
		var deleted int64
		repo := &mockLinkRepository{
			deleteLinkFn: func(_ context.Context, userID int64, linkID int64) error {
				assert.Equal(t, int64(42), userID)
				deleted = linkID
				return nil
			},
		}
		links := newTestLinkService(repo, nil)

		err := links.Delete(context.Background(), registeredCaller(42), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), deleted)
	})

	t.Run("guest delete removes the position and renumbers", func(t *testing.T) {
		embedded := []models.Link{
			{Platform: "GitHub", URL: "https://github.com/a", Order: 1},
			{Platform: "GitLab", URL: "https://gitlab.com/b", Order: 2},
			{Platform: "Twitch", URL: "https://www.twitch.tv/c", Order: 3},
		}
		var remaining []models.Link
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{GuestSessionID: "guest-abc", Links: embedded}, nil
			},
			updateGuestLinksFn: func(_ context.Context, _ string, links []models.Link) error {
				remaining = links
				return nil
			},
		}
		links := newTestLinkService(nil, users)

		err := links.Delete(context.Background(), guestCaller("guest-abc"), 2)

		require.NoError(t, err)
		require.Len(t, remaining, 2)
		assert.Equal(t, "GitHub", remaining[0].Platform)
		assert.Equal(t, 1, remaining[0].Order)
		assert.Equal(t, "Twitch", remaining[1].Platform)
		assert.Equal(t, 2, remaining[1].Order, "orders stay dense after a delete")
	})

	t.Run("guest position out of range", func(t *testing.T) {
		users := &mockUserRepository{
			findGuestFn: func(context.Context, string) (models.User, error) {
				return models.User{Links: []models.Link{{Order: 1}}}, nil
			},
		}
		links := newTestLinkService(nil, users)

		err := links.Delete(context.Background(), guestCaller("guest-abc"), 0)

		assert.ErrorIs(t, err, store.ErrLinkNotFound)
	})

	t.Run("repository not-found passes through", func(t *testing.T) {
		repo := &mockLinkRepository{
			deleteLinkFn: func(context.Context, int64, int64) error {
				return store.ErrLinkNotFound
			},
		}
		links := newTestLinkService(repo, nil)

		err := links.Delete(context.Background(), registeredCaller(42), 999)

		assert.ErrorIs(t, err, store.ErrLinkNotFound)
	})

	t.Run("anonymous caller may not delete", func(t *testing.T) {
		links := newTestLinkService(nil, nil)

		err := links.Delete(context.Background(), models.Caller{Kind: models.CallerAnonymous}, 1)

		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

package utils

import (
	"context"
	"testing"

	"devlinks/models"

	"github.com/stretchr/testify/assert"
)

func TestGetCallerFromContext(t *testing.T) {
	t.Run("caller present", func(t *testing.T) {
		want := models.Caller{
			Kind:   models.CallerRegistered,
			UserID: 42,
		}
		ctx := context.WithValue(context.Background(), CallerCtxKey, want)

		got, ok := GetCallerFromContext(ctx)

		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("caller absent", func(t *testing.T) {
		got, ok := GetCallerFromContext(context.Background())

		assert.False(t, ok)
		assert.Equal(t, models.Caller{}, got)
	})

	t.Run("wrong value type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), CallerCtxKey, "not-a-caller")

		_, ok := GetCallerFromContext(ctx)

		assert.False(t, ok)
	})
}

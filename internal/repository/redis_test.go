package repository

import (
	"context"
	"testing"
	"time"

	"farmrent/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisStateRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		state := &models.SessionState{
			Token:       "tok-123",
			Username:    "farmer_mahesh",
			DisplayName: "Mahesh",
			Cart: []models.CartItem{
				{
					Item:      models.CartProduct{ID: 1, Name: "Compact Tractor", PricePerDay: 100},
					Quantity:  2,
					StartDate: "2026-03-01",
					EndDate:   "2026-03-04",
				},
			},
		}

		err := repo.SetSession(ctx, state)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "tok-123")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.Username, got.Username)
		require.Len(t, got.Cart, 1)
		assert.Equal(t, state.Cart[0].Item.Name, got.Cart[0].Item.Name)
		assert.Equal(t, 2, got.Cart[0].Quantity)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SessionExpires", func(t *testing.T) {
		short := NewRedisStateRepository(client, time.Minute)
		require.NoError(t, short.SetSession(ctx, &models.SessionState{Token: "tok-ttl", Username: "farmer_anita"}))

		s.FastForward(time.Minute + time.Second)

		got, err := short.GetSession(ctx, "tok-ttl")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteSession", func(t *testing.T) {
		state := &models.SessionState{Token: "tok-456", Username: "farmer_anita"}
		repo.SetSession(ctx, state)

		err := repo.DeleteSession(ctx, "tok-456")
		require.NoError(t, err)

		got, _ := repo.GetSession(ctx, "tok-456")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "10.0.0.9"
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Third request exceeds the limit
		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisStateRepository(nil, time.Hour)
		_, err := repo.GetSession(ctx, "tok-123")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}

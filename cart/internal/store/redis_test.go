package store

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/presmtech/storefront/cart/pkg/model"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

func setupRedisStore(t *testing.T) Store {
	t.Helper()
	c := context.Background()

	container, err := testRedis.Run(c, "redis:7.4.1-alpine3.20")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating redis container with error: %s", err)
		}
	})

	connectionString, err := container.ConnectionString(c)
	require.NoError(t, err)
	options, err := redis.ParseURL(connectionString)
	require.NoError(t, err)

	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 0)
}

func TestRedisLoadMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupRedisStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestRedisSaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupRedisStore(t)
	c := context.Background()

	cart := model.NewCart("session-a", "user-1")
	cart.Lines = []model.CartLine{{Quantity: 2, Name: "DTF Transfer"}}
	require.NoError(t, store.Save(c, cart))
	assert.Equal(t, int64(1), cart.Version)

	loaded, err := store.Load(c, "session-a")
	require.NoError(t, err)
	assert.Equal(t, cart.SessionID, loaded.SessionID)
	assert.Equal(t, int64(1), loaded.Version)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, "DTF Transfer", loaded.Lines[0].Name)
}

func TestRedisSaveConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupRedisStore(t)
	c := context.Background()

	cart := model.NewCart("session-a", "")
	require.NoError(t, store.Save(c, cart))

	stale := cart.Clone()
	stale.Version = 0
	err := store.Save(c, stale)
	assert.ErrorIs(t, err, inErrors.ErrVersionConflict)
	assert.Equal(t, int64(0), stale.Version, "failed save leaves the loaded version untouched")
}

func TestRedisDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupRedisStore(t)
	c := context.Background()

	cart := model.NewCart("session-a", "")
	require.NoError(t, store.Save(c, cart))
	require.NoError(t, store.Delete(c, "session-a"))

	_, err := store.Load(c, "session-a")
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/presmtech/storefront/gangsheet/pkg/model"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

const gangSheetsSchema = `
create table if not exists gang_sheets (
    id uuid primary key,
    user_id text not null default '',
    template_id text not null,
    template_name text not null,
    width double precision not null,
    height double precision not null,
    base_price numeric(12, 2) not null,
    designs jsonb not null default '[]',
    status text not null default 'draft',
    total_price numeric(12, 2) not null,
    version bigint not null default 1,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
)`

func setupPostgresStore(t *testing.T) Store {
	t.Helper()
	c := context.Background()

	container, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating postgres container with error: %s", err)
		}
	})

	connectionString, err := container.ConnectionString(c, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connectionString)
	require.NoError(t, err)
	poolConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(c, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(c, gangSheetsSchema)
	require.NoError(t, err)

	return NewPostgresStore(pool)
}

func TestPostgresInsertAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupPostgresStore(t)
	c := context.Background()

	sheet := draftSheet("user-1")
	sheet.Designs = []model.Design{
		{ID: "design-1", Name: "logo", Width: 60, Height: 100, X: 50, Y: 50, Quantity: 2},
	}
	require.NoError(t, store.Insert(c, sheet))

	found, err := store.FindById(c, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, found.ID)
	assert.Equal(t, "user-1", found.UserID)
	assert.True(t, found.BasePrice.Equal(decimal.RequireFromString("18.99")))
	require.Len(t, found.Designs, 1)
	assert.Equal(t, "design-1", found.Designs[0].ID)
	assert.Equal(t, int32(2), found.Designs[0].Quantity)
}

func TestPostgresFindByUserPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupPostgresStore(t)
	c := context.Background()

	for range 3 {
		require.NoError(t, store.Insert(c, draftSheet("user-1")))
	}
	require.NoError(t, store.Insert(c, draftSheet("user-2")))

	sheets, err := store.FindByUser(c, "user-1", 0, 2)
	require.NoError(t, err)
	assert.Len(t, sheets, 2)

	sheets, err = store.FindByUser(c, "user-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, sheets, 1)
}

func TestPostgresUpdateConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupPostgresStore(t)
	c := context.Background()

	sheet := draftSheet("user-1")
	require.NoError(t, store.Insert(c, sheet))

	stale := sheet.Clone()
	sheet.Status = model.StatusOrdered
	require.NoError(t, store.Update(c, sheet))
	assert.Equal(t, int64(2), sheet.Version)

	stale.Status = model.StatusProcessing
	err := store.Update(c, stale)
	assert.ErrorIs(t, err, inErrors.ErrVersionConflict)
}

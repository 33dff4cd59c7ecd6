package repository

import (
	"context"
	"testing"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"github.com/stretchr/testify/require"
)

// testKeyValueStore checks the behaviour every KeyValueStore backend shares
func testKeyValueStore(t *testing.T, store repository.KeyValueStore) {
	ctx := context.Background()

	_, err := store.Get(ctx, entity.KeyReservations)
	require.ErrorIs(t, err, entity.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, entity.KeyReservations, `[{"id":1}]`))
	got, err := store.Get(ctx, entity.KeyReservations)
	require.NoError(t, err)
	require.Equal(t, `[{"id":1}]`, got)

	require.NoError(t, store.Set(ctx, entity.KeyReservations, `[{"id":1},{"id":2}]`))
	got, err = store.Get(ctx, entity.KeyReservations)
	require.NoError(t, err)
	require.Equal(t, `[{"id":1},{"id":2}]`, got)

	require.NoError(t, store.Delete(ctx, entity.KeyReservations))
	_, err = store.Get(ctx, entity.KeyReservations)
	require.ErrorIs(t, err, entity.ErrKeyNotFound)

	require.NoError(t, store.Delete(ctx, "never-set"))
}

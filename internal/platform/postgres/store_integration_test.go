//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/phrazzld/places-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_PlaceLifecycle(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	log, _ := logger.NewTestLogger(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, log)
		places := postgres.NewPostgresPlaceStore(tx, log)

		user, err := domain.NewUser("Max", "Max-"+uuid.NewString()[:8]+"@Example.com", "$2a$10$digest", "")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))

		place, err := domain.NewPlace("Empire State", "Tall building", "20 W 34th St",
			domain.Location{Lat: 40.7484, Lng: -73.9857}, "", user.ID)
		require.NoError(t, err)
		require.NoError(t, places.Create(ctx, place))
		require.NoError(t, users.AddPlace(ctx, user.ID, place.ID))

		owner, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{place.ID}, owner.Places)

		listed, err := places.ListByCreator(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.InDelta(t, 40.7484, listed[0].Location.Lat, 1e-9)

		require.NoError(t, place.Revise("Empire State Building", "Very tall building"))
		require.NoError(t, places.Update(ctx, place))
		fetched, err := places.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, "Empire State Building", fetched.Title)
		assert.Equal(t, "20 W 34th St", fetched.Address)

		require.NoError(t, places.Delete(ctx, place.ID))
		require.NoError(t, users.RemovePlace(ctx, user.ID, place.ID))

		_, err = places.GetByID(ctx, place.ID)
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
		owner, err = users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, owner.Places)
	})
}

func TestUserStore_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	log, _ := logger.NewTestLogger(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, log)
		email := "dup-" + uuid.NewString()[:8] + "@example.com"

		first, err := domain.NewUser("First", email, "$2a$10$digest", "")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, first))

		second, err := domain.NewUser("Second", "  "+email+"  ", "$2a$10$digest", "")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, second), store.ErrEmailExists)
	})
}

func TestPlaceStore_UnknownCreatorRejected(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	log, _ := logger.NewTestLogger(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		places := postgres.NewPostgresPlaceStore(tx, log)
		place, err := domain.NewPlace("Orphan", "No owner here", "Nowhere 1",
			domain.Location{}, "", uuid.New())
		require.NoError(t, err)

		assert.ErrorIs(t, places.Create(context.Background(), place), store.ErrInvalidEntity)
	})
}

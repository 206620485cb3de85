package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeCols = []string{
	"id", "title", "description", "address", "lat", "lng", "image_ref", "creator_id", "created_at", "updated_at",
}

func newPlaceStoreMock(t *testing.T) (*PostgresPlaceStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresPlaceStore(db, nil), mock
}

func testPlace(t *testing.T) *domain.Place {
	t.Helper()
	place, err := domain.NewPlace(
		"Googleplex",
		"Five or more chars",
		"1600 Amphitheatre Pkwy",
		domain.Location{Lat: 37.4224, Lng: -122.0842},
		"",
		uuid.New(),
	)
	require.NoError(t, err)
	return place
}

func TestPostgresPlaceStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		p := testPlace(t)
		mock.ExpectExec("INSERT INTO places").
			WithArgs(p.ID, p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng,
				p.ImageRef, p.Creator, p.CreatedAt, p.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing creator", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		mock.ExpectExec("INSERT INTO places").
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "places_creator_id_fkey"})

		err := s.Create(ctx, testPlace(t))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlaceStore_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		id, creator := uuid.New(), uuid.New()
		mock.ExpectQuery("FROM places WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(placeCols).
				AddRow(id.String(), "T", "Five or more chars", "Addr 1", 1.5, 2.5, "img", creator.String(), now, now))

		place, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, creator, place.Creator)
		assert.Equal(t, domain.Location{Lat: 1.5, Lng: 2.5}, place.Location)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		mock.ExpectQuery("FROM places WHERE id").WillReturnRows(sqlmock.NewRows(placeCols))

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlaceStore_ListByCreator(t *testing.T) {
	s, mock := newPlaceStoreMock(t)
	creator := uuid.New()
	mock.ExpectQuery("FROM places WHERE creator_id").
		WithArgs(creator).
		WillReturnRows(sqlmock.NewRows(placeCols))

	places, err := s.ListByCreator(context.Background(), creator)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlaceStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update writes only mutable columns", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		p := testPlace(t)
		mock.ExpectExec("UPDATE places").
			WithArgs(p.Title, p.Description, p.UpdatedAt, p.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(ctx, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing place", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		mock.ExpectExec("UPDATE places").WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(ctx, testPlace(t))
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
	})

	t.Run("delete missing place", func(t *testing.T) {
		s, mock := newPlaceStoreMock(t)
		mock.ExpectExec("DELETE FROM places").WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package events

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

var eventCols = []string{"event_id", "user_id", "title", "description",
	"registration_open", "registration_close", "event_date", "location_type",
	"created_at", "updated_at"}

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(sqlmock.AnyArg(), "u1", "Picnic", "In the park", now, now, now, models.LocationVenue).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("e1", "u1", "Picnic", "In the park", now, now, now, models.LocationVenue, now, now))

	created, err := repo.Create(context.Background(), &models.Event{
		UserID: "u1", Title: "Picnic", Description: "In the park",
		RegistrationOpen: now, RegistrationClose: now, EventDate: now,
		LocationType: models.LocationVenue,
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScopedByOwner(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	event := &models.Event{
		ID: "e1", UserID: "u1", Title: "Picnic", Description: "Moved indoors",
		RegistrationOpen: now, RegistrationClose: now, EventDate: now,
		LocationType: models.LocationOnline,
	}

	t.Run("owner", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE events`).
			WithArgs("Picnic", "Moved indoors", now, now, now, models.LocationOnline, "e1", "u1").
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("e1", "u1", "Picnic", "Moved indoors", now, now, now, models.LocationOnline, now, now))

		updated, err := repo.Update(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, "Moved indoors", updated.Description)
	})

	t.Run("not owner", func(t *testing.T) {
		other := *event
		other.UserID = "u2"
		mock.ExpectQuery(`UPDATE events`).
			WithArgs("Picnic", "Moved indoors", now, now, now, models.LocationOnline, "e1", "u2").
			WillReturnRows(sqlmock.NewRows(eventCols))

		_, err := repo.Update(context.Background(), &other)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs("e1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1", "u1"))

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs("e1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "e1", "u2"), common.ErrorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM events WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("e1", "u1", "Picnic", "d", now, now, now, models.LocationVenue, now, now).
			AddRow("e2", "u1", "Standup", "d", now, now, now, models.LocationOnline, now, now))

	list, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Standup", list[1].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllInfo(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	cols := []string{"event_id", "user_id", "title", "description",
		"registration_open", "registration_close", "event_date", "location_type",
		"created_at", "updated_at",
		"address_id", "street", "city_suburb", "state", "country", "postal_code",
		"image_id", "image_url", "image_key"}

	t.Run("with address, no image", func(t *testing.T) {
		mock.ExpectQuery(`LEFT JOIN event_addresses`).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("e1", "u1", "Picnic", "d", now, now, now, models.LocationVenue, now, now,
					"a1", "1 Main St", "Springfield", "VIC", "AU", "3000",
					nil, nil, nil))

		info, err := repo.AllInfo(context.Background(), "e1")
		require.NoError(t, err)
		require.NotNil(t, info.Address)
		assert.Equal(t, "1 Main St", info.Address.Street)
		assert.Nil(t, info.Image)
	})

	t.Run("missing event", func(t *testing.T) {
		mock.ExpectQuery(`LEFT JOIN event_addresses`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.AllInfo(context.Background(), "missing")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

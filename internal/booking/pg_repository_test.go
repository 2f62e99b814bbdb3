package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*PgRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPgRepository(mock), mock
}

func TestPgInsertSlot(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "slot_date", "slot_time", "is_available", "created_at"}).
		AddRow(id, "2025-06-20", "10:00", true, now)
	mock.ExpectQuery("INSERT INTO time_slots").
		WithArgs(id, "2025-06-20", "10:00", true).
		WillReturnRows(rows)

	slot, err := repo.InsertSlot(context.Background(), TimeSlot{ID: id, Date: "2025-06-20", Time: "10:00", IsAvailable: true})
	require.NoError(t, err)
	assert.Equal(t, id, slot.ID)
	assert.Equal(t, "10:00", slot.Time)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertSlotDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO time_slots").
		WithArgs(pgxmock.AnyArg(), "2025-06-20", "10:00", true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "time_slots_slot_date_slot_time_key"})

	_, err := repo.InsertSlot(context.Background(), TimeSlot{Date: "2025-06-20", Time: "10:00", IsAvailable: true})
	assert.ErrorIs(t, err, ErrSlotExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgSetSlotAvailabilityNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE time_slots").WithArgs(id, false).WillReturnError(pgx.ErrNoRows)

	_, err := repo.SetSlotAvailability(context.Background(), id, false)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgDeleteSlot(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM time_slots").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.DeleteSlot(context.Background(), id))

	mock.ExpectExec("DELETE FROM time_slots").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.DeleteSlot(context.Background(), id), ErrSlotNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUpdateAppointmentStatusNoPendingRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE appointments").
		WithArgs(id, StatusConfirmed, StatusPending).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateAppointmentStatus(context.Background(), id, StatusPending, StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListAppointmentsQueryError(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnError(boom)

	_, err := repo.ListAppointments(context.Background())
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListAppointmentsIsCapped(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(MaxListedAppointments).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	appts, err := repo.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, appts)
	assert.Equal(t, 1000, MaxListedAppointments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertEvent(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectExec("INSERT INTO event_logs").
		WithArgs(EventAppointmentCreated, &id, []byte(`{}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.InsertEvent(context.Background(), EventLog{
		EventType:     EventAppointmentCreated,
		AppointmentID: &id,
		Payload:       []byte(`{}`),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

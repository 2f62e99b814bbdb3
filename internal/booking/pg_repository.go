package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
)

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

const slotColumns = `id, slot_date::text, slot_time, is_available, created_at`

const appointmentColumns = `id, client_name, client_email, client_phone, client_instagram, service_type,
	appointment_date::text, appointment_time, location_type, address, additional_notes, status, created_at`

// MaxListedAppointments caps the admin appointment list. Rows past the cap
// are not returned.
const MaxListedAppointments = 1000

// Helpers

func scanSlot(row pgx.Row) (*TimeSlot, error) {
	var s TimeSlot

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.Time,
		&s.IsAvailable,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var instagram, address, notes *string

	err := row.Scan(
		&a.ID,
		&a.ClientName,
		&a.ClientEmail,
		&a.ClientPhone,
		&instagram,
		&a.ServiceType,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.LocationType,
		&address,
		&notes,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.ClientInstagram = instagram
	a.Address = address
	a.AdditionalNotes = notes
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Slots

func (r *PgRepository) ListSlots(ctx context.Context, availableOnly bool) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE ($1 = false OR is_available)
		ORDER BY slot_date, slot_time
	`, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	result := []TimeSlot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) InsertSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO time_slots (id, slot_date, slot_time, is_available, created_at)
		VALUES ($1, $2::date, $3, $4, now())
		RETURNING `+slotColumns,
		slot.ID, slot.Date, slot.Time, slot.IsAvailable)

	created, err := scanSlot(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlotExists
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE time_slots
		SET is_available = $2
		WHERE id = $1
		RETURNING `+slotColumns,
		id, available)
	return scanSlot(row)
}

func (r *PgRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Appointments

func (r *PgRepository) InsertAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, client_name, client_email, client_phone, client_instagram, service_type,
			appointment_date, appointment_time, location_type, address, additional_notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $11, 'pending', now(), now())
		RETURNING `+appointmentColumns,
		a.ID, a.ClientName, a.ClientEmail, a.ClientPhone, a.ClientInstagram, a.ServiceType,
		a.AppointmentDate, a.AppointmentTime, a.LocationType, a.Address, a.AdditionalNotes)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY appointment_date, appointment_time
		LIMIT $1
	`, MaxListedAppointments)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListAppointmentsByClient(ctx context.Context, email, phone string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE client_email = $1
		  AND client_phone = $2
		ORDER BY appointment_date, appointment_time
	`, email, phone)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	return collectAppointments(rows)
}

// UpdateAppointmentStatus only touches rows currently in status from, so a
// confirmed or cancelled appointment can never move again.
func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns,
		id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
)

// RefreshAppointments replaces the known appointments with the server's list.
// Admin only.
func (w *Workflow) RefreshAppointments(ctx context.Context) error {
	if !w.IsAdmin() {
		return ErrNotAdmin
	}
	appts, err := w.backend.ListAppointments(ctx)
	if err != nil {
		return fmt.Errorf("refresh appointments: %w", err)
	}
	booking.SortAppointments(appts)

	w.mu.Lock()
	w.appointments = appts
	w.mu.Unlock()
	return nil
}

func (w *Workflow) setLocalStatus(id uuid.UUID, status booking.AppointmentStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.appointments {
		if w.appointments[i].ID == id {
			w.appointments[i].Status = status
			return
		}
	}
}

func (w *Workflow) replaceAppointment(appt booking.Appointment) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.appointments {
		if w.appointments[i].ID == appt.ID {
			w.appointments[i] = appt
			return
		}
	}
}

// UpdateAppointmentStatus confirms or cancels a pending appointment. While a
// change for the same appointment is outstanding, further calls are ignored
// without contacting the server. The local list shows the new status right
// away and is reloaded from the server if the change fails, or put back as it
// was when the reload fails too.
func (w *Workflow) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (Outcome, error) {
	if status != booking.StatusConfirmed && status != booking.StatusCancelled {
		return Outcome{}, ErrInvalidStatus
	}

	key := "appointment:" + id.String()
	if !w.begin(key) {
		return Outcome{Ignored: true}, nil
	}
	defer w.end(key)

	w.mu.RLock()
	var current *booking.Appointment
	for i := range w.appointments {
		if w.appointments[i].ID == id {
			a := w.appointments[i]
			current = &a
			break
		}
	}
	w.mu.RUnlock()
	if current != nil && current.Status != booking.StatusPending {
		return Outcome{}, ErrNotPending
	}

	w.setLocalStatus(id, status)

	updated, err := w.backend.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		if rerr := w.RefreshAppointments(ctx); rerr != nil {
			w.logger.Warn("appointment list refresh after failed update failed", "appointment_id", id, "error", rerr)
			if current != nil {
				w.setLocalStatus(id, current.Status)
			}
		}
		return Outcome{}, fmt.Errorf("update appointment status: %w", err)
	}
	w.replaceAppointment(*updated)

	statusText := "confirmé"
	if status == booking.StatusCancelled {
		statusText = "annulé"
	}
	return Outcome{
		Message: "Rendez-vous " + statusText + " avec succès! Le client recevra un email de notification.",
	}, nil
}

package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/client"
)

const slotKeySep = "|"

// SlotKey is the compound value a slot picker offers: date and time in one
// string so that selecting it binds both at once.
func SlotKey(s booking.TimeSlot) string {
	return s.Date + slotKeySep + s.Time
}

// RefreshSlots replaces the known slots with the server's full list.
func (w *Workflow) RefreshSlots(ctx context.Context) error {
	slots, err := w.backend.ListSlots(ctx, false)
	if err != nil {
		return fmt.Errorf("refresh slots: %w", err)
	}
	booking.SortSlots(slots)

	w.mu.Lock()
	w.slots = slots
	w.mu.Unlock()
	return nil
}

// AvailableSlots returns the known slots still open for booking, sorted by
// date then time.
func (w *Workflow) AvailableSlots() []booking.TimeSlot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []booking.TimeSlot
	for _, s := range w.slots {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	return out
}

// AllSlots returns every known slot, sorted by date then time.
func (w *Workflow) AllSlots() []booking.TimeSlot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.slots)
}

func (w *Workflow) findAvailableSlot(date, slotTime string) (booking.TimeSlot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, s := range w.slots {
		if s.IsAvailable && s.Date == date && s.Time == slotTime {
			return s, true
		}
	}
	return booking.TimeSlot{}, false
}

// AddSlot creates an open slot. Today is accepted whatever the time.
func (w *Workflow) AddSlot(ctx context.Context, date, slotTime string) (Outcome, error) {
	date = strings.TrimSpace(date)
	slotTime = strings.TrimSpace(slotTime)
	if date == "" || slotTime == "" {
		return Outcome{}, fmt.Errorf("%w: date and time are required", ErrValidation)
	}
	d, err := time.Parse(booking.DateLayout, date)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if d.Format(booking.DateLayout) < w.today() {
		return Outcome{}, ErrSlotInPast
	}

	key := "slot-add:" + date + slotKeySep + slotTime
	if !w.begin(key) {
		return Outcome{Ignored: true}, nil
	}
	defer w.end(key)

	available := true
	_, err = w.backend.CreateSlot(ctx, booking.SlotInput{Date: date, Time: slotTime, IsAvailable: &available})
	if err != nil {
		switch {
		case client.IsConflict(err):
			return Outcome{}, fmt.Errorf("%w: %w", ErrSlotExists, err)
		case client.HasCode(err, "slot_in_past"):
			return Outcome{}, fmt.Errorf("%w: %w", ErrSlotInPast, err)
		}
		return Outcome{}, fmt.Errorf("add slot: %w", err)
	}

	if err := w.RefreshSlots(ctx); err != nil {
		w.logger.Warn("slot list refresh after add failed", "error", err)
	}
	return Outcome{Message: "Créneau ajouté avec succès!"}, nil
}

// DeleteSlot asks for confirmation, drops the slot from the local list and
// then deletes it on the server. On failure the list is reloaded from the
// server. Appointments on that date and time are not touched.
func (w *Workflow) DeleteSlot(ctx context.Context, id uuid.UUID) (Outcome, error) {
	if !w.opts.Confirmer.Confirm("Êtes-vous sûr de vouloir supprimer ce créneau ?") {
		return Outcome{}, ErrDeclined
	}

	key := "slot:" + id.String()
	if !w.begin(key) {
		return Outcome{Ignored: true}, nil
	}
	defer w.end(key)

	w.mu.Lock()
	w.slots = slices.DeleteFunc(w.slots, func(s booking.TimeSlot) bool { return s.ID == id })
	w.mu.Unlock()

	if err := w.backend.DeleteSlot(ctx, id); err != nil {
		if rerr := w.RefreshSlots(ctx); rerr != nil {
			w.logger.Warn("slot list refresh after failed delete failed", "slot_id", id, "error", rerr)
		}
		if client.IsNotFound(err) {
			return Outcome{}, fmt.Errorf("%w: %w", ErrSlotNotFound, err)
		}
		return Outcome{}, fmt.Errorf("delete slot: %w", err)
	}

	return Outcome{Message: "Créneau supprimé avec succès!"}, nil
}

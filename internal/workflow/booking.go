package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
)

// Draft is the booking form as the visitor fills it in.
type Draft struct {
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	ClientInstagram string
	ServiceType     catalog.ServiceType
	AppointmentDate string
	AppointmentTime string
	LocationType    booking.LocationType
	Address         string
	AdditionalNotes string
}

// NewDraft returns an empty form with the defaults of the booking page.
func NewDraft() Draft {
	return Draft{
		ServiceType:  catalog.Simple,
		LocationType: booking.LocationDomicile,
	}
}

// SelectSlot binds date and time from a SlotKey. The key must be one of the
// offered slots; otherwise the draft is left untouched and false returned.
func (d *Draft) SelectSlot(key string, offered []booking.TimeSlot) bool {
	date, slotTime, ok := strings.Cut(key, slotKeySep)
	if !ok || date == "" || slotTime == "" {
		return false
	}
	for _, s := range offered {
		if s.Date == date && s.Time == slotTime {
			d.AppointmentDate = date
			d.AppointmentTime = slotTime
			return true
		}
	}
	return false
}

func (d Draft) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"client_name", d.ClientName},
		{"client_email", d.ClientEmail},
		{"client_phone", d.ClientPhone},
		{"appointment_date", d.AppointmentDate},
		{"appointment_time", d.AppointmentTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, r.field)
		}
	}
	if !d.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, d.ServiceType)
	}
	if !d.LocationType.Valid() {
		return fmt.Errorf("%w: unknown location type %q", ErrValidation, d.LocationType)
	}
	if d.LocationType == booking.LocationDomicile && strings.TrimSpace(d.Address) == "" {
		return fmt.Errorf("%w: address is required at home", ErrValidation)
	}
	return nil
}

func (d Draft) input() booking.AppointmentInput {
	return booking.AppointmentInput{
		ClientName:      d.ClientName,
		ClientEmail:     d.ClientEmail,
		ClientPhone:     d.ClientPhone,
		ClientInstagram: d.ClientInstagram,
		ServiceType:     d.ServiceType,
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		LocationType:    d.LocationType,
		Address:         d.Address,
		AdditionalNotes: d.AdditionalNotes,
	}
}

type BookingResult struct {
	Outcome
	Appointment *booking.Appointment
	// SlotFlipped is true when the matching slot was marked unavailable.
	SlotFlipped bool
	// SlotFlipErr is the error of the slot update, if one was attempted and failed.
	SlotFlipErr error
}

// Book submits the draft. Once the appointment exists, the matching open slot
// is marked unavailable; that step can fail on its own and never fails the
// booking. The slot list is reloaded afterwards, whether the booking worked
// or not. A second submit for the same date and time while the first one is
// outstanding is ignored.
func (w *Workflow) Book(ctx context.Context, d Draft) (BookingResult, error) {
	if err := d.validate(); err != nil {
		return BookingResult{}, err
	}

	key := "book:" + d.AppointmentDate + slotKeySep + d.AppointmentTime
	if !w.begin(key) {
		return BookingResult{Outcome: Outcome{Ignored: true}}, nil
	}
	defer w.end(key)

	defer func() {
		if err := w.RefreshSlots(ctx); err != nil {
			w.logger.Warn("slot list refresh after booking failed", "error", err)
		}
	}()

	appt, err := w.backend.CreateAppointment(ctx, d.input())
	if err != nil {
		return BookingResult{}, fmt.Errorf("book appointment: %w", err)
	}

	res := BookingResult{
		Outcome: Outcome{
			Message: "Rendez-vous créé avec succès ! Vous recevrez un email de confirmation et Hennaa.lash vous contactera rapidement.",
		},
		Appointment: appt,
	}

	if slot, ok := w.findAvailableSlot(d.AppointmentDate, d.AppointmentTime); ok {
		if _, ferr := w.backend.SetSlotAvailability(ctx, slot.ID, false); ferr != nil {
			w.logger.Warn("could not mark slot as taken", "slot_id", slot.ID, "appointment_id", appt.ID, "error", ferr)
			res.SlotFlipErr = ferr
		} else {
			res.SlotFlipped = true
		}
	}

	return res, nil
}

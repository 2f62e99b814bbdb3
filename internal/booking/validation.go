package booking

import (
	"fmt"
	"strings"
	"time"
)

func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: date is required", ErrValidation)
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return d.Format(DateLayout), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// validateAppointment checks the booking form and returns the appointment to insert.
func validateAppointment(in AppointmentInput) (Appointment, error) {
	required := []struct {
		field string
		value string
	}{
		{"client_name", in.ClientName},
		{"client_email", in.ClientEmail},
		{"client_phone", in.ClientPhone},
		{"appointment_time", in.AppointmentTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Appointment{}, fmt.Errorf("%w: %s is required", ErrValidation, r.field)
		}
	}

	if !in.ServiceType.Valid() {
		return Appointment{}, fmt.Errorf("%w: unknown service_type %q", ErrValidation, in.ServiceType)
	}
	if !in.LocationType.Valid() {
		return Appointment{}, fmt.Errorf("%w: unknown location_type %q", ErrValidation, in.LocationType)
	}

	date, err := normalizeDate(in.AppointmentDate)
	if err != nil {
		return Appointment{}, err
	}

	address := optional(in.Address)
	if in.LocationType == LocationDomicile && address == nil {
		return Appointment{}, fmt.Errorf("%w: address is required for domicile appointments", ErrValidation)
	}

	return Appointment{
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientEmail:     strings.TrimSpace(in.ClientEmail),
		ClientPhone:     strings.TrimSpace(in.ClientPhone),
		ClientInstagram: optional(in.ClientInstagram),
		ServiceType:     in.ServiceType,
		AppointmentDate: date,
		AppointmentTime: strings.TrimSpace(in.AppointmentTime),
		LocationType:    in.LocationType,
		Address:         address,
		AdditionalNotes: optional(in.AdditionalNotes),
		Status:          StatusPending,
	}, nil
}

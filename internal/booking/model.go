package booking

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
)

// DateLayout is the wire and storage format of slot and appointment dates.
const DateLayout = "2006-01-02"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type LocationType string

const (
	LocationDomicile    LocationType = "domicile"
	LocationDeplacement LocationType = "deplacement"
)

func (l LocationType) Valid() bool {
	return l == LocationDomicile || l == LocationDeplacement
}

// TimeSlot is a bookable date/time unit. Date is a calendar date without zone,
// Time is compared lexically within a date.
type TimeSlot struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// Appointment keeps its own copy of the slot date and time; deleting the slot
// does not affect it.
type Appointment struct {
	ID              uuid.UUID           `json:"id"`
	ClientName      string              `json:"client_name"`
	ClientEmail     string              `json:"client_email"`
	ClientPhone     string              `json:"client_phone"`
	ClientInstagram *string             `json:"client_instagram,omitempty"`
	ServiceType     catalog.ServiceType `json:"service_type"`
	AppointmentDate string              `json:"appointment_date"`
	AppointmentTime string              `json:"appointment_time"`
	LocationType    LocationType        `json:"location_type"`
	Address         *string             `json:"address,omitempty"`
	AdditionalNotes *string             `json:"additional_notes,omitempty"`
	Status          AppointmentStatus   `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ClientIdentity is what a client sees after logging in with email and phone.
type ClientIdentity struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	AppointmentCount int    `json:"appointment_count"`
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// SlotInput is the admin form for a new slot.
type SlotInput struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

// AppointmentInput is the public booking form.
type AppointmentInput struct {
	ClientName      string              `json:"client_name"`
	ClientEmail     string              `json:"client_email"`
	ClientPhone     string              `json:"client_phone"`
	ClientInstagram string              `json:"client_instagram,omitempty"`
	ServiceType     catalog.ServiceType `json:"service_type"`
	AppointmentDate string              `json:"appointment_date"`
	AppointmentTime string              `json:"appointment_time"`
	LocationType    LocationType        `json:"location_type"`
	Address         string              `json:"address,omitempty"`
	AdditionalNotes string              `json:"additional_notes,omitempty"`
}

// SortSlots orders slots by date then time, both ascending.
func SortSlots(slots []TimeSlot) {
	slices.SortStableFunc(slots, func(a, b TimeSlot) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
}

// SortAppointments orders appointments by date then time, both ascending.
func SortAppointments(appts []Appointment) {
	slices.SortStableFunc(appts, func(a, b Appointment) int {
		if c := cmp.Compare(a.AppointmentDate, b.AppointmentDate); c != 0 {
			return c
		}
		return cmp.Compare(a.AppointmentTime, b.AppointmentTime)
	})
}

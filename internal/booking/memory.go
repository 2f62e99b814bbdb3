package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps slots and appointments in process memory. It backs
// handler and workflow tests that run the full HTTP stack without Postgres.
type MemoryRepository struct {
	mu           sync.Mutex
	slots        map[uuid.UUID]TimeSlot
	appointments map[uuid.UUID]Appointment
	events       []EventLog
	now          func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		slots:        make(map[uuid.UUID]TimeSlot),
		appointments: make(map[uuid.UUID]Appointment),
		now:          time.Now,
	}
}

func (m *MemoryRepository) ListSlots(_ context.Context, availableOnly bool) ([]TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []TimeSlot{}
	for _, s := range m.slots {
		if availableOnly && !s.IsAvailable {
			continue
		}
		out = append(out, s)
	}
	SortSlots(out)
	return out, nil
}

func (m *MemoryRepository) InsertSlot(_ context.Context, slot TimeSlot) (*TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.slots {
		if s.Date == slot.Date && s.Time == slot.Time {
			return nil, ErrSlotExists
		}
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.CreatedAt = m.now()
	m.slots[slot.ID] = slot
	return &slot, nil
}

func (m *MemoryRepository) SetSlotAvailability(_ context.Context, id uuid.UUID, available bool) (*TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	s.IsAvailable = available
	m.slots[id] = s
	return &s, nil
}

func (m *MemoryRepository) DeleteSlot(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(m.slots, id)
	return nil
}

func (m *MemoryRepository) InsertAppointment(_ context.Context, a Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Status = StatusPending
	a.CreatedAt = m.now()
	m.appointments[a.ID] = a
	return &a, nil
}

func (m *MemoryRepository) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) ListAppointments(_ context.Context) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, a)
	}
	SortAppointments(out)
	return out, nil
}

func (m *MemoryRepository) ListAppointmentsByClient(_ context.Context, email, phone string) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Appointment{}
	for _, a := range m.appointments {
		if a.ClientEmail == email && a.ClientPhone == phone {
			out = append(out, a)
		}
	}
	SortAppointments(out)
	return out, nil
}

func (m *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	m.appointments[id] = a
	return &a, nil
}

func (m *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the recorded event log.
func (m *MemoryRepository) Events() []EventLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]EventLog, len(m.events))
	copy(out, m.events)
	return out
}

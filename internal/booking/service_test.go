package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	redisclient "github.com/Lcsmrct/Henna-alicia/internal/redis"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

var fixedNow = time.Date(2025, 6, 14, 22, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	received []Appointment
	changed  []Appointment
	err      error
}

func (n *recordingNotifier) AppointmentReceived(_ context.Context, a Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, a)
	return n.err
}

func (n *recordingNotifier) AppointmentStatusChanged(_ context.Context, a Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, a)
	return n.err
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, uuid.UUID, func(context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

func newTestService(t *testing.T, notifier Notifier, locker redisclient.Locker) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo, locker, ServiceOptions{
		Notifier: notifier,
		Logger:   logging.Discard(),
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	return svc, repo
}

func validBooking() AppointmentInput {
	return AppointmentInput{
		ClientName:      "Amina",
		ClientEmail:     "amina@example.com",
		ClientPhone:     "0600000000",
		ServiceType:     catalog.Moyen,
		AppointmentDate: "2025-06-20",
		AppointmentTime: "10:00",
		LocationType:    LocationDeplacement,
	}
}

func TestCreateSlotRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, SlotInput{Date: "2025-06-20", Time: "10:00"})
	require.NoError(t, err)

	_, err = svc.CreateSlot(ctx, SlotInput{Date: "2025-06-20", Time: "10:00"})
	assert.ErrorIs(t, err, ErrSlotExists)

	slots, err := svc.ListSlots(ctx, false)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestCreateSlotDateBoundary(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, SlotInput{Date: "2025-06-13", Time: "10:00"})
	assert.ErrorIs(t, err, ErrSlotInPast)

	// today is accepted even though 09:00 has already passed
	slot, err := svc.CreateSlot(ctx, SlotInput{Date: "2025-06-14", Time: "09:00"})
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
}

func TestCreateSlotUsesBusinessTimezone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	svc := NewService(NewMemoryRepository(), nil, ServiceOptions{
		Logger:   logging.Discard(),
		Location: paris,
		Now:      func() time.Time { return fixedNow },
	})

	// 22:30 UTC is already the next day in Paris
	assert.Equal(t, "2025-06-15", svc.Today())
	_, err = svc.CreateSlot(context.Background(), SlotInput{Date: "2025-06-14", Time: "18:00"})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.CreateSlot(context.Background(), SlotInput{Date: "", Time: "10:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSlot(context.Background(), SlotInput{Date: "2025-06-20", Time: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSlot(context.Background(), SlotInput{Date: "20/06/2025", Time: "10:00"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListSlotsSortedAndFiltered(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()
	taken := false

	for _, in := range []SlotInput{
		{Date: "2025-06-21", Time: "09:00"},
		{Date: "2025-06-20", Time: "14:00", IsAvailable: &taken},
		{Date: "2025-06-20", Time: "10:00"},
	} {
		_, err := svc.CreateSlot(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.ListSlots(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "10:00", all[0].Time)
	assert.Equal(t, "14:00", all[1].Time)
	assert.Equal(t, "2025-06-21", all[2].Date)

	open, err := svc.ListSlots(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "10:00", open[0].Time)
}

func TestCreateAppointmentIsPendingAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, repo := newTestService(t, notifier, nil)

	appt, err := svc.CreateAppointment(context.Background(), validBooking())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, "2025-06-20", appt.AppointmentDate)
	assert.Equal(t, "10:00", appt.AppointmentTime)
	assert.Nil(t, appt.Address)
	require.Len(t, notifier.received, 1)

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventAppointmentCreated, events[0].EventType)
	assert.Equal(t, appt.ID, *events[0].AppointmentID)
}

func TestCreateAppointmentIgnoresSlotState(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	// no slot exists for this date at all
	_, err := svc.CreateAppointment(context.Background(), validBooking())
	require.NoError(t, err)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	cases := map[string]func(in *AppointmentInput){
		"missing name":        func(in *AppointmentInput) { in.ClientName = "" },
		"missing phone":       func(in *AppointmentInput) { in.ClientPhone = " " },
		"unknown service":     func(in *AppointmentInput) { in.ServiceType = "tatouage" },
		"unknown location":    func(in *AppointmentInput) { in.LocationType = "salon" },
		"domicile no address": func(in *AppointmentInput) { in.LocationType = LocationDomicile },
		"bad date":            func(in *AppointmentInput) { in.AppointmentDate = "demain" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validBooking()
			mutate(&in)
			_, err := svc.CreateAppointment(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	in := validBooking()
	in.LocationType = LocationDomicile
	in.Address = "12 rue des Lilas"
	appt, err := svc.CreateAppointment(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, appt.Address)
	assert.Equal(t, "12 rue des Lilas", *appt.Address)
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc, _ := newTestService(t, notifier, nil)
	ctx := context.Background()

	appt, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)

	updated, err := svc.UpdateAppointmentStatus(ctx, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)
	assert.Len(t, notifier.changed, 1)
}

func TestUpdateAppointmentStatusOnlyFromPending(t *testing.T) {
	svc, repo := newTestService(t, nil, nil)
	ctx := context.Background()

	appt, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)

	updated, err := svc.UpdateAppointmentStatus(ctx, appt.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	_, err = svc.UpdateAppointmentStatus(ctx, appt.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	stored, err := svc.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	events := repo.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventAppointmentCancelled, events[1].EventType)
}

func TestUpdateAppointmentStatusErrors(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.UpdateAppointmentStatus(ctx, uuid.New(), StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	appt, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)

	_, err = svc.UpdateAppointmentStatus(ctx, appt.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateAppointmentStatusInFlight(t *testing.T) {
	svc, _ := newTestService(t, nil, busyLocker{})
	ctx := context.Background()

	appt, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)

	_, err = svc.UpdateAppointmentStatus(ctx, appt.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrTransitionInFlight)

	stored, err := svc.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestDeleteSlotLeavesAppointments(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, SlotInput{Date: "2025-06-20", Time: "10:00"})
	require.NoError(t, err)
	appt, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlot(ctx, slot.ID))
	assert.ErrorIs(t, svc.DeleteSlot(ctx, slot.ID), ErrSlotNotFound)

	appts, err := svc.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, appt.ID, appts[0].ID)
	assert.Equal(t, "10:00", appts[0].AppointmentTime)
}

func TestSetSlotAvailability(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, SlotInput{Date: "2025-06-20", Time: "14:00"})
	require.NoError(t, err)

	updated, err := svc.SetSlotAvailability(ctx, slot.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	_, err = svc.SetSlotAvailability(ctx, uuid.New(), false)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestClientLoginExactMatch(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateAppointment(ctx, validBooking())
	require.NoError(t, err)
	second := validBooking()
	second.AppointmentDate = "2025-06-22"
	_, err = svc.CreateAppointment(ctx, second)
	require.NoError(t, err)

	identity, err := svc.ClientLogin(ctx, "amina@example.com", "0600000000")
	require.NoError(t, err)
	assert.Equal(t, "Amina", identity.Name)
	assert.Equal(t, 2, identity.AppointmentCount)

	_, err = svc.ClientLogin(ctx, "amina@example.com", "0611111111")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.ClientLogin(ctx, "AMINA@example.com", "0600000000")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.ClientAppointments(ctx, "", "0600000000")
	assert.ErrorIs(t, err, ErrValidation)
}

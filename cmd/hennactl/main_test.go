package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lcsmrct/Henna-alicia/internal/api/apitest"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
)

func run(t *testing.T, env *apitest.Env, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api", env.URL()}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBookAndConfirmFromTheCommandLine(t *testing.T) {
	env := apitest.New(t)
	_, err := env.Bookings.InsertSlot(context.Background(), booking.TimeSlot{
		ID: uuid.New(), Date: "2025-06-20", Time: "10:00", IsAvailable: true,
	})
	require.NoError(t, err)

	out, err := run(t, env, "", "slots", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-20|10:00")

	out, err = run(t, env, "", "book",
		"--slot", "2025-06-20|10:00",
		"--name", "Amina", "--email", "amina@example.com", "--phone", "0612345678",
		"--address", "12 rue des Lilas")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendez-vous créé avec succès")

	appts, err := env.Bookings.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appts, 1)

	_, err = run(t, env, "", "appointments", "confirm", appts[0].ID.String(), "--password", "wrong")
	require.Error(t, err)

	out, err = run(t, env, "", "appointments", "confirm", appts[0].ID.String(), "--password", apitest.AdminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendez-vous confirmé avec succès!")
}

func TestDeleteSlotPromptsUnlessYes(t *testing.T) {
	env := apitest.New(t)
	slot, err := env.Bookings.InsertSlot(context.Background(), booking.TimeSlot{
		ID: uuid.New(), Date: "2025-06-20", Time: "10:00", IsAvailable: true,
	})
	require.NoError(t, err)

	out, err := run(t, env, "n\n", "slots", "delete", slot.ID.String(), "--password", apitest.AdminPassword)
	require.Error(t, err)
	assert.Contains(t, out, "Êtes-vous sûr")

	out, err = run(t, env, "oui\n", "slots", "delete", slot.ID.String(), "--password", apitest.AdminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Créneau supprimé avec succès!")
}

func TestAddSlotTodayInBusinessZone(t *testing.T) {
	env := apitest.New(t)
	loc, err := time.LoadLocation("Etc/GMT+12")
	require.NoError(t, err)
	today := time.Now().In(loc).Format(booking.DateLayout)

	out, err := run(t, env, "", "slots", "add", today, "18:00",
		"--timezone", "Etc/GMT+12", "--password", apitest.AdminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Créneau ajouté avec succès!")

	slots, err := env.Bookings.ListSlots(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, today, slots[0].Date)
}

func TestUnknownTimezoneIsRejected(t *testing.T) {
	env := apitest.New(t)
	_, err := run(t, env, "", "slots", "list", "--timezone", "Mars/Olympus")
	require.Error(t, err)
	assert.Equal(t, int64(0), env.Requests())
}

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lcsmrct/Henna-alicia/internal/api/apitest"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
)

func TestServicesAndSlots(t *testing.T) {
	env := apitest.New(t)
	c := New(env.URL())
	ctx := context.Background()

	services, err := c.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, services[catalog.Charge].Price)

	_, err = c.CreateSlot(ctx, booking.SlotInput{Date: "2025-06-20", Time: "10:00"})
	require.True(t, IsUnauthorized(err), "got %v", err)

	_, err = c.AdminLogin(ctx, apitest.AdminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Token())

	slot, err := c.CreateSlot(ctx, booking.SlotInput{Date: "2025-06-20", Time: "10:00"})
	require.NoError(t, err)

	_, err = c.CreateSlot(ctx, booking.SlotInput{Date: "2025-06-20", Time: "10:00"})
	assert.True(t, IsConflict(err))
	assert.True(t, HasCode(err, "slot_exists"))

	updated, err := c.SetSlotAvailability(ctx, slot.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	open, err := c.ListSlots(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := c.ListSlots(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, c.DeleteSlot(ctx, slot.ID))
	err = c.DeleteSlot(ctx, slot.ID)
	assert.True(t, IsNotFound(err))
}

func TestAppointmentsAndReviews(t *testing.T) {
	env := apitest.New(t)
	c := New(env.URL())
	ctx := context.Background()

	appt, err := c.CreateAppointment(ctx, booking.AppointmentInput{
		ClientName: "Sara", ClientEmail: "sara@example.com", ClientPhone: "0600000001",
		ServiceType: catalog.Simple, AppointmentDate: "2025-06-21", AppointmentTime: "11:00",
		LocationType: booking.LocationDeplacement,
	})
	require.NoError(t, err)

	identity, err := c.ClientLogin(ctx, "sara@example.com", "0600000001")
	require.NoError(t, err)
	assert.Equal(t, 1, identity.AppointmentCount)

	_, err = c.ClientLogin(ctx, "sara@example.com", "0600000002")
	assert.True(t, IsNotFound(err))

	_, err = c.AdminLogin(ctx, apitest.AdminPassword)
	require.NoError(t, err)

	confirmed, err := c.UpdateAppointmentStatus(ctx, appt.ID, booking.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status)

	_, err = c.UpdateAppointmentStatus(ctx, appt.ID, booking.StatusCancelled)
	assert.True(t, IsConflict(err))

	rev, err := c.CreateReview(ctx, reviews.ReviewInput{ClientName: "Sara", ServiceType: catalog.Simple, Rating: 4, Comment: "Très fin"})
	require.NoError(t, err)
	_, err = c.SetReviewPublished(ctx, rev.ID, true)
	require.NoError(t, err)

	published, err := c.ListReviews(ctx, true)
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestAPIErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListAppointments(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Code)
	assert.True(t, IsServerError(err))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Services(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestTimeoutIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).GetAppointment(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

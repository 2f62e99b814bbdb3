package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/client"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
)

// ClientLogin looks the client up by the email and phone used when booking
// and loads their appointments. Any failure leaves the client logged out.
func (w *Workflow) ClientLogin(ctx context.Context, email, phone string) (*ClientSession, error) {
	w.mu.Lock()
	w.session = nil
	w.mu.Unlock()

	identity, err := w.backend.ClientLogin(ctx, email, phone)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrNoAppointments, err)
		}
		return nil, fmt.Errorf("client login: %w", err)
	}
	appts, err := w.backend.ClientAppointments(ctx, identity.Email, identity.Phone)
	if err != nil {
		return nil, fmt.Errorf("client appointments: %w", err)
	}
	booking.SortAppointments(appts)

	session := &ClientSession{Identity: *identity, Appointments: appts}
	w.mu.Lock()
	w.session = session
	w.mu.Unlock()

	w.logger.Info("client logged in", "appointments", len(appts))
	return w.ClientSession(), nil
}

func (w *Workflow) ClientLogout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = nil
}

// AdminLogin exchanges the password for a token, then loads appointments,
// slots and every review. A failed load is logged and leaves that list as it
// was; it does not undo the login.
func (w *Workflow) AdminLogin(ctx context.Context, password string) error {
	if _, err := w.backend.AdminLogin(ctx, password); err != nil {
		if client.IsUnauthorized(err) {
			return fmt.Errorf("%w: %w", ErrWrongPassword, err)
		}
		return fmt.Errorf("admin login: %w", err)
	}

	w.mu.Lock()
	w.admin = true
	w.mu.Unlock()

	loads := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"appointments", w.RefreshAppointments},
		{"slots", w.RefreshSlots},
		{"reviews", w.RefreshReviews},
	}
	for _, l := range loads {
		if err := l.fn(ctx); err != nil {
			w.logger.Warn("admin initial load failed", "list", l.name, "error", err)
		}
	}
	return nil
}

// AdminLogout drops the token and the admin-only lists.
func (w *Workflow) AdminLogout() {
	w.backend.SetToken("")

	w.mu.Lock()
	defer w.mu.Unlock()
	w.admin = false
	w.appointments = nil
	w.reviews = nil
}

// LoadServices fetches the service catalog. Each attempt is bounded by
// ServicesTimeout; after a failure it waits ServicesRetryDelay and tries
// again, until it succeeds or ctx is done. notify, when set, is called with
// every failed attempt.
func (w *Workflow) LoadServices(ctx context.Context, notify func(attempt int, err error)) (catalog.Catalog, error) {
	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, w.opts.ServicesTimeout)
		services, err := w.backend.Services(attemptCtx)
		cancel()
		if err == nil {
			w.mu.Lock()
			w.services = services
			w.mu.Unlock()
			return services, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		w.logger.Warn("services load failed, retrying", "attempt", attempt, "error", err)
		if notify != nil {
			notify(attempt, err)
		}

		timer := time.NewTimer(w.opts.ServicesRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// InstagramFeed loads the gallery. Its failures are reported only to the
// caller and leave the rest of the workflow untouched.
func (w *Workflow) InstagramFeed(ctx context.Context) ([]instagram.Post, error) {
	posts, err := w.backend.InstagramPosts(ctx)
	if err == nil {
		return posts, nil
	}

	switch {
	case client.IsNotFound(err):
		return nil, fmt.Errorf("%w: %w", ErrFeedNotConfigured, err)
	case client.IsUnauthorized(err):
		return nil, fmt.Errorf("%w: %w", ErrFeedTokenExpired, err)
	case errors.Is(err, context.Canceled):
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
}

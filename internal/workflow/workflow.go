// Package workflow drives the booking site on top of the REST API: it keeps
// the lists a visitor or the admin is looking at, and runs the booking,
// moderation and session flows against the backend.
package workflow

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

// Backend is the part of the API client the workflow talks to.
// *client.Client implements it.
type Backend interface {
	Services(ctx context.Context) (catalog.Catalog, error)

	ListSlots(ctx context.Context, availableOnly bool) ([]booking.TimeSlot, error)
	CreateSlot(ctx context.Context, in booking.SlotInput) (*booking.TimeSlot, error)
	SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) (*booking.TimeSlot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error

	CreateAppointment(ctx context.Context, in booking.AppointmentInput) (*booking.Appointment, error)
	ListAppointments(ctx context.Context) ([]booking.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (*booking.Appointment, error)

	ClientLogin(ctx context.Context, email, phone string) (*booking.ClientIdentity, error)
	ClientAppointments(ctx context.Context, email, phone string) ([]booking.Appointment, error)

	ListReviews(ctx context.Context, publishedOnly bool) ([]reviews.Review, error)
	CreateReview(ctx context.Context, in reviews.ReviewInput) (*reviews.Review, error)
	SetReviewPublished(ctx context.Context, id uuid.UUID, published bool) (*reviews.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error

	AdminLogin(ctx context.Context, password string) (time.Time, error)
	SetToken(token string)

	InstagramPosts(ctx context.Context) ([]instagram.Post, error)
}

// Confirmer asks the operator before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(string) bool { return true }

// Outcome is what a user action reports back. Ignored is set when the action
// was dropped because the same action was still outstanding.
type Outcome struct {
	Ignored bool
	Message string
}

type Options struct {
	Logger *logging.Logger
	Now    func() time.Time
	// Location decides what "today" means when adding a slot.
	Location *time.Location
	// ServicesTimeout bounds each attempt of LoadServices.
	ServicesTimeout time.Duration
	// ServicesRetryDelay is the pause between two LoadServices attempts.
	ServicesRetryDelay time.Duration
	// Confirmer defaults to accepting every prompt.
	Confirmer Confirmer
}

const (
	DefaultServicesTimeout    = 30 * time.Second
	DefaultServicesRetryDelay = 3 * time.Second
)

// ClientSession is the state of a logged-in client.
type ClientSession struct {
	Identity     booking.ClientIdentity
	Appointments []booking.Appointment
}

type Workflow struct {
	backend Backend
	opts    Options
	logger  *logging.Logger

	mu           sync.RWMutex
	services     catalog.Catalog
	slots        []booking.TimeSlot
	appointments []booking.Appointment
	reviews      []reviews.Review
	session      *ClientSession
	admin        bool

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func New(backend Backend, opts Options) *Workflow {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ServicesTimeout <= 0 {
		opts.ServicesTimeout = DefaultServicesTimeout
	}
	if opts.ServicesRetryDelay <= 0 {
		opts.ServicesRetryDelay = DefaultServicesRetryDelay
	}
	if opts.Confirmer == nil {
		opts.Confirmer = alwaysConfirm{}
	}
	return &Workflow{
		backend:  backend,
		opts:     opts,
		logger:   opts.Logger.With("component", "workflow"),
		inflight: make(map[string]struct{}),
	}
}

// begin marks key as in flight. It returns false when it already was.
func (w *Workflow) begin(key string) bool {
	w.inflightMu.Lock()
	defer w.inflightMu.Unlock()
	if _, busy := w.inflight[key]; busy {
		return false
	}
	w.inflight[key] = struct{}{}
	return true
}

func (w *Workflow) end(key string) {
	w.inflightMu.Lock()
	defer w.inflightMu.Unlock()
	delete(w.inflight, key)
}

// InFlight reports whether an action on key is outstanding.
func (w *Workflow) InFlight(key string) bool {
	w.inflightMu.Lock()
	defer w.inflightMu.Unlock()
	_, busy := w.inflight[key]
	return busy
}

func (w *Workflow) today() string {
	return w.opts.Now().In(w.opts.Location).Format(booking.DateLayout)
}

// IsAdmin reports whether an admin token is held.
func (w *Workflow) IsAdmin() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.admin
}

// Services returns the last catalog loaded by LoadServices, nil before that.
func (w *Workflow) Services() catalog.Catalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.services
}

// Appointments returns every known appointment sorted by date then time.
func (w *Workflow) Appointments() []booking.Appointment {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.appointments)
}

// PendingAppointments returns the known appointments still waiting for a decision.
func (w *Workflow) PendingAppointments() []booking.Appointment {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []booking.Appointment
	for _, a := range w.appointments {
		if a.Status == booking.StatusPending {
			out = append(out, a)
		}
	}
	return out
}

// Reviews returns the loaded reviews, newest first. Visitors only ever see
// published ones; the admin sees all of them.
func (w *Workflow) Reviews() []reviews.Review {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.reviews)
}

// ClientSession returns a copy of the client session, or nil when logged out.
func (w *Workflow) ClientSession() *ClientSession {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.session == nil {
		return nil
	}
	s := *w.session
	s.Appointments = slices.Clone(s.Appointments)
	return &s
}

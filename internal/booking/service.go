package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Lcsmrct/Henna-alicia/internal/metrics"
	redisclient "github.com/Lcsmrct/Henna-alicia/internal/redis"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrSlotInPast              = errors.New("cannot create a slot in the past")
	ErrInvalidStatus           = errors.New("status must be confirmed or cancelled")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrTransitionInFlight      = errors.New("a status update for this appointment is already in progress")
	ErrClientNotFound          = errors.New("no appointment found for these details")
)

var tracer = otel.Tracer("henna.internal.booking")

// Notifier tells the client about their appointment. Delivery is best-effort:
// the service logs failures and never reports them to the caller.
type Notifier interface {
	AppointmentReceived(ctx context.Context, appt Appointment) error
	AppointmentStatusChanged(ctx context.Context, appt Appointment) error
}

type ServiceOptions struct {
	Notifier Notifier
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
	// Location decides what "today" means for slot creation.
	Location *time.Location
	Now      func() time.Time
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, opts ServiceOptions) *Service {
	if locker == nil {
		locker = redisclient.NoopLocker{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		loc:      opts.Location,
		now:      opts.Now,
	}
}

// Today returns the current calendar date in the business time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

// ListSlots returns slots sorted by date then time.
func (s *Service) ListSlots(ctx context.Context, availableOnly bool) ([]TimeSlot, error) {
	slots, err := s.repo.ListSlots(ctx, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	SortSlots(slots)
	return slots, nil
}

// CreateSlot rejects missing fields, dates before today and duplicate
// (date, time) pairs. Same-day slots are allowed whatever the time.
func (s *Service) CreateSlot(ctx context.Context, in SlotInput) (*TimeSlot, error) {
	ctx, span := tracer.Start(ctx, "booking.create_slot")
	defer span.End()

	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	slotTime := strings.TrimSpace(in.Time)
	if slotTime == "" {
		return nil, fmt.Errorf("%w: time is required", ErrValidation)
	}
	if date < s.Today() {
		return nil, ErrSlotInPast
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	created, err := s.repo.InsertSlot(ctx, TimeSlot{
		ID:          uuid.New(),
		Date:        date,
		Time:        slotTime,
		IsAvailable: available,
	})
	s.metrics.ObserveSlotOperation("create", err)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("slot created", "slot_id", created.ID, "date", created.Date, "time", created.Time)
	return created, nil
}

func (s *Service) SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) (*TimeSlot, error) {
	slot, err := s.repo.SetSlotAvailability(ctx, id, available)
	s.metrics.ObserveSlotOperation("set_availability", err)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("set slot availability: %w", err)
	}
	return slot, nil
}

// DeleteSlot removes the slot whatever its availability. Appointments keep
// their own date and time and are not touched.
func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteSlot(ctx, id)
	s.metrics.ObserveSlotOperation("delete", err)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return err
		}
		return fmt.Errorf("delete slot: %w", err)
	}
	s.logger.Info("slot deleted", "slot_id", id)
	return nil
}

// CreateAppointment records a pending appointment. It does not look at slot
// availability: marking the slot as taken is the caller's separate,
// best-effort step.
func (s *Service) CreateAppointment(ctx context.Context, in AppointmentInput) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.create_appointment")
	defer span.End()

	appt, err := validateAppointment(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("henna.service_type", string(appt.ServiceType)),
		attribute.String("henna.appointment_date", appt.AppointmentDate),
	)

	created, err := s.repo.InsertAppointment(ctx, appt)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.metrics.ObserveAppointmentCreated(string(created.ServiceType))

	s.logEvent(ctx, created.ID, EventAppointmentCreated, map[string]any{
		"service_type":     created.ServiceType,
		"appointment_date": created.AppointmentDate,
		"appointment_time": created.AppointmentTime,
		"client_email":     created.ClientEmail,
	})

	if s.notifier != nil {
		nerr := s.notifier.AppointmentReceived(ctx, *created)
		s.metrics.ObserveNotification("received", nerr)
		if nerr != nil {
			s.logger.Warn("appointment received notification failed", "appointment_id", created.ID, "error", nerr)
		}
	}

	return created, nil
}

// ListAppointments returns every appointment sorted by date then time.
func (s *Service) ListAppointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if len(appts) >= MaxListedAppointments {
		s.logger.Warn("appointment list truncated", "limit", MaxListedAppointments)
	}
	SortAppointments(appts)
	return appts, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// UpdateAppointmentStatus moves a pending appointment to confirmed or
// cancelled. A concurrent update of the same appointment gets
// ErrTransitionInFlight instead of waiting.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, target AppointmentStatus) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("henna.appointment_id", id.String()),
		attribute.String("henna.status", string(target)),
	)

	if target != StatusConfirmed && target != StatusCancelled {
		return nil, ErrInvalidStatus
	}

	var updated *Appointment

	err := s.locker.WithLock(ctx, "appointment", id, func(lockCtx context.Context) error {
		appt, err := s.repo.UpdateAppointmentStatus(lockCtx, id, StatusPending, target)
		if errors.Is(err, ErrAppointmentNotFound) {
			// No pending row: either the id is unknown or the status already moved.
			if _, getErr := s.repo.GetAppointmentByID(lockCtx, id); getErr != nil {
				if errors.Is(getErr, ErrAppointmentNotFound) {
					return getErr
				}
				return fmt.Errorf("load appointment: %w", getErr)
			}
			return ErrInvalidStatusTransition
		}
		if err != nil {
			return fmt.Errorf("update appointment status: %w", err)
		}

		updated = appt

		eventType := EventAppointmentConfirmed
		if target == StatusCancelled {
			eventType = EventAppointmentCancelled
		}
		s.logEvent(lockCtx, appt.ID, eventType, map[string]any{
			"status": target,
		})

		return nil
	})
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		err = ErrTransitionInFlight
	}
	s.metrics.ObserveStatusTransition(string(target), err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("appointment status updated", "appointment_id", id, "status", target)

	if s.notifier != nil {
		nerr := s.notifier.AppointmentStatusChanged(ctx, *updated)
		s.metrics.ObserveNotification(string(target), nerr)
		if nerr != nil {
			s.logger.Warn("status notification failed", "appointment_id", id, "error", nerr)
		}
	}

	return updated, nil
}

// ClientLogin identifies a client by the exact email and phone used at booking time.
func (s *Service) ClientLogin(ctx context.Context, email, phone string) (*ClientIdentity, error) {
	appts, err := s.ClientAppointments(ctx, email, phone)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrClientNotFound
	}

	latest := appts[0]
	for _, a := range appts[1:] {
		if a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}

	return &ClientIdentity{
		Name:             latest.ClientName,
		Email:            latest.ClientEmail,
		Phone:            latest.ClientPhone,
		AppointmentCount: len(appts),
	}, nil
}

// ClientAppointments returns the appointments whose stored email and phone
// equal the given values.
func (s *Service) ClientAppointments(ctx context.Context, email, phone string) ([]Appointment, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" || phone == "" {
		return nil, fmt.Errorf("%w: email and phone are required", ErrValidation)
	}

	appts, err := s.repo.ListAppointmentsByClient(ctx, email, phone)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	SortAppointments(appts)
	return appts, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal event payload", "event_type", eventType, "error", err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Error("failed to insert event log", "event_type", eventType, "appointment_id", appointmentID, "error", err)
	}
}

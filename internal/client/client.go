// Package client is a typed client for the booking REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/api"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout applies to every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the admin bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er api.ErrorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Code = er.Error
			apiErr.Message = er.Details
		}
		if apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Services(ctx context.Context) (catalog.Catalog, error) {
	var out catalog.Catalog
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Slots

func (c *Client) ListSlots(ctx context.Context, availableOnly bool) ([]booking.TimeSlot, error) {
	var q url.Values
	if availableOnly {
		q = url.Values{"available_only": {"true"}}
	}
	var out []booking.TimeSlot
	if err := c.do(ctx, http.MethodGet, "/available-slots", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSlot(ctx context.Context, in booking.SlotInput) (*booking.TimeSlot, error) {
	var out booking.TimeSlot
	if err := c.do(ctx, http.MethodPost, "/available-slots", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) (*booking.TimeSlot, error) {
	q := url.Values{"is_available": {strconv.FormatBool(available)}}
	var out booking.TimeSlot
	if err := c.do(ctx, http.MethodPut, "/available-slots/"+id.String(), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/available-slots/"+id.String(), nil, nil, nil)
}

// Appointments

func (c *Client) CreateAppointment(ctx context.Context, in booking.AppointmentInput) (*booking.Appointment, error) {
	var out booking.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAppointments(ctx context.Context) ([]booking.Appointment, error) {
	var out []booking.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAppointment(ctx context.Context, id uuid.UUID) (*booking.Appointment, error) {
	var out booking.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (*booking.Appointment, error) {
	q := url.Values{"status": {string(status)}}
	var out booking.Appointment
	if err := c.do(ctx, http.MethodPut, "/appointments/"+id.String()+"/status", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Client self-service

func (c *Client) ClientLogin(ctx context.Context, email, phone string) (*booking.ClientIdentity, error) {
	var out booking.ClientIdentity
	if err := c.do(ctx, http.MethodPost, "/client/login", nil, api.ClientLoginRequest{Email: email, Phone: phone}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClientAppointments(ctx context.Context, email, phone string) ([]booking.Appointment, error) {
	q := url.Values{"email": {email}, "phone": {phone}}
	var out []booking.Appointment
	if err := c.do(ctx, http.MethodGet, "/client/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews

func (c *Client) ListReviews(ctx context.Context, publishedOnly bool) ([]reviews.Review, error) {
	q := url.Values{"published_only": {strconv.FormatBool(publishedOnly)}}
	var out []reviews.Review
	if err := c.do(ctx, http.MethodGet, "/reviews", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, in reviews.ReviewInput) (*reviews.Review, error) {
	var out reviews.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetReviewPublished(ctx context.Context, id uuid.UUID, published bool) (*reviews.Review, error) {
	var out reviews.Review
	if err := c.do(ctx, http.MethodPut, "/reviews/"+id.String(), nil, api.ReviewUpdateRequest{IsPublished: &published}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+id.String(), nil, nil, nil)
}

// Contact

func (c *Client) SendContactMessage(ctx context.Context, in contact.MessageInput) (*contact.Message, error) {
	var out contact.Message
	if err := c.do(ctx, http.MethodPost, "/contact", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListContactMessages(ctx context.Context) ([]contact.Message, error) {
	var out []contact.Message
	if err := c.do(ctx, http.MethodGet, "/contact", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Admin

// AdminLogin exchanges the password for a token and keeps it for later calls.
func (c *Client) AdminLogin(ctx context.Context, password string) (time.Time, error) {
	var out api.AdminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, api.AdminLoginRequest{Password: password}, &out); err != nil {
		return time.Time{}, err
	}
	c.SetToken(out.Token)
	return out.ExpiresAt, nil
}

// Instagram

func (c *Client) InstagramPosts(ctx context.Context) ([]instagram.Post, error) {
	var out struct {
		Posts []instagram.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/instagram/posts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) InstagramAuthURL(ctx context.Context) (string, error) {
	var out api.InstagramAuthURLResponse
	if err := c.do(ctx, http.MethodGet, "/instagram/auth-url", nil, nil, &out); err != nil {
		return "", err
	}
	return out.AuthURL, nil
}

func (c *Client) InstagramAuth(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/instagram/auth", nil, api.InstagramAuthRequest{Code: code}, nil)
}

func (c *Client) InstagramRevoke(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/instagram/token", nil, nil, nil)
}

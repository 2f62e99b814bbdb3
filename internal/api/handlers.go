package api

import (
	"net/http"
	"strings"

	"github.com/Lcsmrct/Henna-alicia/internal/auth"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

const bannerMessage = "API du site de henné - Hennaa.lash"

type handlers struct {
	bookings  *booking.Service
	reviews   *reviews.Service
	contact   *contact.Service
	instagram *instagram.Service
	auth      *auth.Authenticator
	catalog   catalog.Catalog
	logger    *logging.Logger
}

func (h *handlers) banner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: bannerMessage})
}

func (h *handlers) listServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

// Slots

func (h *handlers) listSlots(w http.ResponseWriter, r *http.Request) {
	availableOnly, err := queryBool(r, "available_only", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	slots, err := h.bookings.ListSlots(r.Context(), availableOnly)
	if err != nil {
		handleSlotError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *handlers) createSlot(w http.ResponseWriter, r *http.Request) {
	var req booking.SlotInput
	if !decodeJSON(w, r, &req) {
		return
	}
	slot, err := h.bookings.CreateSlot(r.Context(), req)
	if err != nil {
		handleSlotError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// setSlotAvailability is public when it marks a slot as taken. Reopening a
// slot needs an admin token.
func (h *handlers) setSlotAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_slot_id")
	if !ok {
		return
	}
	if r.URL.Query().Get("is_available") == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "is_available is required")
		return
	}
	available, err := queryBool(r, "is_available", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if available && !h.auth.IsAdmin(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "reopening a slot requires an admin token")
		return
	}

	slot, err := h.bookings.SetSlotAvailability(r.Context(), id, available)
	if err != nil {
		handleSlotError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *handlers) deleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_slot_id")
	if !ok {
		return
	}
	if err := h.bookings.DeleteSlot(r.Context(), id); err != nil {
		handleSlotError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Créneau supprimé avec succès"})
}

// Appointments

func (h *handlers) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req booking.AppointmentInput
	if !decodeJSON(w, r, &req) {
		return
	}
	appt, err := h.bookings.CreateAppointment(r.Context(), req)
	if err != nil {
		handleAppointmentError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *handlers) listAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.bookings.ListAppointments(r.Context())
	if err != nil {
		handleAppointmentError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *handlers) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_appointment_id")
	if !ok {
		return
	}
	appt, err := h.bookings.GetAppointment(r.Context(), id)
	if err != nil {
		handleAppointmentError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handlers) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_appointment_id")
	if !ok {
		return
	}
	status := booking.AppointmentStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	appt, err := h.bookings.UpdateAppointmentStatus(r.Context(), id, status)
	if err != nil {
		handleAppointmentError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Client self-service

func (h *handlers) clientLogin(w http.ResponseWriter, r *http.Request) {
	var req ClientLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	identity, err := h.bookings.ClientLogin(r.Context(), req.Email, req.Phone)
	if err != nil {
		handleClientError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (h *handlers) clientAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appts, err := h.bookings.ClientAppointments(r.Context(), q.Get("email"), q.Get("phone"))
	if err != nil {
		handleClientError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// Reviews

// listReviews serves published reviews to everyone. The full moderation
// list (published_only=false) is admin only.
func (h *handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	publishedOnly, err := queryBool(r, "published_only", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if !publishedOnly && !h.auth.IsAdmin(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "listing unpublished reviews requires an admin token")
		return
	}
	list, err := h.reviews.List(r.Context(), publishedOnly)
	if err != nil {
		handleReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviews.ReviewInput
	if !decodeJSON(w, r, &req) {
		return
	}
	rev, err := h.reviews.Create(r.Context(), req)
	if err != nil {
		handleReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (h *handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_review_id")
	if !ok {
		return
	}
	var req ReviewUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsPublished == nil {
		writeError(w, http.StatusBadRequest, "validation_error", "is_published is required")
		return
	}
	rev, err := h.reviews.SetPublished(r.Context(), id, *req.IsPublished)
	if err != nil {
		handleReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (h *handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid_review_id")
	if !ok {
		return
	}
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		handleReviewError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Avis supprimé"})
}

// Contact

func (h *handlers) createContactMessage(w http.ResponseWriter, r *http.Request) {
	var req contact.MessageInput
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.contact.Create(r.Context(), req)
	if err != nil {
		handleContactError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *handlers) listContactMessages(w http.ResponseWriter, r *http.Request) {
	list, err := h.contact.List(r.Context())
	if err != nil {
		handleContactError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Admin

func (h *handlers) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, expires, err := h.auth.Login(req.Password)
	if err != nil {
		h.logger.Warn("admin login rejected", "error", err)
		handleAuthError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, AdminLoginResponse{Token: token, ExpiresAt: expires})
}

// Instagram

func (h *handlers) instagramPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.instagram.Posts(r.Context())
	if err != nil {
		handleInstagramError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *handlers) instagramAuthURL(w http.ResponseWriter, _ *http.Request) {
	u, err := h.instagram.AuthURL()
	if err != nil {
		handleInstagramError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, InstagramAuthURLResponse{AuthURL: u})
}

func (h *handlers) instagramAuth(w http.ResponseWriter, r *http.Request) {
	var req InstagramAuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.instagram.Exchange(r.Context(), req.Code); err != nil {
		handleInstagramError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Token Instagram configuré avec succès"})
}

func (h *handlers) instagramRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.instagram.Revoke(r.Context()); err != nil {
		handleInstagramError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Token Instagram révoqué"})
}

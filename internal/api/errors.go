package api

import (
	"errors"
	"net/http"

	"github.com/Lcsmrct/Henna-alicia/internal/auth"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

func handleSlotError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, booking.ErrSlotInPast):
		writeError(w, http.StatusBadRequest, "slot_in_past", err.Error())
	case errors.Is(err, booking.ErrSlotExists):
		writeError(w, http.StatusConflict, "slot_exists", err.Error())
	case errors.Is(err, booking.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	default:
		internalError(w, logger, err)
	}
}

func handleAppointmentError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, booking.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, booking.ErrTransitionInFlight):
		writeError(w, http.StatusConflict, "transition_in_flight", "appointment is being updated, please retry shortly")
	default:
		internalError(w, logger, err)
	}
}

func handleClientError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, booking.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	default:
		internalError(w, logger, err)
	}
}

func handleReviewError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, reviews.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, reviews.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, "review_not_found", err.Error())
	default:
		internalError(w, logger, err)
	}
}

func handleContactError(w http.ResponseWriter, logger *logging.Logger, err error) {
	if errors.Is(err, contact.ErrValidation) {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	internalError(w, logger, err)
}

func handleInstagramError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, instagram.ErrMissingCode):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, instagram.ErrExchangeFailed):
		writeError(w, http.StatusBadRequest, "instagram_exchange_failed", err.Error())
	case errors.Is(err, instagram.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "instagram_token_not_found", err.Error())
	case errors.Is(err, instagram.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "instagram_token_expired", err.Error())
	case errors.Is(err, instagram.ErrUpstream):
		writeError(w, http.StatusBadGateway, "instagram_unavailable", err.Error())
	case errors.Is(err, instagram.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "instagram_not_configured", err.Error())
	default:
		internalError(w, logger, err)
	}
}

func handleAuthError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "mot de passe incorrect")
	case errors.Is(err, auth.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "admin_not_configured", err.Error())
	default:
		internalError(w, logger, err)
	}
}

func internalError(w http.ResponseWriter, logger *logging.Logger, err error) {
	logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

package workflow

import (
	"context"
	"errors"
	"net/http"

	"github.com/Lcsmrct/Henna-alicia/internal/client"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrSlotInPast        = errors.New("cannot create a slot in the past")
	ErrSlotExists        = errors.New("slot already exists")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrInvalidStatus     = errors.New("status must be confirmed or cancelled")
	ErrNotPending        = errors.New("appointment is no longer pending")
	ErrReviewNotFound    = errors.New("review not found")
	ErrDeclined          = errors.New("action declined")
	ErrWrongPassword     = errors.New("wrong admin password")
	ErrNoAppointments    = errors.New("no appointment found for these details")
	ErrNotAdmin          = errors.New("admin login required")
	ErrFeedNotConfigured = errors.New("instagram feed not configured")
	ErrFeedTokenExpired  = errors.New("instagram token expired")
	ErrFeedUnavailable   = errors.New("instagram feed unavailable")
)

// Kind is the category of a failed action.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindServer       Kind = "server"
	KindConnectivity Kind = "connectivity"
	KindUnknown      Kind = "unknown"
)

// Classify sorts an error returned by the workflow or the API client.
// A nil error is KindUnknown.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSlotInPast), errors.Is(err, ErrInvalidStatus):
		return KindValidation
	case errors.Is(err, ErrSlotExists), errors.Is(err, ErrNotPending):
		return KindConflict
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrReviewNotFound), errors.Is(err, ErrNoAppointments):
		return KindNotFound
	case errors.Is(err, ErrWrongPassword), errors.Is(err, ErrNotAdmin):
		return KindUnauthorized
	case errors.Is(err, client.ErrUnreachable), errors.Is(err, context.DeadlineExceeded):
		return KindConnectivity
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest, apiErr.StatusCode == http.StatusUnprocessableEntity:
			return KindValidation
		case apiErr.StatusCode == http.StatusNotFound:
			return KindNotFound
		case apiErr.StatusCode == http.StatusConflict:
			return KindConflict
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return KindUnauthorized
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return KindServer
		}
	}
	return KindUnknown
}

// Describe returns the French text shown to the user for a failed action.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrSlotInPast):
		return "Impossible de créer un créneau dans le passé"
	case errors.Is(err, ErrSlotExists):
		return "Ce créneau existe déjà"
	case errors.Is(err, ErrSlotNotFound):
		return "Créneau introuvable"
	case errors.Is(err, ErrWrongPassword):
		return "Mot de passe incorrect"
	case errors.Is(err, ErrNoAppointments):
		return "Aucun rendez-vous trouvé avec ces informations"
	case errors.Is(err, ErrFeedNotConfigured):
		return "Authentification Instagram requise. Contactez l'administrateur."
	case errors.Is(err, ErrFeedTokenExpired):
		return "Token Instagram expiré. Réauthentification nécessaire."
	case errors.Is(err, ErrFeedUnavailable):
		return "Impossible de charger les posts Instagram pour le moment."
	}

	switch Classify(err) {
	case KindValidation:
		return "Veuillez remplir tous les champs"
	case KindServer:
		return "Erreur serveur - Veuillez réessayer"
	case KindConnectivity:
		return "Serveur injoignable - Veuillez réessayer"
	case KindUnauthorized:
		return "Session expirée, veuillez vous reconnecter"
	}
	return "Une erreur est survenue. Veuillez réessayer ou nous contacter via Instagram @hennaa.lash"
}

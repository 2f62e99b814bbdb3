// Package notify emails clients about their appointment requests.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// AppointmentNotifier implements booking.Notifier over an EmailSender.
type AppointmentNotifier struct {
	sender   EmailSender
	services catalog.Catalog
}

func NewAppointmentNotifier(sender EmailSender, services catalog.Catalog) *AppointmentNotifier {
	if services == nil {
		services = catalog.Default()
	}
	return &AppointmentNotifier{sender: sender, services: services}
}

var _ booking.Notifier = (*AppointmentNotifier)(nil)

func (n *AppointmentNotifier) AppointmentReceived(ctx context.Context, appt booking.Appointment) error {
	body := fmt.Sprintf(
		"Bonjour %s,\n\nNous avons bien reçu votre demande de rendez-vous pour un %s le %s à %s.\n"+
			"Elle est en attente de confirmation. Vous recevrez un email dès qu'elle sera traitée.\n\nHennaa.lash",
		appt.ClientName, n.serviceName(appt.ServiceType), frenchDate(appt.AppointmentDate), appt.AppointmentTime)

	return n.sender.Send(ctx, EmailMessage{
		To:      appt.ClientEmail,
		ToName:  appt.ClientName,
		Subject: "Demande de rendez-vous reçue",
		Body:    body,
	})
}

func (n *AppointmentNotifier) AppointmentStatusChanged(ctx context.Context, appt booking.Appointment) error {
	var subject, verdict string
	switch appt.Status {
	case booking.StatusConfirmed:
		subject = "Votre rendez-vous est confirmé"
		verdict = "est confirmé. À très bientôt !"
	case booking.StatusCancelled:
		subject = "Votre rendez-vous est annulé"
		verdict = "a été annulé. N'hésitez pas à choisir un autre créneau sur le site."
	default:
		return fmt.Errorf("notify: no message for status %q", appt.Status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\nVotre rendez-vous %s du %s à %s %s\n",
		appt.ClientName, n.serviceName(appt.ServiceType), frenchDate(appt.AppointmentDate), appt.AppointmentTime, verdict)
	if appt.Status == booking.StatusConfirmed && appt.Address != nil {
		fmt.Fprintf(&b, "Adresse : %s\n", *appt.Address)
	}
	b.WriteString("\nHennaa.lash")

	return n.sender.Send(ctx, EmailMessage{
		To:      appt.ClientEmail,
		ToName:  appt.ClientName,
		Subject: subject,
		Body:    b.String(),
	})
}

func (n *AppointmentNotifier) serviceName(t catalog.ServiceType) string {
	if s, ok := n.services.Lookup(t); ok {
		return s.Name
	}
	return string(t)
}

// frenchDate renders 2025-06-20 as "20 juin 2025". Unparseable input is returned as is.
func frenchDate(date string) string {
	d, err := time.Parse(booking.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", d.Day(), frenchMonths[d.Month()-1], d.Year())
}

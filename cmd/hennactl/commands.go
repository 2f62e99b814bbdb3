package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/internal/workflow"
)

func newServicesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services and their prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			services, err := w.LoadServices(cmd.Context(), func(attempt int, err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Chargement des services impossible (tentative %d), nouvel essai...\n", attempt)
			})
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TYPE\tNOM\tPRIX\tDURÉE\tNOTE")
			for _, t := range catalog.Types {
				s, ok := services.Lookup(t)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d€\t%s\t%s\n", t, s.Name, s.Price, s.Duration, s.Note)
			}
			return tw.Flush()
		},
	}
}

func newSlotsCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Browse and manage time slots",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List open slots, or every slot with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			if err := w.RefreshSlots(cmd.Context()); err != nil {
				return err
			}
			slots := w.AvailableSlots()
			if all {
				slots = w.AllSlots()
			}
			printSlots(cmd.OutOrStdout(), slots)
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include slots already taken")

	add := &cobra.Command{
		Use:   "add DATE TIME",
		Short: "Add an open slot (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := adminWorkflow(cmd, flags)
			if err != nil {
				return err
			}
			out, err := w.AddSlot(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a slot (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: invalid slot id", workflow.ErrValidation)
			}
			w, err := adminWorkflow(cmd, flags)
			if err != nil {
				return err
			}
			out, err := w.DeleteSlot(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func printSlots(out io.Writer, slots []booking.TimeSlot) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tDATE\tHEURE\tDISPONIBLE\tCLÉ")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", s.ID, s.Date, s.Time, s.IsAvailable, workflow.SlotKey(s))
	}
	_ = tw.Flush()
}

func newBookCommand(flags *globalFlags) *cobra.Command {
	d := workflow.NewDraft()
	var slotKey, service, location string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment on an open slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			if err := w.RefreshSlots(cmd.Context()); err != nil {
				return err
			}
			if !d.SelectSlot(slotKey, w.AvailableSlots()) {
				return fmt.Errorf("%w: slot %q is not open, see 'hennactl slots list'", workflow.ErrValidation, slotKey)
			}
			d.ServiceType = catalog.ServiceType(service)
			d.LocationType = booking.LocationType(location)

			res, err := w.Book(cmd.Context(), d)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), res.Outcome)
			if res.Appointment != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Référence: %s\n", res.Appointment.ID)
			}
			if res.SlotFlipErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Le créneau n'a pas pu être marqué comme réservé: %v\n", res.SlotFlipErr)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&slotKey, "slot", "", "slot key DATE|TIME, as shown by 'slots list'")
	f.StringVar(&d.ClientName, "name", "", "client name")
	f.StringVar(&d.ClientEmail, "email", "", "client email")
	f.StringVar(&d.ClientPhone, "phone", "", "client phone")
	f.StringVar(&d.ClientInstagram, "instagram", "", "client instagram handle")
	f.StringVar(&service, "service", string(catalog.Simple), "service type: simple, moyen, charge or mariee")
	f.StringVar(&location, "location", string(booking.LocationDomicile), "domicile or deplacement")
	f.StringVar(&d.Address, "address", "", "address, required for domicile")
	f.StringVar(&d.AdditionalNotes, "notes", "", "additional notes")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}

func newAppointmentsCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Review and decide on appointments (admin)",
	}

	var pending bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := adminWorkflow(cmd, flags)
			if err != nil {
				return err
			}
			appts := w.Appointments()
			if pending {
				appts = w.PendingAppointments()
			}
			printAppointments(cmd.OutOrStdout(), appts)
			return nil
		},
	}
	list.Flags().BoolVar(&pending, "pending", false, "only appointments waiting for a decision")

	cmd.AddCommand(list,
		statusCommand(flags, "confirm", booking.StatusConfirmed),
		statusCommand(flags, "cancel", booking.StatusCancelled),
	)
	return cmd
}

func statusCommand(flags *globalFlags, use string, status booking.AppointmentStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: "Mark a pending appointment as " + string(status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: invalid appointment id", workflow.ErrValidation)
			}
			w, err := adminWorkflow(cmd, flags)
			if err != nil {
				return err
			}
			out, err := w.UpdateAppointmentStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printAppointments(out io.Writer, appts []booking.Appointment) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tDATE\tHEURE\tCLIENT\tSERVICE\tLIEU\tSTATUT")
	for _, a := range appts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.AppointmentDate, a.AppointmentTime, a.ClientName, a.ServiceType, a.LocationType, a.Status)
	}
	_ = tw.Flush()
}

func newReviewsCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read, submit and moderate reviews",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List published reviews, or every review with --all (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w *workflow.Workflow
			if all {
				var err error
				if w, err = adminWorkflow(cmd, flags); err != nil {
					return err
				}
			} else {
				w = newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
				if err := w.RefreshReviews(cmd.Context()); err != nil {
					return err
				}
			}
			printReviews(cmd.OutOrStdout(), w.Reviews())
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include unpublished reviews")

	var in reviews.ReviewInput
	var service string
	add := &cobra.Command{
		Use:   "add",
		Short: "Leave a review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.ServiceType = catalog.ServiceType(service)
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			out, err := w.SubmitReview(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}
	add.Flags().StringVar(&in.ClientName, "name", "", "your name")
	add.Flags().StringVar(&service, "service", string(catalog.Simple), "service you had")
	add.Flags().IntVar(&in.Rating, "rating", 5, "rating from 1 to 5")
	add.Flags().StringVar(&in.Comment, "comment", "", "your comment")

	publish := reviewCommand(flags, "publish", "Publish a review (admin)", setPublished(true))
	unpublish := reviewCommand(flags, "unpublish", "Hide a published review (admin)", setPublished(false))
	del := reviewCommand(flags, "delete", "Delete a review (admin)", (*workflow.Workflow).DeleteReview)

	cmd.AddCommand(list, add, publish, unpublish, del)
	return cmd
}

// setPublished toggles the review only when it is not already in the wanted state.
func setPublished(published bool) func(*workflow.Workflow, context.Context, uuid.UUID) (workflow.Outcome, error) {
	return func(w *workflow.Workflow, ctx context.Context, id uuid.UUID) (workflow.Outcome, error) {
		for _, r := range w.Reviews() {
			if r.ID == id && r.IsPublished == published {
				return workflow.Outcome{Message: "Rien à changer"}, nil
			}
		}
		return w.ToggleReview(ctx, id)
	}
}

func reviewCommand(flags *globalFlags, use, short string, action func(*workflow.Workflow, context.Context, uuid.UUID) (workflow.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: invalid review id", workflow.ErrValidation)
			}
			w, err := adminWorkflow(cmd, flags)
			if err != nil {
				return err
			}
			out, err := action(w, cmd.Context(), id)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printReviews(out io.Writer, list []reviews.Review) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tCLIENT\tSERVICE\tNOTE\tPUBLIÉ\tCOMMENTAIRE")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
			r.ID, r.ClientName, r.ServiceType, strconv.Itoa(r.Rating)+"/5", r.IsPublished, r.Comment)
	}
	_ = tw.Flush()
}

func newClientCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Client space",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login EMAIL PHONE",
		Short: "Show the appointments booked with this email and phone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			session, err := w.ClientLogin(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bonjour %s, %d rendez-vous\n", session.Identity.Name, session.Identity.AppointmentCount)
			printAppointments(cmd.OutOrStdout(), session.Appointments)
			return nil
		},
	})
	return cmd
}

func newInstagramCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "instagram",
		Short: "Show the latest Instagram posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
			posts, err := w.InstagramFeed(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range posts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", p.Timestamp, p.MediaType, p.Permalink)
			}
			return nil
		},
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// Command hennactl drives the booking site from a terminal: browse and book
// slots as a visitor, or manage slots, appointments and reviews as the admin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lcsmrct/Henna-alicia/internal/client"
	"github.com/Lcsmrct/Henna-alicia/internal/workflow"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

type globalFlags struct {
	apiURL   string
	password string
	timeout  time.Duration
	timezone string
	yes      bool
	verbose  bool

	location *time.Location
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", workflow.Describe(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "hennactl",
		Short:         "Command line client for the Hennaa.lash booking API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			loc, err := time.LoadLocation(flags.timezone)
			if err != nil {
				return fmt.Errorf("%w: invalid --timezone %q", workflow.ErrValidation, flags.timezone)
			}
			flags.location = loc
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.apiURL, "api", envOr("HENNA_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&flags.password, "password", os.Getenv("HENNA_ADMIN_PASSWORD"), "admin password for admin commands")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout, 0 for none")
	cmd.PersistentFlags().StringVar(&flags.timezone, "timezone", envOr("BUSINESS_TIMEZONE", "Europe/Paris"), "business time zone, decides which day is today")
	cmd.PersistentFlags().BoolVarP(&flags.yes, "yes", "y", false, "answer yes to confirmation prompts")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log workflow details to stderr")

	cmd.AddCommand(
		newServicesCommand(flags),
		newSlotsCommand(flags),
		newBookCommand(flags),
		newAppointmentsCommand(flags),
		newReviewsCommand(flags),
		newClientCommand(flags),
		newInstagramCommand(flags),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newWorkflow builds a workflow for one command run. Prompts read from in.
func newWorkflow(flags *globalFlags, in io.Reader, out io.Writer) *workflow.Workflow {
	level := "error"
	if flags.verbose {
		level = "debug"
	}

	c := client.New(flags.apiURL, client.WithHTTPClient(&http.Client{Timeout: flags.timeout}))

	confirmer := workflow.Confirmer(workflow.ConfirmFunc(func(string) bool { return true }))
	if !flags.yes {
		reader := bufio.NewReader(in)
		confirmer = workflow.ConfirmFunc(func(prompt string) bool {
			fmt.Fprintf(out, "%s [o/N] ", prompt)
			line, _ := reader.ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "o", "oui", "y", "yes":
				return true
			}
			return false
		})
	}

	return workflow.New(c, workflow.Options{
		Logger:    logging.NewWithWriter(os.Stderr, level),
		Location:  flags.location,
		Confirmer: confirmer,
	})
}

// adminWorkflow logs in before returning the workflow.
func adminWorkflow(cmd *cobra.Command, flags *globalFlags) (*workflow.Workflow, error) {
	if flags.password == "" {
		return nil, fmt.Errorf("%w: --password or HENNA_ADMIN_PASSWORD is required", workflow.ErrNotAdmin)
	}
	w := newWorkflow(flags, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := w.AdminLogin(cmd.Context(), flags.password); err != nil {
		return nil, err
	}
	return w, nil
}

func printOutcome(out io.Writer, o workflow.Outcome) {
	if o.Ignored {
		fmt.Fprintln(out, "Action déjà en cours, ignorée.")
		return
	}
	if o.Message != "" {
		fmt.Fprintln(out, o.Message)
	}
}

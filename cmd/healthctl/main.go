// Package main implements healthctl, the command-line client for the health
// tracking and consultation API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/config"
	"github.com/fyrsmithlabs/healthdash/internal/logging"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	"github.com/fyrsmithlabs/healthdash/internal/telemetry"
)

// version is set at build time.
var version = "dev"

// sessionExpiredHint is printed when the API rejects the stored token.
const sessionExpiredHint = "session expired, run `healthctl login`"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}

// reportedError marks an error whose message was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// app holds the dependencies shared by every command. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	apiURL     string
	jsonOut    bool
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	store  *session.FileStore
	client *apiclient.Client
	reg    services.Registry

	out    io.Writer
	errOut io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "healthctl",
		Short: "Track your health and consult doctors from the terminal",
		Long: `healthctl is a command-line client for the health tracking API.

It manages health records, reminders, goals, water, exercise and sleep logs,
books doctor appointments, asks the health chatbot and shows reports.

Examples:
  # Sign in
  healthctl login --email ann@example.com

  # Log today's measurements
  healthctl records add --weight 70.5 --height 175

  # Open the live dashboard
  healthctl dashboard`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.shutdown(cmd.Context())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/healthdash/config.yaml)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL, overrides the config file")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Output results as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRecordsCmd(a),
		newRemindersCmd(a),
		newAppointmentsCmd(a),
		newDoctorsCmd(a),
		newChatCmd(a),
		newReportCmd(a),
		newSearchCmd(a),
		newGoalsCmd(a),
		newWaterCmd(a),
		newExerciseCmd(a),
		newSleepCmd(a),
		newUsersCmd(a),
		newDashboardCmd(a),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w (run '%s --help' for usage)", err, cmd.CommandPath())
	})
	wrapErrors(root, a)
	return root
}

// wrapErrors makes every command print user-facing error text to stderr
// instead of the wrapped error chain.
func wrapErrors(cmd *cobra.Command, a *app) {
	for _, c := range cmd.Commands() {
		wrapErrors(c, a)
	}
	if cmd.RunE == nil {
		return
	}
	inner := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := inner(cmd, args)
		if err == nil {
			return nil
		}
		var reported reportedError
		if errors.As(err, &reported) {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", userMessage(err))
		a.logger.Debug(cmd.Context(), "command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
		return reportedError{err}
	}
}

// setup loads configuration and builds the API client stack.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	a.logger = logging.Nop()

	cfg, err := config.LoadWithFile(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	a.tel, err = telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
	if err != nil {
		return err
	}

	logCfg, err := logging.FromSettings(cfg.Logging)
	if err != nil {
		return err
	}
	logCfg.Output.Writer = a.errOut
	logCfg.Output.OTEL = a.tel.IsEnabled() && a.tel.LoggerProvider() != nil
	a.logger, err = logging.NewLogger(logCfg, a.tel.LoggerProvider())
	if err != nil {
		return err
	}

	if h := a.tel.Health(); h.Degraded {
		a.logger.Warn(ctx, "telemetry degraded", zap.String("reason", h.LastError))
	}

	a.store = session.NewFileStore(cfg.Session.Path)
	a.client = apiclient.New(cfg.API, a.store,
		apiclient.WithLogger(a.logger),
		apiclient.WithTelemetry(a.tel),
		apiclient.WithUserAgent("healthctl/"+version),
		apiclient.WithOnUnauthorized(func(context.Context) {
			fmt.Fprintln(a.errOut, sessionExpiredHint)
		}),
	)
	a.reg = services.NewRegistry(services.Options{Client: a.client, Store: a.store})

	a.logger.Debug(ctx, "healthctl configured",
		zap.String("api", cfg.API.BaseURL),
		zap.String("session", cfg.Session.Path))
	return nil
}

func (a *app) shutdown(ctx context.Context) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.tel != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := a.tel.Shutdown(ctx); err != nil {
			fmt.Fprintln(a.errOut, "telemetry shutdown:", err)
		}
	}
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table returns a tab-aligned writer; callers must Flush it.
func (a *app) table(header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

// emit prints v as JSON when --json is set, otherwise calls human.
func (a *app) emit(v any, human func() error) error {
	if a.jsonOut {
		return a.printJSON(v)
	}
	return human()
}

// done prints a confirmation line, or {"success":true,...} with --json.
func (a *app) done(msg string) error {
	if a.jsonOut {
		return a.printJSON(map[string]any{"success": true, "message": msg})
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// userMessage is the text shown for a failed command. Local usage errors
// carry their own message; API errors go through the client's mapping.
func userMessage(err error) string {
	var usage usageError
	if errors.As(err, &usage) {
		return usage.Error()
	}
	return apiclient.UserMessage(err)
}

// usageError is a problem with the command line itself.
type usageError string

func (e usageError) Error() string { return string(e) }

func usagef(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

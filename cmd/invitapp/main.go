package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invitapp/internal/adapters/discord"
	"invitapp/internal/adapters/httpapi"
	"invitapp/internal/adapters/scanner"
	"invitapp/internal/config"
	"invitapp/internal/infrastructure/database"
	"invitapp/internal/infrastructure/i18n"
	"invitapp/internal/infrastructure/logging"
	"invitapp/pkg/passcode"
	"invitapp/pkg/tz"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "invitapp",
		Short:        "Event invitations, RSVP and door check-in",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newBotCmd(),
		newScanCmd(),
		newTokenCmd(),
	)
	return root
}

// env is what every long-running command starts from.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	loc *time.Location
	t   *i18n.Translator
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("falling back to UTC")
	}
	return &env{
		cfg: cfg,
		log: log,
		loc: loc,
		t:   i18n.NewTranslator(cfg.DefaultLocale, logging.Component(log, "i18n")),
	}, nil
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if migrate && e.cfg.Store == config.StorePostgres {
				if err := database.RunMigrations(e.cfg.DatabaseURL, e.cfg.MigrationsPath, e.log); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), e)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving (postgres only)")
	return cmd
}

func serve(ctx context.Context, e *env) error {
	st, err := openStores(ctx, e.cfg, e.loc, logging.Component(e.log, "store"))
	if err != nil {
		return err
	}
	defer st.close()
	go runBackground(ctx, st, e.log)

	gin.SetMode(gin.ReleaseMode)
	api := httpapi.NewServer(services(st, e.t, e.loc), e.t, logging.Component(e.log, "http"), httpapi.Options{
		PublicBaseURL: e.cfg.PublicBaseURL,
		CORSOrigins:   e.cfg.CORSOrigins,
		RateLimit:     e.cfg.RateLimit,
		Location:      e.loc,
	})
	router, err := api.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              e.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end with the process context so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		e.log.Info().Str("addr", srv.Addr).Str("store", e.cfg.Store).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	e.log.Info().Msg("http server stopped")
	return nil
}

func runBackground(ctx context.Context, st *stores, log zerolog.Logger) {
	if err := st.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("store background task stopped")
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if e.cfg.Store != config.StorePostgres {
				return fmt.Errorf("migrate: STORE=%s has no schema", e.cfg.Store)
			}
			return database.RunMigrations(e.cfg.DatabaseURL, e.cfg.MigrationsPath, e.log)
		},
	}
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord operator console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if err := e.cfg.ValidateDiscord(); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openStores(ctx, e.cfg, e.loc, logging.Component(e.log, "store"))
			if err != nil {
				return err
			}
			defer st.close()
			go runBackground(ctx, st, e.log)

			svc := services(st, e.t, e.loc)
			log := logging.Component(e.log, "discord")
			handler := discord.NewHandler(svc.CheckIn, svc.Stats, svc.Events, e.t, e.loc, log)
			bot, err := discord.NewBot(e.cfg.DiscordToken, e.cfg.DiscordGuildID, handler, log)
			if err != nil {
				return err
			}
			return bot.Start(ctx)
		},
	}
}

func newScanCmd() *cobra.Command {
	var eventID, locale string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a scanning station that reads codes from stdin",
		Long:  "Each input line is one scanned code. An empty line dismisses the current result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openStores(ctx, e.cfg, e.loc, logging.Component(e.log, "store"))
			if err != nil {
				return err
			}
			defer st.close()

			if locale == "" {
				locale = e.cfg.DefaultLocale
			}
			session := scanner.NewSession(services(st, e.t, e.loc).CheckIn, eventID, e.t,
				scanner.WithResumeDelay(e.cfg.ScanResumeDelay),
				scanner.WithLocale(locale),
				scanner.WithLogger(logging.Component(e.log, "scanner")),
				scanner.WithListener(printView(cmd.OutOrStdout())),
			)
			err = session.Run(ctx, scanner.LineFeed(ctx, cmd.InOrStdin()))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "Event to admit guests for")
	cmd.Flags().StringVar(&locale, "lang", "", "Message language (defaults to DEFAULT_LOCALE)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

// printView renders station views as one line each.
func printView(w io.Writer) scanner.Listener {
	return func(v scanner.View) {
		switch {
		case v.State == scanner.Result && v.AwaitingDismiss:
			fmt.Fprintf(w, "[%s] %s (enter para continuar)\n", v.Outcome, v.Message)
		case v.State == scanner.Result:
			fmt.Fprintf(w, "[%s] %s\n", v.Outcome, v.Message)
		default:
			fmt.Fprintf(w, "-- %s\n", v.Message)
		}
	}
}

func newTokenCmd() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Encode or inspect pass codes",
	}
	token.AddCommand(
		&cobra.Command{
			Use:   "encode <event-id> <guest-id>",
			Short: "Print the pass text for a guest",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), passcode.Encode(args[0], args[1]))
				return err
			},
		},
		&cobra.Command{
			Use:   "decode <text>",
			Short: "Show what a scanned text decodes to",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res := passcode.Decode(args[0])
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "kind=%s event=%q guest=%q\n", res.Kind, res.EventID, res.GuestID)
				return err
			},
		},
	)
	return token
}

package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/config"
	"mealcircle-client/internal/models"
	"mealcircle-client/internal/sandbox"
	"mealcircle-client/internal/services"
	"mealcircle-client/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app is the wired client: one session, the caches bound to it and the
// configuration they were built from
type app struct {
	cfg      *config.Config
	session  *services.Session
	cart     *services.Cart
	checkout *services.Checkout
	out      io.Writer
}

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(os.Stdout)
		return
	}

	if args[0] == "sandbox" {
		if err := runSandbox(ctx, cfg, args[1:]); err != nil {
			log.Fatal().Err(err).Msg("Sandbox failed")
		}
		return
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize client")
	}

	if err := a.dispatch(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.UserMessage(err, err.Error()))
		stop()
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	// Initialize credential store
	store, err := storage.New(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	// Initialize API client
	client := api.New(cfg.Backend.APIURL(), api.Options{
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		RateBurst: cfg.Backend.RateBurst,
	})

	// Initialize services
	session := services.NewSession(client, store)
	cart := services.NewCart(session)
	session.Subscribe(func(u *models.User) {
		if u == nil {
			cart.Reset()
		}
	})

	return &app{
		cfg:      cfg,
		session:  session,
		cart:     cart,
		checkout: services.NewCheckout(session, cart),
		out:      out,
	}, nil
}

// errNotLoggedIn is shown when a command needs a session and none is stored
var errNotLoggedIn = errors.New("not logged in, run `mealcircle login <session-id>` first")

// requireUser hydrates the session from the stored token
func (a *app) requireUser(ctx context.Context) (*models.User, error) {
	if err := a.session.CheckSession(ctx); err != nil {
		return nil, fmt.Errorf("session expired, please log in again: %w", err)
	}
	user := a.session.User()
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}

func runSandbox(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sandbox", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Sandbox.Addr(), "listen address")
	seed := fs.Bool("seed", true, "load demo data")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sb := sandbox.New(cfg.Sandbox.JWTSecret)
	if *seed {
		sb.SeedDemo()
	}
	return sb.Run(ctx, *addr)
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

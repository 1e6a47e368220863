// Package app boots one of the platform services: configuration, logging,
// database, identity verification and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/api"
	"github.com/rpupo63/blog-platform/config"
	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/logging"
	"github.com/rpupo63/blog-platform/models"
)

const (
	shutdownTimeout = 30 * time.Second
	generatedPath   = "./generated"
)

// Run starts service and blocks until SIGINT/SIGTERM or a server failure.
func Run(service api.Service) error {
	fmt.Printf("Initializing %s...\n", service)

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		var pe *fs.PathError
		if !errors.As(err, &pe) {
			return fmt.Errorf("load .env: %w", err)
		}
		fmt.Printf("Warning: no .env file loaded: %v\n", err)
	}

	cfg, err := loadConfig(context.Background(), service, config.New(), ssmClient)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	return run(cfg, service, logger.Logger)
}

type parameterGetterFactory func(ctx context.Context) (config.ParameterGetter, error)

func ssmClient(ctx context.Context) (config.ParameterGetter, error) {
	return config.NewSSMClient(ctx)
}

// loadConfig resolves secrets from SSM when SSM_PARAMETER_PREFIX is set, then
// builds and validates the typed configuration.
func loadConfig(ctx context.Context, service api.Service, env map[string]string, newGetter parameterGetterFactory) (config.Config, error) {
	if config.GetString(env, "SSM_PARAMETER_PREFIX", "") != "" {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		getter, err := newGetter(ctx)
		if err != nil {
			return config.Config{}, err
		}
		if err := config.LoadSecrets(ctx, env, getter); err != nil {
			return config.Config{}, err
		}
	}

	cfg := config.Load(string(service), env)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cfg config.Config, service api.Service, logger zerolog.Logger) error {
	if cfg.MigrateOnStart && !cfg.GenerateModels {
		logger.Info().Msg("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return err
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		logger.Info().Str("outPath", generatedPath).Msg("Generating query helpers...")
		return models.GenerateQueries(db, generatedPath)
	}

	drift, err := models.CheckSchema(db)
	if err != nil {
		logger.Warn().Err(err).Msg("could not compare models with the database schema")
	}
	for table, columns := range drift {
		logger.Warn().Str("table", table).Strs("missingColumns", columns).Msg("model columns missing from database")
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	reporter := newReporter(cfg, logger)

	server, err := api.NewServer(cfg, logger, api.RepositoriesFrom(currentDB), verifier, service, reporter)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	logger.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	if sentryReporter, ok := reporter.(*api.SentryReporter); ok {
		sentryReporter.Flush(2 * time.Second)
	}

	if errors.Is(fatalErr, errInterrupted) || errors.Is(fatalErr, http.ErrServerClosed) {
		return nil
	}
	return fatalErr
}

// newVerifier selects the identity provider.
func newVerifier(cfg config.Config) (identity.Verifier, error) {
	switch cfg.IdentityProvider {
	case config.ProviderDescope:
		return identity.NewDescopeVerifier(cfg.DescopeProjectID, cfg.DescopeManagementKey)
	case config.ProviderJWT:
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("%w: unknown IDENTITY_PROVIDER %q", config.ErrConfigInvalid, cfg.IdentityProvider)
	}
}

// newReporter returns nil without a SENTRY_DSN. A Sentry init failure is
// logged and the service runs without reporting.
func newReporter(cfg config.Config, logger zerolog.Logger) api.ErrorReporter {
	if cfg.SentryDSN == "" {
		return nil
	}

	reporter, err := api.NewSentryReporter(cfg.SentryDSN, cfg.Environment, cfg.Service)
	if err != nil {
		logger.Warn().Err(err).Msg("error reporting disabled")
		return nil
	}
	return reporter
}

var errInterrupted = errors.New("interrupted")

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%w: %s", errInterrupted, <-c)
}

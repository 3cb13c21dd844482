// Package app assembles the client runtime: session storage, router and guards,
// session state, the gateway, the stores and the web shell serving them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/jobit-client/internal/api/http"
	"github.com/spec-kit/jobit-client/internal/api/http/handlers"
	"github.com/spec-kit/jobit-client/internal/config"
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/events"
	"github.com/spec-kit/jobit-client/internal/gateway"
	"github.com/spec-kit/jobit-client/internal/messages"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/observability"
	"github.com/spec-kit/jobit-client/internal/persistence"
	"github.com/spec-kit/jobit-client/internal/service"
	"github.com/spec-kit/jobit-client/internal/session"
	"github.com/spec-kit/jobit-client/internal/stores"
	"github.com/spec-kit/jobit-client/internal/worker"
)

// App is one hosted session and everything around it.
type App struct {
	HTTP         *fiber.App
	Store        persistence.Store
	Router       *navigation.Router
	Session      *session.State
	Gateway      *gateway.Client
	Jobs         *stores.Jobs
	Applications *stores.Applications
	Users        *stores.Users
	Metrics      *observability.Metrics
	Progress     *observability.LoadingBar
	Inbox        *messages.Inbox

	meterProvider *sdkmetric.MeterProvider
	logger        *zap.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	store      persistence.Store
	httpClient *http.Client
}

// WithStore uses store instead of opening the configured backend.
func WithStore(store persistence.Store) Option { return func(o *options) { o.store = store } }

// WithHTTPClient replaces the gateway HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(o *options) { o.httpClient = hc } }

// New wires the runtime and restores any persisted session.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := messages.Load(cfg.Messages.Locale, cfg.Messages.Path)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store, err = persistence.Open(ctx, cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
	}

	a := &App{
		Store:    store,
		Metrics:  observability.NewMetrics(),
		Progress: observability.NewLoadingBar(logger),
		Inbox:    messages.NewInbox(20, logger),
		logger:   logger,
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, a.Inbox, table, logger))

	a.Router = navigation.NewRouter(dispatcher, logger)
	a.Session = session.New(store, cfg.API.TokenURL(),
		session.WithNavigator(a.Router),
		session.WithDispatcher(dispatcher),
		session.WithMessages(table),
		session.WithLogger(logger),
		session.WithEagerExpiryLogout(cfg.Session.EagerExpiryLogout),
	)
	if err := a.Session.Hydrate(ctx); err != nil {
		store.Close() //nolint:errcheck
		return nil, fmt.Errorf("restore session: %w", err)
	}

	a.Router.BeforeEach(navigation.RequireAuth(a.Session, navigation.PublicPatterns))
	a.Router.BeforeEach(navigation.RequireRole(a.Session, domain.RoleCompanyManager, "/company"))
	a.Router.BeforeEach(navigation.RequireRole(a.Session, domain.RoleAdmin, "/admin"))
	a.Router.BeforeEach(navigation.RequireRole(a.Session, domain.RoleCandidate, "/profile", "/applications", "/recommendations"))

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.ClientTimeout()}
	}
	gwOpts := []gateway.Option{
		gateway.WithHTTPClient(httpClient),
		gateway.WithLogger(logger),
		gateway.WithNavigator(a.Router),
		gateway.WithNotifier(a.Inbox),
		gateway.WithProgress(a.Progress),
		gateway.WithRecorder(a.Metrics),
		gateway.WithMessages(table),
	}
	if cfg.Metrics.OTelEnabled {
		a.meterProvider = sdkmetric.NewMeterProvider()
		otelMetrics, err := observability.NewOTelMetrics(a.meterProvider.Meter("github.com/spec-kit/jobit-client/gateway"))
		if err != nil {
			store.Close() //nolint:errcheck
			return nil, err
		}
		gwOpts = append(gwOpts, gateway.WithRecorder(otelMetrics))
	}
	a.Gateway, err = gateway.New(cfg.API.Origin, a.Session, gwOpts...)
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, err
	}
	a.Session.SetExchanger(a.Gateway)

	a.Jobs = stores.NewJobs(a.Gateway, logger)
	a.Applications = stores.NewApplications(a.Gateway, logger)
	a.Users = stores.NewUsers(a.Gateway, logger)

	a.HTTP = fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(a.HTTP, logger, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(a.HTTP, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Driver, store),
		Session: handlers.NewSessionHandler(a.Session, a.Router, a.Inbox),
		Jobs:    handlers.NewJobsHandler(a.Jobs, a.Applications, a.Router),
		Views:   handlers.NewViewsHandler(a.Router),
		Router:  a.Router,
		Metrics: a.Metrics,
	})
	return a, nil
}

// Listen serves the web shell on addr until Close.
func (a *App) Listen(addr string) error {
	a.logger.Info("web shell listening", zap.String("addr", addr))
	return a.HTTP.Listen(addr)
}

// Close stops the shell and releases storage and metrics.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.HTTP.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown shell: %w", err))
	}
	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

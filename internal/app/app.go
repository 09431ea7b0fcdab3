package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"volunteerHub/internal/config"
	"volunteerHub/internal/credentials"
	"volunteerHub/internal/handlers"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/middleware"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/repository/inmemory"
	"volunteerHub/internal/repository/postgres"
	"volunteerHub/internal/service"
	"volunteerHub/internal/worker"
)

var (
	_ service.Repository = (*inmemory.Storage)(nil)
	_ service.Repository = (*postgres.Storage)(nil)

	_ middleware.Gate           = (*service.AuthService)(nil)
	_ handlers.VolunteerService = (*service.VolunteerService)(nil)
	_ handlers.TaskService      = (*service.TaskService)(nil)
	_ handlers.FeedService      = (*service.FeedService)(nil)
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     http.Handler
	repository service.Repository
	volunteers *service.VolunteerService
	worker     *worker.LikeWorker
	shutdowns  []func() error
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func() error, 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() error {
		logger.Info("App: flushing logs")
		logger.Sync()
		return nil
	})

	repository, err := a.initRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.repository = repository
	a.shutdowns = append(a.shutdowns, func() error {
		repository.Close()
		return nil
	})

	catalog := volunteer.NewCatalog(a.config.Campaign.Domains)
	hasher := credentials.NewBcryptHasher(a.config.Auth.BcryptCost)
	tokens := credentials.NewJWTIssuer(a.config.Auth.JWTSecret, a.config.Auth.Issuer, a.config.Auth.TokenTTL)

	a.volunteers = service.NewVolunteerService(repository, hasher, tokens, catalog)
	auth := service.NewAuthService(repository, tokens)
	tasks := service.NewTaskService(repository, catalog)
	posts := service.NewFeedService(repository)

	h := handlers.NewHandler(a.volunteers, tasks, posts, repository)
	a.router = a.routes(h, auth)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	interval := a.config.Worker.LikeRecountInterval
	a.worker = worker.NewLikeWorker(repository, &interval)

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.Strings("domains", catalog.Names()))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.Repository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("App: using in-memory storage")
		return inmemory.NewStorage(), nil

	case config.RepositoryPostgres:
		db := a.config.Database
		if db.AutoMigrate {
			if err := postgres.MigrateUp(db.URL); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		storage, err := postgres.New(ctx, db.URL, postgres.Options{
			MaxConnections: db.MaxConnections,
			MinConnections: db.MinConnections,
			IdleTimeout:    db.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return storage, nil

	default:
		return nil, fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Volunteers exposes account management for operator tooling.
func (a *App) Volunteers() *service.VolunteerService {
	return a.volunteers
}

// Run serves HTTP and runs the background worker until ctx is cancelled, then
// shuts everything down within server.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP: server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops the server and releases resources in reverse order of
// acquisition. Every step runs even if an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	logger.Info("App: shutting down")

	var err error
	if a.server != nil {
		err = multierr.Append(err, a.server.Shutdown(ctx))
	}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.shutdowns[i]())
	}
	return err
}

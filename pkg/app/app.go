// Package app wires configuration, persistence, handlers and servers into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimburion/blogapi/pkg/api"
	"github.com/nimburion/blogapi/pkg/auth"
	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/health"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/repository"
	"github.com/nimburion/blogapi/pkg/repository/memory"
	mongorepo "github.com/nimburion/blogapi/pkg/repository/mongo"
	"github.com/nimburion/blogapi/pkg/server"
	"github.com/nimburion/blogapi/pkg/store"
	"github.com/nimburion/blogapi/pkg/store/mongodb"
)

// App holds the long-lived collaborators of a running service.
type App struct {
	cfg      *config.Config
	log      logger.Logger
	gateway  store.Gateway
	handler  *api.Handler
	verifier auth.TokenVerifier
	health   *health.Registry
	metrics  *metrics.Registry
}

type repositories struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	blogs      repository.BlogRepository
}

// Cosa fa: costruisce gateway, repository, verifier e handler a partire dalla configurazione.
// Cosa NON fa: non apre connessioni né porte; il gateway MongoDB resta disconnesso fino alla prima richiesta.
// Esempio minimo: a, err := app.New(cfg, log); err = a.Run(ctx)
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	gateway, err := store.NewGateway(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("create store gateway: %w", err)
	}

	repos, err := newRepositories(gateway)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	verifier, err := auth.NewVerifier(cfg.Auth, log)
	if err != nil {
		_ = gateway.Close()
		return nil, fmt.Errorf("create token verifier: %w", err)
	}

	handler, err := api.NewHandler(api.Deps{
		Gateway:    gateway,
		Users:      repos.users,
		Categories: repos.categories,
		Blogs:      repos.blogs,
		Logger:     log,
		Paging:     cfg.Blogs,
	})
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		gateway:  gateway,
		handler:  handler,
		verifier: verifier,
		health:   newHealthRegistry(gateway),
		metrics:  metrics.NewRegistry(),
	}, nil
}

func newRepositories(gateway store.Gateway) (repositories, error) {
	switch gw := gateway.(type) {
	case *mongodb.Gateway:
		return repositories{
			users:      mongorepo.NewUsers(gw),
			categories: mongorepo.NewCategories(gw),
			blogs:      mongorepo.NewBlogs(gw),
		}, nil
	case store.InProcess:
		mem := memory.NewStore()
		return repositories{
			users:      mem.Users(),
			categories: mem.Categories(),
			blogs:      mem.Blogs(),
		}, nil
	default:
		return repositories{}, fmt.Errorf("no repositories for store gateway %T", gateway)
	}
}

func newHealthRegistry(gateway store.Gateway) *health.Registry {
	registry := health.NewRegistry()
	if gw, ok := gateway.(*mongodb.Gateway); ok {
		registry.Register(health.NewStoreChecker("mongodb", gw,
			health.WithState(func() string { return gw.State().String() })))
		return registry
	}
	registry.Register(health.NewStoreChecker("memory", gateway))
	return registry
}

// Gateway returns the store gateway shared by every handler.
func (a *App) Gateway() store.Gateway { return a.gateway }

// Health returns the readiness registry served on /ready.
func (a *App) Health() *health.Registry { return a.health }

// RunOptions describes the servers for this app. The gateway is closed by a shutdown hook.
func (a *App) RunOptions() *server.RunOptions {
	return &server.RunOptions{
		Config:          a.cfg,
		Logger:          a.log,
		Verifier:        a.verifier,
		RegisterRoutes:  a.handler.Register,
		HealthRegistry:  a.health,
		MetricsRegistry: a.metrics,
		ShutdownHooks: []server.LifecycleHook{
			{Name: "store-gateway", Fn: func(context.Context) error { return a.gateway.Close() }},
		},
	}
}

// Build constructs the HTTP servers without starting them.
func (a *App) Build() (*server.HTTPServers, *server.RunOptions, error) {
	opts := a.RunOptions()
	servers, err := server.BuildHTTPServers(opts)
	if err != nil {
		return nil, nil, err
	}
	return servers, opts, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	servers, opts, err := a.Build()
	if err != nil {
		return err
	}
	return server.RunHTTPServers(ctx, servers, opts)
}

// Run builds the app from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	a, err := New(cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// CheckDependencies connects to the configured store and pings it once.
func CheckDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	gateway, err := store.NewGateway(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("create store gateway: %w", err)
	}
	defer gateway.Close()

	if err := gateway.HealthCheck(ctx); err != nil {
		return err
	}
	log.Info("dependencies healthy", "database_type", cfg.Database.Type)
	return nil
}

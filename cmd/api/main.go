package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/customer-care/ticket-api/internal/api/http"
	"github.com/customer-care/ticket-api/internal/api/http/handlers"
	"github.com/customer-care/ticket-api/internal/auth"
	"github.com/customer-care/ticket-api/internal/config"
	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/observability"
	"github.com/customer-care/ticket-api/internal/persistence"
	"github.com/customer-care/ticket-api/internal/repository"
	"github.com/customer-care/ticket-api/internal/service"
	"github.com/customer-care/ticket-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	tickets    repository.TicketRepository
	responses  repository.ResponseRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
}

func main() {
	flags := pflag.NewFlagSet("ticket-api", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML config file (defaults to $CONFIG_FILE)")
	migrateOnly := flags.Bool("migrate-only", false, "apply database migrations and exit")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations || *migrateOnly {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	if *migrateOnly {
		return
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	revocations := auth.NewMemoryRevocationStore()
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	}

	metrics := observability.NewMetrics("customer_care")
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    repos.users,
		Revocations: revocations,
		Logger:      logger,
	})
	if _, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   repos.tickets,
		UserRepo:     repos.users,
		CategoryRepo: repos.categories,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	responseService := service.NewResponseService(service.ResponseDependencies{
		ResponseRepo: repos.responses,
		TicketRepo:   repos.tickets,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	categoryService := service.NewCategoryService(repos.categories)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, metrics)
	worker.StartNotificationWorker(notificationService, logger)

	app := httptransport.NewApp(cfg.App, logger, metrics, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Responses:      handlers.NewResponsesHandler(responseService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.users, revocations),
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildRepositories selects Postgres gateways when a pool is available and
// the in-memory store otherwise.
func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := repository.NewMemoryStore()
		return repositories{
			tickets:    store.Tickets(),
			responses:  store.Responses(),
			users:      store.Users(),
			categories: store.Categories(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		tickets:    repository.NewTicketRepository(pool),
		responses:  repository.NewResponseRepository(pool),
		users:      repository.NewUserRepository(pool),
		categories: repository.NewCategoryRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/auth"
	authPostgres "github.com/frahmantamala/crm-management/internal/auth/postgres"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/customer"
	customerPostgres "github.com/frahmantamala/crm-management/internal/customer/postgres"
	"github.com/frahmantamala/crm-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/crm-management/internal/permission/postgres"
	"github.com/frahmantamala/crm-management/internal/role"
	rolePostgres "github.com/frahmantamala/crm-management/internal/role/postgres"
	"github.com/frahmantamala/crm-management/internal/storage"
	"github.com/frahmantamala/crm-management/internal/transport/rest"
	"github.com/frahmantamala/crm-management/internal/transport/swagger"
	"github.com/frahmantamala/crm-management/internal/user"
	userPostgres "github.com/frahmantamala/crm-management/internal/user/postgres"
	"github.com/frahmantamala/crm-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const openAPIFile = "api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Store    *datastore.Store
	EventBus *events.EventBus
	Router   *chi.Mux
	Routes   rest.Routes
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.Routes, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.EventBus.Wait()
		if err := deps.Store.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	store, err := openStore(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	blobs, err := storage.NewDiskStore(config.Storage.UploadDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(config.Security.TokenSecret, config.Security.AccessTokenDuration)

	roleService := role.NewService(rolePostgres.NewRoleRepository(store.Gorm), lg)
	role.NewEventHandler(roleService, lg).RegisterEventHandlers(eventBus)

	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(store.Gorm), lg)
	userService := user.NewService(userPostgres.NewUserRepository(store.Gorm), hasher, roleService, eventBus, lg)
	customerService := customer.NewService(customerPostgres.NewCustomerRepository(store.Gorm), blobs, config.Storage.MaxUploadSize, lg)
	authService := auth.NewService(authPostgres.NewRepository(store.SQL), userService, tokens, hasher, lg)

	routes := rest.Routes{
		Health:         rest.NewHealthHandler(store.SQL, config.Database.Driver, lg),
		Auth:           auth.NewHandler(authService),
		RBAC:           auth.NewRBACAuthorization(auth.NewRoleChecker(), lg),
		Users:          user.NewHandler(userService),
		Customers:      customer.NewHandler(customerService),
		Roles:          role.NewHandler(roleService),
		Permissions:    permission.NewHandler(permissionService),
		AllowedOrigins: config.Server.Origins(),
	}
	if config.Observability.Metrics.Enabled {
		routes.MetricsPath = config.Observability.Metrics.Path
	}

	doc, err := swagger.Load(ctx, afero.NewOsFs(), openAPIFile)
	if err != nil {
		lg.Warn("openapi document unavailable, swagger disabled", "error", err)
	} else {
		routes.OpenAPI = doc
	}

	return &Dependencies{
		Config:   config,
		Store:    store,
		EventBus: eventBus,
		Router:   chi.NewRouter(),
		Routes:   routes,
		Logger:   lg,
	}, nil
}

// openStore connects to the configured database. sqlite has no goose
// migrations, so its schema is created from the models.
func openStore(cfg internal.DatabaseConfig) (*datastore.Store, error) {
	store, err := datastore.Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == internal.DriverSQLite {
		if err := datastore.Migrate(store.Gorm); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return store, nil
	}

	if err := store.SQL.Ping(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return store, nil
}

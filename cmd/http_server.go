package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/auth"
	"github.com/airotrack/fieldops/internal/coordinator"
	"github.com/airotrack/fieldops/internal/core/events"
	"github.com/airotrack/fieldops/internal/notification"
	notificationPostgres "github.com/airotrack/fieldops/internal/notification/postgres"
	"github.com/airotrack/fieldops/internal/reimbursement"
	reimbursementPostgres "github.com/airotrack/fieldops/internal/reimbursement/postgres"
	"github.com/airotrack/fieldops/internal/reporting"
	"github.com/airotrack/fieldops/internal/service"
	servicePostgres "github.com/airotrack/fieldops/internal/service/postgres"
	"github.com/airotrack/fieldops/internal/session"
	sessionPostgres "github.com/airotrack/fieldops/internal/session/postgres"
	"github.com/airotrack/fieldops/internal/tracker"
	trackerPostgres "github.com/airotrack/fieldops/internal/tracker/postgres"
	"github.com/airotrack/fieldops/internal/transport/rest"
	"github.com/airotrack/fieldops/internal/user"
	userPostgres "github.com/airotrack/fieldops/internal/user/postgres"
	"github.com/airotrack/fieldops/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	Router      *chi.Mux
	Coordinator *coordinator.Coordinator
	Handlers    rest.Handlers
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.sqlDB(), deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "offline", deps.Coordinator.Offline())

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
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
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) sqlDB() *sql.DB {
	if d.DB == nil {
		return nil
	}
	return d.DB.DB
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.App.Env)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		if !config.App.AllowOffline {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		lg.Warn("database unreachable, starting in offline mode", "error", err)
		db = nil
	}

	state := coordinator.NewState()
	bus := events.NewEventBus(lg)
	ghost := notification.SuppressedActor{ID: config.App.GhostID, Name: config.App.GhostName}

	var repos coordinator.Repositories
	var sessions session.Store
	var notifRepo notification.Repository
	if db != nil {
		gormDB, err := openGorm(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open gorm connection: %w", err)
		}
		notifPg := notificationPostgres.NewNotificationRepository(gormDB)
		repos = coordinator.Repositories{
			Services:       servicePostgres.NewServiceRepository(gormDB),
			Trackers:       trackerPostgres.NewTrackerRepository(gormDB),
			Reimbursements: reimbursementPostgres.NewReimbursementRepository(gormDB),
			Users:          userPostgres.NewUserRepository(gormDB),
			Notifications:  notifPg,
		}
		sessions = sessionPostgres.NewSessionStore(gormDB)
		notifRepo = notifPg
	}

	dispatcher := notification.NewDispatcher(ghost, state, notifRepo, lg)
	dispatcher.Register(bus)

	coord := coordinator.New(state, repos, tracker.NewReconciler(lg), dispatcher, bus, ghost, config.App.AllowOffline, lg)

	refreshCtx, cancel := internal.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := coord.Refresh(refreshCtx); err != nil {
		return nil, fmt.Errorf("failed to load initial state: %w", err)
	}
	if db == nil || coord.Offline() {
		seedLocalState(state)
		lg.Warn("running on seeded local state; changes will not be persisted")
	}

	tokens := auth.NewJWTTokenGenerator(config.App.SessionSecret, config.App.SessionTTL)
	authService := auth.NewService(state, tokens, sessions, lg)

	handlers := rest.Handlers{
		Auth:          auth.NewHandler(authService),
		Service:       service.NewHandler(coord),
		Tracker:       tracker.NewHandler(coord),
		Reimbursement: reimbursement.NewHandler(coord),
		Notification:  notification.NewHandler(coord),
		User:          user.NewHandler(coord, state),
		Reporting:     reporting.NewHandler(coord),
		SeenFlags:     session.NewHandler(sessions),
	}

	return &Dependencies{
		Config:      config,
		DB:          db,
		Router:      chi.NewRouter(),
		Coordinator: coord,
		Handlers:    handlers,
		Logger:      lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// openGorm layers GORM over the already-open pgx connection so both
// query paths share one pool.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}

// seedLocalState loads the built-in accounts and sample records used
// when no store is reachable.
func seedLocalState(state *coordinator.State) {
	for _, u := range defaultUsers() {
		state.UpsertUser(u)
	}
	for _, s := range defaultServices() {
		state.UpsertService(s)
	}
}

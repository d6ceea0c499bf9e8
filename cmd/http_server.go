package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rumahkita/property-management/internal"
	"github.com/rumahkita/property-management/internal/approval"
	approvalPostgres "github.com/rumahkita/property-management/internal/approval/postgres"
	"github.com/rumahkita/property-management/internal/audit"
	auditPostgres "github.com/rumahkita/property-management/internal/audit/postgres"
	"github.com/rumahkita/property-management/internal/auth"
	authPostgres "github.com/rumahkita/property-management/internal/auth/postgres"
	"github.com/rumahkita/property-management/internal/billing"
	billingPostgres "github.com/rumahkita/property-management/internal/billing/postgres"
	"github.com/rumahkita/property-management/internal/core/events"
	"github.com/rumahkita/property-management/internal/notification"
	notificationPostgres "github.com/rumahkita/property-management/internal/notification/postgres"
	"github.com/rumahkita/property-management/internal/transport"
	"github.com/rumahkita/property-management/internal/transport/rest"
	"github.com/rumahkita/property-management/pkg/logger"

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
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler         *auth.Handler
	RBAC                *auth.RBACAuthorization
	ApprovalHandler     *approval.Handler
	AuditHandler        *audit.Handler
	Auditor             audit.Logger
	NotificationHandler *notification.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.RBAC,
		deps.ApprovalHandler,
		deps.AuditHandler,
		deps.Auditor,
		deps.NotificationHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// Repositories
	authRepo := authPostgres.NewRepository(gormDB)
	approvalRepo := approvalPostgres.NewApprovalRepository(gormDB)
	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	billingRepo := billingPostgres.NewBillingRepository(gormDB)

	// Event bus plus the replay registry for approved actions
	eventBus := events.NewEventBus(lg)
	registry := approval.NewApplierRegistry(lg)
	billing.RegisterAppliers(registry, billingRepo, lg)
	registry.Attach(eventBus)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	auditService := audit.NewService(auditRepo, lg)
	approvalService := approval.NewService(approvalRepo, auditService, eventBus, lg)
	notificationService := notification.NewService(notificationRepo, billingRepo, config.Notification.BatchSize, lg)

	// Handlers
	baseHandler := transport.NewBaseHandler(lg)
	router := chi.NewRouter()

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: router,
		Logger: lg,

		AuthHandler:         auth.NewHandler(authService),
		RBAC:                auth.NewRBACAuthorization(lg),
		ApprovalHandler:     approval.NewHandler(baseHandler, approvalService),
		AuditHandler:        audit.NewHandler(baseHandler, auditService),
		Auditor:             auditService,
		NotificationHandler: notification.NewHandler(baseHandler, notificationService),
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
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection so both
// share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}

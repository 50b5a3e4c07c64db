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

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	auditPostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/auth"
	authPostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/auth/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/events"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/keylock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
	employeePostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/notification"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
	payrollPostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	salaryPostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/shift"
	shiftPostgres "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/shift/postgres"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport/rest"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport/swagger"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/pkg/logger"

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
	Config          *internal.Config
	DB              *sqlx.DB
	GormDB          *gorm.DB
	Router          *chi.Mux
	AuthHandler     *auth.Handler
	EmployeeHandler *employee.Handler
	PayrollHandler  *payroll.Handler
	EmployeeService *employee.Service
	Logger          *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.EmployeeHandler, deps.PayrollHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec validation failed", "error", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	locks := keylock.New()
	clk := clock.System{}

	trail := audit.NewTrail(auditPostgres.NewAuditRepository(gormDB), clk, lg)
	salaries := salary.NewLedger(salaryPostgres.NewSalaryRepository(gormDB), clk, lg)
	shifts := shift.NewSchedule(shiftPostgres.NewShiftRepository(gormDB), lg)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	gate := employee.NewTerminationGate(employeeRepo)
	payments := payroll.NewLedger(payrollPostgres.NewPayrollRepository(gormDB), gate, trail, locks, clk, bus, lg)

	lifecycle := employee.NewLifecycle(employeeRepo, salaries, trail, clk, lg)
	employeeService := employee.NewService(employeeRepo, lifecycle, salaries, trail, payments, shifts, locks, clk, bus, lg)

	privateKey, err := config.Security.GetPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT private key: %w", err)
	}
	publicKey, err := config.Security.GetPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT public key: %w", err)
	}
	tokenGen := auth.NewJWTTokenGenerator(privateKey, publicKey)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, bus, config.Security.BCryptCost, lg)

	notifier := notification.NewEventHandler(notification.NewLogSender(lg), lg)
	notifier.RegisterEventHandlers(bus)

	return &Dependencies{
		Config:          config,
		Logger:          lg,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		AuthHandler:     auth.NewHandler(authService),
		EmployeeHandler: employee.NewHandler(employeeService),
		PayrollHandler:  payroll.NewHandler(employeeService),
		EmployeeService: employeeService,
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

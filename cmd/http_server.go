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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rakhadyo/company-portal/internal"
	"github.com/rakhadyo/company-portal/internal/applicant"
	applicantpg "github.com/rakhadyo/company-portal/internal/applicant/postgres"
	"github.com/rakhadyo/company-portal/internal/auth"
	authpg "github.com/rakhadyo/company-portal/internal/auth/postgres"
	"github.com/rakhadyo/company-portal/internal/core/events"
	"github.com/rakhadyo/company-portal/internal/job"
	jobpg "github.com/rakhadyo/company-portal/internal/job/postgres"
	"github.com/rakhadyo/company-portal/internal/mailgateway"
	"github.com/rakhadyo/company-portal/internal/project"
	projectpg "github.com/rakhadyo/company-portal/internal/project/postgres"
	"github.com/rakhadyo/company-portal/internal/transport/rest"
	"github.com/rakhadyo/company-portal/internal/updates"
	updatespg "github.com/rakhadyo/company-portal/internal/updates/postgres"
	"github.com/rakhadyo/company-portal/internal/user"
	userpg "github.com/rakhadyo/company-portal/internal/user/postgres"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle portal API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger

	AuthHandler      *auth.Handler
	UserHandler      *user.Handler
	ProjectHandler   *project.Handler
	UpdatesHandler   *updates.Handler
	ApplicantHandler *applicant.Handler
	JobHandler       *job.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB,
		deps.AuthHandler, deps.UserHandler, deps.ProjectHandler,
		deps.UpdatesHandler, deps.ApplicantHandler, deps.JobHandler,
		deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	// Auth
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	sessions := auth.NewRedisSessionCache(config.Redis.Addr, config.Redis.Password, config.Redis.DB, lg)
	authService := auth.NewService(authpg.NewRepository(gormDB), tokenGen, sessions, config.Security.RefreshTokenDuration, lg)
	authHandler := auth.NewHandler(authService)

	// Users
	userService := user.NewService(userpg.NewUserRepository(gormDB), authService, lg)
	userHandler := user.NewHandler(userService)

	// Projects
	projectService := project.NewService(projectpg.NewProjectRepository(gormDB), lg)
	projectHandler := project.NewHandler(projectService)

	// Weekly updates
	updatesService := updates.NewService(updatespg.NewUpdateRepository(gormDB), eventBus, lg)
	updatesHandler := updates.NewHandler(updatesService)

	// Applicant pipeline and composer
	mailClient := mailgateway.NewClient(config.Mail.BaseURL, config.Mail.SendTimeout)
	applicantService := applicant.NewService(
		applicantpg.NewApplicantRepository(gormDB),
		mailClient,
		userService,
		eventBus,
		mailgateway.Credential{Token: config.Mail.APIKey},
		lg,
	)
	applicantHandler := applicant.NewHandler(applicantService)

	// Jobs and question bank
	jobService := job.NewService(jobpg.NewJobRepository(gormDB), lg)
	jobHandler := job.NewHandler(jobService)

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Logger:   lg,

		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ProjectHandler:   projectHandler,
		UpdatesHandler:   updatesHandler,
		ApplicantHandler: applicantHandler,
		JobHandler:       jobHandler,
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

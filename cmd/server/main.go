// Package main initializes and starts the WorkPlanner API server, setting up
// configuration, logging, database connections, repositories, services,
// handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/config"
	"github.com/atinyakov/WorkPlanner/internal/db"
	"github.com/atinyakov/WorkPlanner/internal/logger"
	"github.com/atinyakov/WorkPlanner/internal/repository"
	"github.com/atinyakov/WorkPlanner/internal/server/handler/http"
	"github.com/atinyakov/WorkPlanner/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	if options.PlanRetention > 0 {
		db.StartPlanEntryCleaner(ctx, postgresDB, time.Hour, options.PlanRetention, zapLogger)
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	teamRepo := repository.NewPostgresTeamRepository(postgresDB)
	planEntryRepo := repository.NewPostgresPlanEntryRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, []byte(options.JWTSecret), options.TokenTTL)
	userService := service.NewUserService(userRepo, teamRepo)
	teamService := service.NewTeamService(teamRepo, userRepo)
	planEntryService := service.NewPlanEntryService(planEntryRepo, teamRepo, userRepo)

	if options.AdminUsername != "" {
		created, err := userService.EnsureAdmin(ctx, options.AdminUsername, options.AdminPassword)
		if err != nil {
			zapLogger.Fatal("cannot create admin account", zap.Error(err))
		}
		if created {
			zapLogger.Info("created admin account", zap.String("username", options.AdminUsername))
		}
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.RouterConfig{
		Auth:        &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Users:       &http.UserHandler{UserService: userService, Log: zapLogger},
		Teams:       &http.TeamHandler{TeamService: teamService, Log: zapLogger},
		PlanEntries: &http.PlanEntryHandler{PlanEntryService: planEntryService, Log: zapLogger},
		Verifier:    authService,
		AuthRate:    options.AuthRate,
		AuthBurst:   options.AuthBurst,
		Logger:      zapLogger,
	})

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSEnabled() {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

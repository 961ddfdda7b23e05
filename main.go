package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/userhub-be/internal/api"
	"github.com/isdelr/userhub-be/internal/auth"
	"github.com/isdelr/userhub-be/internal/chat"
	"github.com/isdelr/userhub-be/internal/config"
	"github.com/isdelr/userhub-be/internal/database"
	"github.com/isdelr/userhub-be/internal/logger"
	"github.com/isdelr/userhub-be/internal/monitoring"
	"github.com/isdelr/userhub-be/internal/services"
	"github.com/isdelr/userhub-be/internal/storage/sqlstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	// Set up database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	store := sqlstore.New(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Set up services
	eventService := services.NewEventService(store)
	userService := services.NewUserService(store, store, tokens, eventService)

	// Set up chat hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := chat.NewHub()
	go hub.Run(hubCtx)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(hub, cfg.StatsInterval)
	go statUpdater.Run()

	// Set up and run the event retention janitor
	janitor, err := monitoring.NewJanitor(eventService, cfg.EventPurgeSchedule, cfg.EventRetention)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create event janitor")
	}
	janitor.Start()

	router := api.NewRouter(api.Deps{
		Hub:            hub,
		Guard:          api.NewGuard(auth.NewAuthenticator(tokens, store)),
		UserService:    userService,
		EventService:   eventService,
		Stats:          statUpdater,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", database.DriverFor(cfg.DatabaseURL)).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	stopHub() // Closes every chat connection
	statUpdater.Stop()
	select {
	case <-janitor.Stop().Done():
	case <-ctx.Done():
	}

	log.Info().Msg("Server exiting")
}

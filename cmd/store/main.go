// cmd/store/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/api"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/config"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/storage"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// --- Initialize Components ---
	var store storage.Store
	if dsn := cfg.PostgresDSN(); dsn != "" {
		pg, err := storage.NewPostgresStore(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to postgres")
		}
		defer pg.Close()
		store = pg
	} else {
		log.Warn().Msg("no postgres host configured, falling back to in-memory store")
		store = storage.NewMemoryStore()
	}

	hub := websocket.NewHub()
	go hub.Run()

	apiHandler := api.NewAPIHandler(store, hub)
	router := api.SetupRouter(apiHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting store server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}
	hub.Shutdown()

	log.Info().Msg("server stopped")
}

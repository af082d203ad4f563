package main

import (
	"commuter-destination-service/internal/adapters/repositories"
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/api"
	"commuter-destination-service/internal/config"
	"commuter-destination-service/internal/platform/db"
	"commuter-destination-service/internal/services"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (SQL world repository, snapshot store) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	store, err := world.NewStore(repositories.NewSQLWorldRepository(conn))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := store.Reload(ctx); err != nil {
		log.Fatal(err)
	}

	var opts []services.GraphBuilderOption
	if cfg.UniformTransitRange {
		opts = append(opts, services.WithUniformTransitRange(services.LongTransitRange))
	}
	router := api.NewRouter(store, opts...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening addr=:%s driver=%s uniform_range=%t", cfg.Port, cfg.DBDriver, cfg.UniformTransitRange)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		store.Run(gctx, cfg.ReloadInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

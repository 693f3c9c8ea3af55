package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salescope/internal/auth"
	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/db"
	"salescope/internal/httpserver"
	"salescope/internal/logging"
	"salescope/internal/obs"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()
	obs.Init()

	conn, err := db.Open(ctx, cfg.CacheDSN)
	if err != nil {
		log.Fatalf("open cache db: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore, err := auth.LoadStore(cfg.UsersPath)
	if err != nil {
		log.Fatalf("load users: %v", err)
	}
	sessions := auth.NewSessionStore(cfg.SessionIdle)
	authSvc := auth.NewService(userStore, sessions)

	datasets := dataset.NewStore(conn)
	demo, err := datasets.LoadDemo(ctx, cfg.DemoDataPath)
	if err != nil {
		log.Fatalf("load demo dataset: %v", err)
	}
	logger.Info("demo dataset loaded", "rows", len(demo.Rows))

	handler := httpserver.NewRouter(logger, authSvc, datasets, httpserver.RouterConfig{
		MaxUploadBytes: cfg.MaxUploadBytes,
		LoginRate:      cfg.LoginRate,
		LoginBurst:     cfg.LoginBurst,
	})
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

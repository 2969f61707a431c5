package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brianference/daisydog-sub000/internal/checkpoint"
	"github.com/brianference/daisydog-sub000/internal/config"
	"github.com/brianference/daisydog-sub000/internal/game"
	"github.com/brianference/daisydog-sub000/internal/handler"
	"github.com/brianference/daisydog-sub000/internal/namedetect"
	"github.com/brianference/daisydog-sub000/internal/resolver"
	"github.com/brianference/daisydog-sub000/internal/safety"
	"github.com/brianference/daisydog-sub000/internal/service/ai"
	"github.com/brianference/daisydog-sub000/internal/service/session"
	"github.com/brianference/daisydog-sub000/internal/storage"
	"github.com/brianference/daisydog-sub000/internal/topic"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	gate, err := safety.New(rng)
	if err != nil {
		log.Fatalf("failed to load safety rules: %v", err)
	}

	topics, err := topic.NewMatcher(rng)
	if err != nil {
		log.Fatalf("failed to load topic library: %v", err)
	}

	// Persistence is best effort. A broken database file means no
	// checkpoints, not a dead service.
	var store storage.KV
	boltStore, err := storage.OpenBolt(cfg.Store.Path)
	if err != nil {
		log.Printf("warning: checkpoint store unavailable: %v", err)
	} else {
		store = boltStore
		defer boltStore.Close()
	}

	var gen session.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without free chat, canned replies only")
		} else {
			gen = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	res := resolver.New(gate, topics, namedetect.New(rng), cfg.Session.SafeTiers, rng)
	games := game.NewCoordinator(rng)
	checkpoints := checkpoint.NewManager(store)

	svc := session.New(res, games, gen, checkpoints, cfg.Session)
	svc.Start()
	defer svc.Close()

	router := handler.NewRouter(svc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Daisy companion backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kothahq/kotha-server/internal/auth"
	"github.com/kothahq/kotha-server/internal/config"
	httpapp "github.com/kothahq/kotha-server/internal/http"
	"github.com/kothahq/kotha-server/internal/rate"
	mongostore "github.com/kothahq/kotha-server/internal/store/mongo"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := mongostore.Open(connectCtx, cfg.MongoURI, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(ctx)
	}()

	tokens := auth.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	limiter := rate.NewMemory()
	server := httpapp.NewServer(st, tokens, limiter, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("kotha listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctx)
}

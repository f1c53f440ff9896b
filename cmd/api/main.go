package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/martijnpeper/dagboek-bot/backend/internal/config"
	"github.com/martijnpeper/dagboek-bot/backend/internal/handler"
	"github.com/martijnpeper/dagboek-bot/backend/internal/model/persona"
	"github.com/martijnpeper/dagboek-bot/backend/internal/service/ai"
	diaryService "github.com/martijnpeper/dagboek-bot/backend/internal/service/diary"
	"github.com/martijnpeper/dagboek-bot/backend/internal/service/twilio"
	"github.com/martijnpeper/dagboek-bot/backend/internal/store"
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

	recordStore, err := store.New(cfg.Diary.DBPath)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer recordStore.Close()

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize chat model: %v", err)
	}

	aiService, err := ai.NewService(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}

	source := twilio.NewClient(cfg.Twilio)
	personas := persona.NewMemoryStore(persona.Seed())

	pipeline := diaryService.NewService(source, aiService, recordStore, personas, cfg.Diary.Window, cfg.Diary.FetchLimit)

	router := handler.NewRouter(pipeline, source, recordStore, cfg.Diary.FetchLimit)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("dagboek-bot backend listening on %s", serverCfg.Addr)
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

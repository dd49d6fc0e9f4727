package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avocadocenter/avobot/internal/ai"
	"github.com/avocadocenter/avobot/internal/bot"
	"github.com/avocadocenter/avobot/internal/config"
	"github.com/avocadocenter/avobot/internal/session"
	"github.com/avocadocenter/avobot/internal/store"
	"github.com/avocadocenter/avobot/internal/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	waClient := whatsapp.NewClient(cfg.GraphBaseURL, cfg.APIVersion, cfg.PhoneNumberID, cfg.AccessToken)

	responder, err := ai.NewResponder(context.Background(), cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatalf("ai: %v", err)
	}
	if cfg.OpenAIAPIKey == "" {
		log.Printf("avobot: CHATGPT_API_KEY not set, AI fallback disabled")
	}

	sessionMgr := session.NewManager()

	// Periodic cleanup of stale per-sender locks to prevent memory leaks
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.Cleanup(1 * time.Hour)
		}
	}()

	botHandler := bot.NewHandler(waClient, db, responder, sessionMgr)
	webhookHandler := whatsapp.NewWebhookHandler(cfg.VerifyToken, botHandler.HandleMessage)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/webhook", webhookHandler.HandleVerify)
	r.Post("/webhook", webhookHandler.HandleIncoming)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("avobot: listening on :%s (state backend %s)", cfg.Port, cfg.StateBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("avobot: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("avobot: stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StateBackend == "bolt" {
		return store.NewBoltStore(filepath.Join(cfg.DataDir, "avobot.db"))
	}
	return store.NewMemoryStore(), nil
}

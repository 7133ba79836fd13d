package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pdfedit/internal/api"
	"github.com/dgallion1/pdfedit/internal/config"
	"github.com/dgallion1/pdfedit/internal/docmodel"
	"github.com/dgallion1/pdfedit/internal/editor"
	"github.com/dgallion1/pdfedit/internal/llm"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize the PDF runtime.
	pool, instance, err := docmodel.InitPdfium()
	if err != nil {
		log.Error("failed to initialize pdfium", "error", err)
		os.Exit(1)
	}

	// Initialize the LLM client and editing core.
	client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
	if !client.Available() {
		log.Warn("OPENAI_API_KEY not set, prompt parsing falls back to rules")
	}

	ecfg := editor.DefaultConfig()
	ecfg.DefaultFontSize = cfg.DefaultFontSize
	ecfg.HeadingSizeRatio = cfg.HeadingSizeRatio
	ed := editor.NewWithConfig(ecfg, editor.DefaultHumanizeConfig(), client, log)

	// Initialize HTTP server.
	srv := api.NewServer(ed, client, instance, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
		pool.Close()
	}()

	log.Info("starting pdfedit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

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

	"github.com/joho/godotenv"

	"broadcaster/internal/logging"
	"broadcaster/internal/mockbackend"
)

const defaultPort = "3001"

func main() {
	_ = godotenv.Load(".env")
	logCfg, err := logging.FromEnv("mock-backend")
	logger := logging.New(logCfg)
	if err != nil {
		logger.Warn("invalid logging settings, using defaults", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	token := os.Getenv("MOCK_ACCESS_TOKEN")
	if token == "" {
		token = "dev-token"
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mockbackend.NewServer(token, mockbackend.DefaultTemplates(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("starting mock backend",
		"port", port,
		"base_url", fmt.Sprintf("http://localhost:%s", port),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

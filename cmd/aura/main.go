// Package main provides the AURA backend server entry point.
// AURA is a conversational research assistant that builds a project synopsis
// from chat, researches the project idea, and renders the final document.
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

	"github.com/spf13/cobra"

	"aura/internal/config"
	"aura/internal/conversation"
	"aura/internal/github"
	"aura/internal/llm"
	"aura/internal/logger"
	"aura/internal/memory"
	"aura/internal/server"
	"aura/internal/synopsis"
	"aura/internal/version"
)

var (
	addr     string
	logLevel string
	logFile  string
	envFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "AURA - conversational project research assistant",
	Long: `AURA is a backend service that turns a project conversation into a complete
project synopsis. It extracts synopsis fields from chat turns, researches the
idea once enough context exists, searches GitHub for related work, and renders
the result as a PDF document.`,
	RunE: runServe, // Default behavior is to run the HTTP server
}

// serveCmd represents the serve command (explicit version of default behavior)
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AURA HTTP API server",
	Long:  `Start the AURA backend HTTP API on the configured address.`,
	RunE:  runServe,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version of the AURA backend.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "Listen address (overrides AURA_ADDR) [default: :5000]")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file to load [default: ./.env if present]")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := logger.Configure(cfg.LogLevel, logFile); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	client := buildClient(cfg)
	store, closeStore := buildStore(cfg)
	defer closeStore()

	handler := conversation.NewHandler(client, store, cfg.ChatModel, cfg.ResearchModel)
	searcher := github.NewSearcher(cfg.GitHubToken)
	renderer := synopsis.NewRenderer(cfg.OutputDir)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(handler, store, searcher, renderer).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Completion calls dominate request latency; the write timeout has
		// to outlast the slowest provider round trip.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("AURA backend listening", "addr", cfg.Addr, "provider", cfg.Provider)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	logger.Info("AURA backend stopped")
	return nil
}

// buildClient constructs the completion client for the configured provider.
// A missing API key yields an unconfigured client rather than a startup
// failure; affected endpoints reply with the fixed not-configured message.
func buildClient(cfg *config.Config) llm.Client {
	apiKey := cfg.APIKeyForProvider(cfg.Provider)
	client, err := llm.NewFactory().ClientForProvider(cfg.Provider, apiKey)
	if err != nil {
		logger.Warn("Completion provider not configured, AI replies will degrade", "provider", cfg.Provider, "error", err)
		return llm.NewOpenRouterClient("")
	}
	return client
}

// buildStore selects the session store: durable SQLite behind the volatile
// fallback when a database path is configured, the volatile store alone
// otherwise.
func buildStore(cfg *config.Config) (memory.Store, func()) {
	if cfg.DBPath == "" {
		logger.Info("Using in-process session store")
		return memory.NewLocalStore(), func() {}
	}

	sqliteStore, err := memory.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Error("SQLite store unavailable, using in-process store", "path", cfg.DBPath, "error", err)
		return memory.NewLocalStore(), func() {}
	}

	logger.Info("Using SQLite session store", "path", cfg.DBPath)
	return memory.NewFallbackStore(sqliteStore), func() {
		if err := sqliteStore.Close(); err != nil {
			logger.Error("Failed to close SQLite store", "error", err)
		}
	}
}

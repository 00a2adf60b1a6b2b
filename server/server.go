package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/prover"
	"github.com/mynextid/zk-sum/server/api"
)

type ServeConfig struct {
	// Server settings
	Host string
	Port int

	// Program settings
	Programs         []string // Specific programs to load (empty = all)
	SetupSeed        string
	InsecureDevSetup bool

	// Performance settings
	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Security settings
	EnableCORS  bool
	CorsOrigins []string

	// Observability
	EnablePprof bool
	LogLevel    string
	LogFormat   string // "json" or "text"

	// TLS settings
	EnableTLS bool
	CertFile  string
	KeyFile   string
}

func Run(cfg *ServeConfig) error {
	// Validate configuration
	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger := common.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Set up programs and router
	r, err := NewHandler(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", addr, "tls", cfg.EnableTLS)

		var err error
		if cfg.EnableTLS {
			err = httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server gracefully...")
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// NewHandler sets up the configured programs and returns the prover API
func NewHandler(ctx context.Context, cfg *ServeConfig, logger common.Logger) (http.Handler, error) {
	seed, err := prover.ResolveSetupSeed(cfg.SetupSeed, cfg.InsecureDevSetup)
	if err != nil {
		return nil, err
	}
	if seed == prover.DevSetupSeed {
		logger.Warn("Using the public development setup seed, proofs can be forged")
	}
	backend := prover.NewLocal(seed, logger)

	// Initialize program registry
	registry := api.NewProgramRegistry()

	// Load programs
	if err := loadPrograms(ctx, registry, backend, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to load programs: %w", err)
	}

	server := api.NewServer(registry, backend, api.NewMetrics())
	return setupRouter(server, cfg, logger), nil
}

func loadPrograms(ctx context.Context, registry *api.ProgramRegistry, backend prover.Backend, cfg *ServeConfig, logger common.Logger) error {
	programsToLoad := cfg.Programs
	if len(programsToLoad) == 0 {
		// Load all programs
		for name := range api.ProgramList {
			programsToLoad = append(programsToLoad, name)
		}
	}

	loaded := 0
	for _, name := range programsToLoad {
		p, ok := api.ProgramList[name]
		if !ok {
			logger.Warn("Unknown program, skipping", "program", name)
			continue
		}

		start := time.Now()
		if err := registry.LoadProgram(ctx, backend, p); err != nil {
			logger.Warn("Failed to load program", "program", name, "error", err)
			continue
		}
		loaded++
		logger.Info("Loaded program", "program", p.ID(), "took", time.Since(start))
	}

	if loaded == 0 {
		return fmt.Errorf("no programs loaded")
	}

	logger.Info("Program loading complete", "loaded", loaded, "total", len(programsToLoad))
	return nil
}

func validateServeConfig(cfg *ServeConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.EnableTLS {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert-file or key-file not provided")
		}
		if _, err := os.Stat(cfg.CertFile); err != nil {
			return fmt.Errorf("cert file not found: %s", cfg.CertFile)
		}
		if _, err := os.Stat(cfg.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %s", cfg.KeyFile)
		}
	}

	return nil
}

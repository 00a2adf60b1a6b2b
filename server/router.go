package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/server/api"
)

func setupRouter(server *api.Server, cfg *ServeConfig, logger common.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	if cfg.WriteTimeout > 0 {
		r.Use(middleware.Timeout(cfg.WriteTimeout))
	}
	if cfg.MaxRequestSize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestSize))
	}

	// CORS middleware
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Compression
	r.Use(middleware.Compress(5))

	// Health and metrics
	r.Get("/health", server.HandleHealth)
	r.Method("GET", "/metrics", server.Metrics().Handler())

	// Program info
	r.Get("/programs", server.HandleListPrograms)
	r.Get("/programs/{program}", server.HandleGetProgram)

	// Prover operations
	r.Get("/setup/{program}", server.HandleSetup)
	r.Post("/execute/{program}", server.HandleExecute)
	r.Post("/prove/{program}", server.HandleProve)
	r.Post("/verify/{program}", server.HandleVerify)

	// Pprof (debug only)
	if cfg.EnablePprof {
		r.Mount("/debug", middleware.Profiler())
	}

	return r
}

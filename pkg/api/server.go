// Package api exposes the header codec, the header log and the batch
// storage over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/ssargent/gamehdr/pkg/codec"
)

// Server holds the API server state
type Server struct {
	log     HeaderLog
	batches BatchStore
	codec   *codec.HeaderCodec
	config  ServerConfig
	metrics *Metrics
	logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(log HeaderLog, batches BatchStore, config ServerConfig, metrics *Metrics, logger zerolog.Logger) *Server {
	return &Server{
		log:     log,
		batches: batches,
		codec:   codec.NewHeaderCodec(),
		config:  config,
		metrics: metrics,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the HTTP handler with all routes configured
func (s *Server) Router() http.Handler {
	m := s.metrics
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", m.Handler())

	// Swagger UI and API document
	r.Get("/swagger/*", s.handleSwagger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, m))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Codec
		r.Post("/headers/encode", m.InstrumentHandler("POST", "/api/v1/headers/encode", s.handleEncode))
		r.Get("/headers/decode/{value}", m.InstrumentHandler("GET", "/api/v1/headers/decode/{value}", s.handleDecode))

		// Header log
		r.Post("/log", m.InstrumentHandler("POST", "/api/v1/log", s.handleAppend))
		r.Get("/log", m.InstrumentHandler("GET", "/api/v1/log", s.handleScan))
		r.Get("/log/{index}", m.InstrumentHandler("GET", "/api/v1/log/{index}", s.handleGetLogEntry))
		r.Get("/stats", m.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))

		// Batches
		r.Post("/batches", m.InstrumentHandler("POST", "/api/v1/batches", s.handleCreateBatch))
		r.Get("/batches", m.InstrumentHandler("GET", "/api/v1/batches", s.handleListBatches))
		r.Get("/batches/{id}", m.InstrumentHandler("GET", "/api/v1/batches/{id}", s.handleGetBatch))
		r.Put("/batches/{id}", m.InstrumentHandler("PUT", "/api/v1/batches/{id}", s.handleUpdateBatch))
		r.Delete("/batches/{id}", m.InstrumentHandler("DELETE", "/api/v1/batches/{id}", s.handleDeleteBatch))
	})

	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting gamehdr API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down gamehdr API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

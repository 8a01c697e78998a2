// Package monitoring serves the operational endpoints of the bot process:
// prometheus metrics and liveness/readiness probes.
package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hotelbot/internal/database"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

func NewServer(port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) *Server {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "monitoring").Logger()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctxPing, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if db != nil {
			if err := db.PingContext(ctxPing); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return &Server{
		srv:    &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
		logger: l,
	}
}

// Handler открывает mux наружу для тестов.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start блокируется до остановки сервера; завершение ctx вызывает shutdown.
func (s *Server) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.srv.Addr).Msg("monitoring server started")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error().Err(err).Msg("monitoring server error")
	}
}

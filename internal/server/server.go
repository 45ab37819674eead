// Package server exposes sessions over an HTTP dashboard API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/finsight/internal/config"
	"github.com/cleared-dev/finsight/internal/importer"
	"github.com/cleared-dev/finsight/internal/logger"
	"github.com/cleared-dev/finsight/internal/session"
)

// ErrUnknownSession is returned for session IDs the server does not hold.
var ErrUnknownSession = errors.New("unknown session")

// ErrTooManySessions is returned when the session limit is reached.
var ErrTooManySessions = errors.New("too many sessions")

// Server holds one session per client. Requests on the same session are
// serialized; different sessions never share state.
type Server struct {
	cfg      *config.Config
	registry *importer.Registry
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	mu   sync.Mutex
	sess *session.Session
	used time.Time // guarded by Server.mu
}

// New creates a Server.
func New(cfg *config.Config, registry *importer.Registry, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		log:      log,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.maxUpload()
	r.Use(gin.Recovery(), requestLogger(s.log), cors.New(s.corsConfig()))

	r.GET("/health", s.healthCheck)

	api := r.Group("/api/sessions")
	api.POST("", s.createSession)
	api.DELETE("/:id", s.deleteSession)
	api.POST("/:id/files", s.uploadFiles)
	api.GET("/:id/summary", s.getSummary)
	api.GET("/:id/rows", s.getRows)
	api.GET("/:id/types", s.getTypes)
	api.GET("/:id/breakdown/:type", s.getBreakdown)
	api.GET("/:id/export.csv", s.exportCSV)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("server starting")
		errc <- srv.ListenAndServe()
	}()

	if ttl := s.cfg.Server.SessionTTL; ttl > 0 {
		ticker := time.NewTicker(min(ttl, time.Minute))
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ticker.C:
					s.sweep()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) maxUpload() int64 {
	mb := s.cfg.Server.MaxUploadMB
	if mb <= 0 {
		mb = 32
	}
	return mb << 20
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.Server.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.Server.AllowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (s *Server) newSession() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	if limit := s.cfg.Server.MaxSessions; limit > 0 && len(s.sessions) >= limit {
		return "", ErrTooManySessions
	}

	id := uuid.NewString()
	s.sessions[id] = &entry{
		sess: session.New(s.registry, s.log.With().Str("session", id).Logger()),
		used: s.now(),
	}
	return id, nil
}

// withSession runs fn with exclusive access to the session id.
func (s *Server) withSession(id string, fn func(*session.Session)) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		e.used = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess)
	return nil
}

// sweep drops sessions idle for longer than the configured TTL.
func (s *Server) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

func (s *Server) sweepLocked() {
	ttl := s.cfg.Server.SessionTTL
	if ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-ttl)
	for id, e := range s.sessions {
		if e.used.Before(cutoff) {
			delete(s.sessions, id)
			s.log.Debug().Str("session", id).Msg("idle session expired")
		}
	}
}

func (s *Server) dropSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// requestLogger logs each request through zerolog and makes the logger
// available to handlers via the request context.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.ClientIP()).
			Msg("HTTP request")
	}
}

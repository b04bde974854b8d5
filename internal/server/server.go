// Package server exposes a store over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/assistant"
	"github.com/rogersnm/contractme/internal/calendar"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/rogersnm/contractme/internal/store"
	"github.com/sirupsen/logrus"
)

// ContentReader resolves a document's content ref to text.
type ContentReader interface {
	Text(ref string) (string, error)
}

type Options struct {
	Categories *model.Categories
	Content    ContentReader
	Assistant  assistant.Responder
	Logger     logrus.FieldLogger

	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	RecentDays   int
	UpcomingDays int

	// Registry receives the server's collectors. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
}

type Server struct {
	st       *store.Store
	cats     *model.Categories
	content  ContentReader
	answerer assistant.Responder
	calendar *calendar.Builder
	log      logrus.FieldLogger
	metrics  *Metrics
	opts     Options

	engine *gin.Engine
}

func New(st *store.Store, opts Options) *Server {
	if opts.Categories == nil {
		opts.Categories = model.NewCategories(model.DefaultCategories...)
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.NewCanned(nil)
	}
	if opts.Logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		opts.Logger = quiet
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		st:       st,
		cats:     opts.Categories,
		content:  opts.Content,
		answerer: opts.Assistant,
		calendar: calendar.NewBuilder(st.Deadlines, st.Now),
		log:      opts.Logger,
		metrics:  NewMetrics(opts.Registry, st),
		opts:     opts,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(s.metrics.Middleware())
	s.buildRouter(r)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) buildRouter(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group(api.BasePath)
	if s.opts.RateLimitRPS > 0 {
		v1.Use(newRateLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst, s.metrics).Middleware())
	}

	v1.GET("/categories", s.listCategories)
	v1.POST("/categories", s.addCategory)

	v1.POST("/documents", s.addDocument)
	v1.GET("/documents", s.listDocuments)
	v1.GET("/documents/recent", s.recentDocuments)
	v1.GET("/documents/:id", s.getDocument)
	v1.DELETE("/documents/:id", s.removeDocument)
	v1.POST("/documents/:id/ask", s.askDocument)

	v1.POST("/deadlines", s.addDeadline)
	v1.GET("/deadlines", s.listDeadlines)
	v1.GET("/deadlines/upcoming", s.upcomingDeadlines)
	v1.GET("/deadlines/:id", s.getDeadline)
	v1.DELETE("/deadlines/:id", s.removeDeadline)

	v1.GET("/calendar/:year/:month", s.getCalendar)
	v1.GET("/dashboard", s.getDashboard)
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, api.Envelope[any]{Data: data})
}

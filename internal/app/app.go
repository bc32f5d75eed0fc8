package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/config"
	"github.com/SIXMAR729/product-cli-project/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type application struct {
	logger *slog.Logger

	router  chi.Router
	httpSrv *http.Server
	closers []io.Closer
}

func New(logger *slog.Logger, cfg config.Config) *application {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
	}))

	router.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Handler: router,
		Addr:    net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
	}

	return &application{
		logger:  logger,
		httpSrv: httpSrv,
		router:  router,
	}
}

type HTTPHandler interface {
	Init(r chi.Router)
}

func (a *application) SetHTTPHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.router)
	}
}

// SetClosers registers resources to release on shutdown, after the HTTP
// server has drained.
func (a *application) SetClosers(closers ...io.Closer) {
	a.closers = append(a.closers, closers...)
}

func (a *application) Start() {
	go a.startServer()
	a.logger.Info("application started")
}

func (a *application) startServer() {
	a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
	if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("failed to start http server", slog.Any("error", err))
		os.Exit(1)
	}
}

const gracefulShutdownTimeout = 5 * time.Second

func (a *application) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", slog.Any("error", err))
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	a.logger.Info("application stopped")
}

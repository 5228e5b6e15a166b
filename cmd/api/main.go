package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "brewcart/docs"
	"brewcart/pkg/config"
	"brewcart/pkg/kv"
	rkv "brewcart/pkg/kv/redis"
	"brewcart/pkg/logger"
	"brewcart/pkg/metrics"
	"brewcart/pkg/otel"
	"brewcart/pkg/session"
)

// @title Brewcart API
// @version 1.0
// @description Cart and order store for the Urban Brew café site
// @host localhost:8443
// @BasePath /
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "brewcart", nil).Error(ctx, "load config", "error", err)
		return err
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel), "brewcart", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "brewcart", Host: cfg.Tracing.Host, Probability: cfg.Tracing.Probability})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return err
	}
	defer shutdown(context.Background())

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = rkv.Dial(ctx, cfg.Redis)
		if err != nil {
			log.Error(ctx, "redis connect", "error", err)
			return err
		}
		defer redisClient.Close()
	}

	store, closeStore, err := openStore(ctx, cfg, redisClient)
	if err != nil {
		log.Error(ctx, "open store", "driver", cfg.Store.Driver, "error", err)
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var sessions session.Registry = session.NewMemory(cfg.Session.TTL)
	if redisClient != nil {
		sessions = session.NewRedis(redisClient, cfg.Session.TTL)
	}

	a := &api{
		store:      kv.Instrument(store, m),
		sessions:   sessions,
		metrics:    m,
		log:        log,
		cookieName: cfg.Session.CookieName,
		sessionTTL: cfg.Session.TTL,
	}
	r := a.routes(tp.Tracer("brewcart"))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.App.Addr, "driver", cfg.Store.Driver, "tls", cfg.App.TLSEnabled())
		if cfg.App.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.App.TLSCert, cfg.App.TLSKey)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			return err
		}
	case s := <-sig:
		log.Info(ctx, "shutting down", "signal", s.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown", "error", err)
		return err
	}
	return nil
}

func (a *api) routes(tracer trace.Tracer) *mux.Router {
	r := mux.NewRouter()
	r.Use(traceMiddleware(tracer))

	app := func(h http.HandlerFunc) http.Handler { return a.sessionMiddleware(h) }
	r.Handle("/cart", app(a.getCartHandler)).Methods(http.MethodGet)
	r.Handle("/cart", app(a.clearCartHandler)).Methods(http.MethodDelete)
	r.Handle("/cart/message", app(a.cartMessageHandler)).Methods(http.MethodGet)
	r.Handle("/cart/items", app(a.addItemHandler)).Methods(http.MethodPost)
	r.Handle("/cart/items/{name}", app(a.removeItemHandler)).Methods(http.MethodDelete)
	r.Handle("/orders", app(a.submitOrderHandler)).Methods(http.MethodPost)
	r.Handle("/admin/orders", app(a.listOrdersHandler)).Methods(http.MethodGet)
	return r
}

func traceMiddleware(tracer trace.Tracer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.InjectTracing(r.Context(), tracer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

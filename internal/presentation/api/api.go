package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/emberlabs/ember/internal/infrastructure/configs"
	"github.com/emberlabs/ember/internal/infrastructure/logging"
	"github.com/emberlabs/ember/internal/infrastructure/metrics"
	"github.com/emberlabs/ember/internal/infrastructure/ratelimiter"
	feedHandler "github.com/emberlabs/ember/internal/presentation/handler/feed"
	healthHandler "github.com/emberlabs/ember/internal/presentation/handler/health"
	messagesHandler "github.com/emberlabs/ember/internal/presentation/handler/messages"
	roomHandler "github.com/emberlabs/ember/internal/presentation/handler/rooms"
)

type Application struct {
	config          configs.Config
	roomHandler     *roomHandler.Handler
	healthHandler   *healthHandler.Handler
	messagesHandler *messagesHandler.Handler
	feedHandler     *feedHandler.Handler
	logger          logging.Logger
	ratelimiter     ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	roomHandler *roomHandler.Handler,
	healthHandler *healthHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	feedHandler *feedHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:          config,
		roomHandler:     roomHandler,
		healthHandler:   healthHandler,
		messagesHandler: messagesHandler,
		feedHandler:     feedHandler,
		logger:          logger,
		ratelimiter:     ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.loggerMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/room", func(r chi.Router) {
			r.Post("/create", app.roomHandler.CreateRoomHandler)
			r.Post("/join", app.roomHandler.JoinRoomHandler)
			r.Get("/ttl", app.roomHandler.RoomTTLHandler)
			r.Delete("/", app.roomHandler.DestroyRoomHandler)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", app.messagesHandler.CreateNewMessageHandler)
			r.Get("/", app.messagesHandler.ListMessagesHandler)
		})

		r.Get("/rooms/{roomId}/ws", app.feedHandler.SubscribeHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetReady)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", metrics.Handler())

	return otelhttp.NewHandler(r, "ember-api")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		healthHandler.SetHealthy(false)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Startup, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Startup, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}

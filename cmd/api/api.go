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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/cache"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/dispatch"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/ratelimiter"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/repo"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/service"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/store/mongo"
	"go.uber.org/zap"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	rateLimiter ratelimiter.Limiter
	storage     *mongo.Storage
	cache       cache.Cache
	bus         bus.Bus
	storeRepo   repo.StoreRepository
	cardService *service.CardService
	coordinator *dispatch.Coordinator
}

type config struct {
	addr        string
	env         string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	redis       redisConfig
	scryfallURL string
	googleCreds string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type redisConfig struct {
	PrimaryAddr string
	ReplicaAddr string
	Password    string
	DB          int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Post("/cards/parse", app.parseCardListHandler)
		r.Get("/cards/search", app.searchCardNamesHandler)

		r.Get("/stores", app.listStoresHandler)

		r.Post("/availability/check", app.checkAvailabilityHandler)

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/cards", app.listCardsHandler)
			r.Post("/cards", app.addCardHandler)
			r.Post("/cards/import", app.importCardListHandler)
			r.Patch("/cards/{card_name}", app.updateCardHandler)
			r.Delete("/cards/{card_name}", app.deleteCardHandler)

			r.Get("/stores", app.getUserStoresHandler)
			r.Put("/stores", app.setUserStoresHandler)

			r.Post("/availability", app.checkUserCardsHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// result subscription
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()

	if err := app.coordinator.Start(busCtx); err != nil {
		return fmt.Errorf("failed to subscribe to worker results: %w", err)
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		busCancel()

		if app.bus != nil {
			if err := app.bus.Close(); err != nil {
				app.logger.Errorw("error closing command bus", "error", err)
			} else {
				app.logger.Info("command bus closed gracefully")
			}
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jt828/api-relay/internal/bootstrap"
	"github.com/jt828/api-relay/internal/config"
	"github.com/jt828/api-relay/internal/controller"
	"github.com/jt828/api-relay/internal/service"
	"github.com/jt828/api-relay/pkg/observability"
	"github.com/jt828/api-relay/pkg/observability/implementation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	obs, err := implementation.NewObservability(implementation.Config{
		ServiceName:  cfg.Observability.ServiceName,
		LogLevel:     cfg.Observability.LogLevel,
		MetricsAddr:  cfg.Observability.MetricsAddr,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		panic(err)
	}
	log := obs.Logger()

	if err := obs.Start(ctx); err != nil {
		log.Error("failed to start observability", observability.Err(err))
	}

	idGen, err := bootstrap.InitializeSnowflake()
	if err != nil {
		log.Fatal("failed to initialize snowflake", observability.Err(err))
	}

	store, err := bootstrap.InitializeStore(ctx, cfg.Store, obs)
	if err != nil {
		log.Fatal("failed to initialize store", observability.Err(err))
	}
	log.Info("store ready", observability.String("backend", cfg.Store.Backend))

	requestSvc := service.NewRequestService(store.UnitOfWorkFactory)
	configurationSvc := service.NewConfigurationService(store.UnitOfWorkFactory)
	relaySvc := service.NewRelayService(store.UnitOfWorkFactory, service.NewHTTPClient(), cfg.Relay.Timeout, obs)

	healthCtrl := controller.NewHealthController(store, log)
	healthCtrl.Check(ctx)
	go healthCtrl.Watch(ctx, 10*time.Second)

	router := controller.NewRouter(obs, idGen, controller.Controllers{
		Requests:       controller.NewRequestController(requestSvc),
		Configurations: controller.NewConfigurationController(configurationSvc),
		Proxy:          controller.NewProxyController(relaySvc),
		Health:         healthCtrl,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Info("Shutting down server...")
		cancel() // cancel root context
	}()

	go func() {
		log.Info("HTTP server running", observability.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to serve", observability.Err(err))
		}
	}()

	<-ctx.Done()
	log.Info("Graceful stopping HTTP server...")
	healthCtrl.SetNotServing()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server", observability.Err(err))
	}
	log.Info("HTTP server stopped")

	if err := store.Close(); err != nil {
		log.Error("failed to close store", observability.Err(err))
	}
	if err := obs.Close(shutdownCtx); err != nil {
		log.Error("failed to close observability", observability.Err(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appointmenthandler "github.com/shashank35i/DentraOS-sub001/internal/appointments/handler"
	settingshandler "github.com/shashank35i/DentraOS-sub001/internal/clinicsettings/handler"
	apphttp "github.com/shashank35i/DentraOS-sub001/internal/http"
	"github.com/shashank35i/DentraOS-sub001/internal/staffdirectory"
	staffhandler "github.com/shashank35i/DentraOS-sub001/internal/staffdirectory/handler"
	"github.com/shashank35i/DentraOS-sub001/internal/upstream"
	"github.com/shashank35i/DentraOS-sub001/platform/config"
	"github.com/shashank35i/DentraOS-sub001/platform/logger"
	"github.com/shashank35i/DentraOS-sub001/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sync backend", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})
	defer func() { _ = rdb.Close() }()

	tokenStore := upstream.NewRedisTokenStore(rdb, 0)

	// Requests coming through the API forward the caller's own bearer
	// token; background tools fall back to the stored service token.
	client := upstream.NewClient(upstream.Config{
		BaseURL: cfg.GetUpstreamBaseURL(),
		Timeout: cfg.GetUpstreamTimeout(),
		Tokens:  upstream.ContextTokenSource{Fallback: tokenStore},
		Logger:  log,
	})
	gateway := upstream.NewGateway(client)

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	staffService := staffdirectory.NewService(
		staffdirectory.NewAggregator(gateway, log),
		gateway,
		val,
	)

	modules := []apphttp.Module{
		appointmenthandler.New(gateway, log),
		settingshandler.New(gateway, cfg),
		staffhandler.New(staffService),
	}

	engine := apphttp.NewRouter(cfg, log, modules...)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

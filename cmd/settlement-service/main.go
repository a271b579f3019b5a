package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-settlement-service/internal/app/background"
	"github.com/LavaJover/shvark-settlement-service/internal/app/setup"
	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Reading config
	cfg := config.MustLoad()

	logg, err := logger.Setup(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, logg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logg.Error("failed to release dependencies", "error", err)
		}
	}()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}
	if err := setup.SeedDefaults(ctx, deps, uc); err != nil {
		log.Fatalf("failed to seed defaults: %v", err)
	}

	// HTTP
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:      logg,
		Tokens:      middleware.NewTokenParser(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Gatherer:    deps.Registry,
		Orders:      handlers.NewOrderHandler(uc.OrderUsecase),
		Settlements: handlers.NewSettlementHandler(uc.SettlementUsecase),
		Commissions: handlers.NewCommissionHandler(uc.CommissionUsecase),
		Returns:     handlers.NewReturnHandler(uc.ReturnUsecase),
		Performance: handlers.NewPerformanceHandler(uc.PerformanceUsecase, nil),
	})
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC
	grpcServer, healthServer := grpcapi.NewServer(logg)
	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// Фоновые задачи
	tasks := background.NewBackgroundTasks(uc.PerformanceUsecase, cfg.Performance.Interval, logg, nil)
	if !cfg.Performance.Disabled {
		tasks.StartAll(ctx)
	}

	errCh := make(chan error, 2)
	go func() {
		logg.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()
	go func() {
		logg.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()
	grpcapi.SetServing(healthServer, true)

	select {
	case <-ctx.Done():
		logg.Info("shutdown signal received")
	case err := <-errCh:
		logg.Error("server failed", "error", err)
		stop()
	}

	grpcapi.SetServing(healthServer, false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("http shutdown", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}

	tasks.Wait()
	logg.Info("settlement service stopped")
}

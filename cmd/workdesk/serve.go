// cmd/workdesk/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gurkanbulca/workdesk/internal/api"
	"github.com/gurkanbulca/workdesk/internal/health"
	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if cfg.Server.AutoMigrate {
		log.Println("[INFO] Running auto migration...")
		if err := db.Migrate(parent); err != nil {
			return fmt.Errorf("run auto migration: %w", err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	passwordManager := auth.NewPasswordManagerWithCost(cfg.Security.BcryptCost, cfg.PasswordPolicy())

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	monitor := health.NewMonitor(db)
	if err := monitor.Check(ctx); err != nil {
		log.Printf("[WARN] Initial health check failed: %v", err)
	}
	go monitor.Run(ctx, 30*time.Second)

	generalLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)
	authLimiter := middleware.NewRateLimiter(cfg.Security.AuthRateLimitRequests, cfg.Security.AuthRateLimitWindow)
	go generalLimiter.RunCleanup(ctx, cfg.Security.RateLimitWindow)
	go authLimiter.RunCleanup(ctx, cfg.Security.AuthRateLimitWindow)

	server := api.NewServer(api.NewServices(db, tokenManager, passwordManager, loc), tokenManager, api.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		Cookie: api.CookieConfig{
			Name:     cfg.Security.CookieName,
			Domain:   cfg.Security.CookieDomain,
			Insecure: !cfg.Security.CookieSecure,
			SameSite: api.ParseSameSite(cfg.Security.CookieSameSite),
		},
		GeneralLimiter: generalLimiter,
		AuthLimiter:    authLimiter,
		Health:         monitor,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := health.NewGRPCServer(monitor, cfg.Server.EnableReflection)
	if cfg.Server.EnableReflection {
		log.Println("[INFO] gRPC reflection enabled (disable in production)")
	}
	listener, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen on gRPC port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Printf("[INFO] Workdesk gRPC health service listening on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("serve gRPC: %w", err)
		}
	}()
	go func() {
		log.Printf("[INFO] Workdesk HTTP API listening on port %s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		log.Printf("[ERROR] %v", serveErr)
	}

	log.Println("[INFO] Shutting down server...")
	monitor.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("[INFO] Server shutdown complete")
	return serveErr
}

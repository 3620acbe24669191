package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MockShop/internal/client"
	"MockShop/internal/config"
	"MockShop/internal/gateway"
	"MockShop/internal/monitor"
	"MockShop/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.LoadGateway()
	if err != nil {
		kit.NewLogger(service, "info").Fatal("invalid configuration", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := kit.InitTracing(ctx, log, service, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("init tracing failed", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	svc := client.NewServices(cfg.ProductsURL, cfg.UsersURL, cfg.ClientTimeout)
	mon := monitor.New(svc.CheckAll, cfg.HealthInterval, log.Named("monitor"))
	go mon.Start(ctx)

	reg := prometheus.NewRegistry()
	h, err := gateway.NewHandler(gateway.Deps{
		ProductsURL: cfg.ProductsURL,
		UsersURL:    cfg.UsersURL,
		Monitor:     mon,
	}, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, kit.Traced(h, service), log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

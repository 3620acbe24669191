package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MockShop/internal/config"
	"MockShop/internal/products"
	"MockShop/pkg/kit"
)

func main() {
	service := "products"

	cfg, err := config.LoadProducts()
	if err != nil {
		kit.NewLogger(service, "info").Fatal("invalid configuration", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.Stringer("config", cfg))

	ctx := context.Background()
	shutdownTracing, err := kit.InitTracing(ctx, log, service, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("init tracing failed", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	s := products.NewServer(products.NewStore(), cfg.Mode, log)

	reg := prometheus.NewRegistry()
	h := products.NewHandler(s, products.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, kit.Traced(h, service), log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"MockShop/internal/config"
	"MockShop/internal/users"
	"MockShop/pkg/kit"
)

func main() {
	service := "users"

	cfg, err := config.LoadUsers()
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

	verifier, err := users.NewSharedPassword(cfg.DemoPassword, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("init verifier failed", zap.Error(err))
	}

	var tokens users.Issuer = users.NewOpaqueIssuer(cfg.TokenTTL)
	if cfg.TokenFormat == config.TokenJWT {
		tokens = users.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	}

	s := users.NewServer(users.NewStore(), cfg.Mode, verifier, tokens, log)

	reg := prometheus.NewRegistry()
	h := users.NewHandler(s, users.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.MetricsEnabled,
		MetricsToken:    cfg.MetricsToken,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthLimitPerMin: cfg.AuthLimitPerMin,
	})

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, kit.Traced(h, service), log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

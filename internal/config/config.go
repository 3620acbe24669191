// Package config loads per-process settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"MockShop/internal/resource"
)

const (
	TokenOpaque = "opaque"
	TokenJWT    = "jwt"
)

type Common struct {
	Environment    string   `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	MetricsEnabled bool     `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsToken   string   `envconfig:"METRICS_TOKEN"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	OTLPEndpoint   string   `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type Products struct {
	Common
	Port       string `envconfig:"PRODUCTS_PORT" default:"3001"`
	UpdateMode string `envconfig:"UPDATE_MODE" default:"truthy"`

	Mode resource.UpdateMode `ignored:"true"`
}

type Users struct {
	Common
	Port            string        `envconfig:"USERS_PORT" default:"3002"`
	UpdateMode      string        `envconfig:"UPDATE_MODE" default:"truthy"`
	DemoPassword    string        `envconfig:"DEMO_PASSWORD" default:"password123"`
	TokenFormat     string        `envconfig:"TOKEN_FORMAT" default:"opaque"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"dev-secret"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	AuthLimitPerMin int           `envconfig:"AUTH_LIMIT_PER_MIN" default:"10"`

	Mode resource.UpdateMode `ignored:"true"`
}

type Gateway struct {
	Common
	Port           string        `envconfig:"GATEWAY_PORT" default:"8080"`
	ProductsURL    string        `envconfig:"PRODUCTS_URL" default:"http://localhost:3001"`
	UsersURL       string        `envconfig:"USERS_URL" default:"http://localhost:3002"`
	ClientTimeout  time.Duration `envconfig:"CLIENT_TIMEOUT" default:"10s"`
	HealthInterval time.Duration `envconfig:"HEALTH_INTERVAL" default:"30s"`
}

// CLI is the configuration of shopctl, which talks to the services directly.
type CLI struct {
	ProductsURL   string        `envconfig:"PRODUCTS_URL" default:"http://localhost:3001"`
	UsersURL      string        `envconfig:"USERS_URL" default:"http://localhost:3002"`
	ClientTimeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"10s"`
}

func LoadProducts() (Products, error) {
	var c Products
	if err := load(&c); err != nil {
		return Products{}, err
	}
	if err := c.Common.validate(); err != nil {
		return Products{}, err
	}
	mode, err := resource.ParseUpdateMode(c.UpdateMode)
	if err != nil {
		return Products{}, err
	}
	c.Mode = mode
	return c, nil
}

func LoadUsers() (Users, error) {
	var c Users
	if err := load(&c); err != nil {
		return Users{}, err
	}
	if err := c.Common.validate(); err != nil {
		return Users{}, err
	}
	mode, err := resource.ParseUpdateMode(c.UpdateMode)
	if err != nil {
		return Users{}, err
	}
	c.Mode = mode

	if c.DemoPassword == "" {
		return Users{}, errors.New("DEMO_PASSWORD must not be empty")
	}
	c.TokenFormat = strings.ToLower(strings.TrimSpace(c.TokenFormat))
	switch c.TokenFormat {
	case TokenOpaque:
	case TokenJWT:
		if c.JWTSecret == "" {
			return Users{}, errors.New("JWT_SECRET is required when TOKEN_FORMAT=jwt")
		}
	default:
		return Users{}, fmt.Errorf("unknown TOKEN_FORMAT %q (want opaque or jwt)", c.TokenFormat)
	}
	if c.TokenTTL <= 0 {
		return Users{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.AuthLimitPerMin < 0 {
		return Users{}, fmt.Errorf("AUTH_LIMIT_PER_MIN must not be negative, got %d", c.AuthLimitPerMin)
	}
	return c, nil
}

func LoadGateway() (Gateway, error) {
	var c Gateway
	if err := load(&c); err != nil {
		return Gateway{}, err
	}
	if err := c.Common.validate(); err != nil {
		return Gateway{}, err
	}
	if c.ProductsURL == "" || c.UsersURL == "" {
		return Gateway{}, errors.New("PRODUCTS_URL and USERS_URL are required")
	}
	if c.ClientTimeout <= 0 {
		return Gateway{}, fmt.Errorf("CLIENT_TIMEOUT must be positive, got %s", c.ClientTimeout)
	}
	if c.HealthInterval <= 0 {
		return Gateway{}, fmt.Errorf("HEALTH_INTERVAL must be positive, got %s", c.HealthInterval)
	}
	return c, nil
}

func LoadCLI() (CLI, error) {
	var c CLI
	if err := load(&c); err != nil {
		return CLI{}, err
	}
	if c.ProductsURL == "" || c.UsersURL == "" {
		return CLI{}, errors.New("PRODUCTS_URL and USERS_URL are required")
	}
	if c.ClientTimeout <= 0 {
		return CLI{}, fmt.Errorf("CLIENT_TIMEOUT must be positive, got %s", c.ClientTimeout)
	}
	return c, nil
}

func load(dst any) error {
	// a missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", dst); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Common) validate() error {
	for _, o := range c.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return errors.New("CORS_ALLOWED_ORIGINS contains an empty entry")
		}
	}
	return nil
}

func (c Common) String() string {
	return fmt.Sprintf("env=%s log_level=%s metrics=%t metrics_token=%s cors=%s otlp=%q",
		c.Environment, c.LogLevel, c.MetricsEnabled, mask(c.MetricsToken),
		strings.Join(c.AllowedOrigins, ","), c.OTLPEndpoint)
}

func (c Products) String() string {
	return fmt.Sprintf("%s port=%s update_mode=%s", c.Common, c.Port, c.Mode)
}

func (c Users) String() string {
	return fmt.Sprintf("%s port=%s update_mode=%s token_format=%s jwt_secret=%s token_ttl=%s demo_password=%s auth_limit=%d",
		c.Common, c.Port, c.Mode, c.TokenFormat, mask(c.JWTSecret), c.TokenTTL, mask(c.DemoPassword), c.AuthLimitPerMin)
}

func (c Gateway) String() string {
	return fmt.Sprintf("%s port=%s products=%s users=%s client_timeout=%s health_interval=%s",
		c.Common, c.Port, c.ProductsURL, c.UsersURL, c.ClientTimeout, c.HealthInterval)
}

func mask(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "***"
}

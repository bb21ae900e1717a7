package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"go.temporal.io/sdk/client"

	orderkafka "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/events/kafka"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"local"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`

	PostgresDSN   string `env:"POSTGRES_DSN"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"storefront"`

	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderTopic string   `env:"KAFKA_ORDER_TOPIC"`

	TemporalAddress   string `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `env:"TEMPORAL_DISABLED"`

	AuthSecret   string `env:"AUTH_SECRET"`
	AuthDisabled bool   `env:"AUTH_DISABLED"`

	MediaDir     string `env:"MEDIA_DIR" envDefault:"./uploads"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/uploads"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// IdempotencyKeyTTL is how long checkout retries can be replayed before keys are purged.
	IdempotencyKeyTTL time.Duration `env:"IDEMPOTENCY_KEY_TTL" envDefault:"24h"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

// ParseConfig reads environment variables and applies defaults without the API-only checks.
// The worker uses it since it never serves HTTP or verifies tokens.
func ParseConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg, err := parseConfig(opts)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.MongoURI = strings.TrimSpace(c.MongoURI)
	if strings.TrimSpace(c.MongoDatabase) == "" {
		c.MongoDatabase = platformmongo.DefaultDatabase
	}
	brokers := c.KafkaBrokers[:0]
	for _, broker := range c.KafkaBrokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	c.KafkaBrokers = brokers
	if strings.TrimSpace(c.KafkaOrderTopic) == "" {
		c.KafkaOrderTopic = orderkafka.DefaultTopic
	}
	if c.TemporalAddress == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if c.TemporalNamespace == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
	c.MediaBaseURL = "/" + strings.Trim(strings.TrimSpace(c.MediaBaseURL), "/")
}

// Validate rejects settings the processes cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if !c.AuthDisabled && strings.TrimSpace(c.AuthSecret) == "" {
		errs = append(errs, errors.New("AUTH_SECRET is required unless AUTH_DISABLED is set"))
	}
	if c.AuthDisabled && c.Environment == "production" {
		errs = append(errs, errors.New("AUTH_DISABLED is not allowed in production"))
	}
	if strings.TrimSpace(c.MediaDir) == "" {
		errs = append(errs, errors.New("MEDIA_DIR must not be empty"))
	}
	if c.MediaBaseURL == "/" {
		errs = append(errs, errors.New("MEDIA_BASE_URL must name a path below the root"))
	}
	if c.IdempotencyKeyTTL <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_KEY_TTL must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

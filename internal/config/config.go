package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMissingConfiguration is wrapped by Validate when required keys are empty.
var ErrMissingConfiguration = errors.New("missing required configuration")

type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	REST    RESTConfig
	Catalog CatalogConfig
	Entu    EntuConfig
	Kafka   KafkaConfig
	Feed    FeedConfig
}

type ServerConfig struct {
	Port      string
	StaticDir string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

type RESTConfig struct {
	Timeout time.Duration
}

// CatalogConfig holds the upstreams the /api proxies forward to.
type CatalogConfig struct {
	DiscogsKey string
	DiscogsURL string
	EsterURL   string
	EntuURL    string
	EntuKey    string
}

// EntuConfig is the account the kml CLI reconciles.
type EntuConfig struct {
	Host          string `validate:"required"`
	Account       string `validate:"required"`
	Token         string `validate:"required"`
	DiscoveryFile string
}

type KafkaConfig struct {
	Brokers    []string
	SetupTopic string
	GroupID    string
}

type FeedConfig struct {
	JWTSecret string
}

func Load() (*Config, error) {
	timeout, err := getEnvDuration("REST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvString("PORT", "3000"),
			StaticDir: getEnvString("STATIC_DIR", ""),
		},
		Logging: LoggingConfig{
			Level:     getEnvString("LOG_LEVEL", "info"),
			Format:    getEnvString("LOG_FORMAT", "text"),
			Directory: getEnvString("LOG_DIRECTORY", ""),
		},
		REST: RESTConfig{Timeout: timeout},
		Catalog: CatalogConfig{
			DiscogsKey: getEnvString("DISCOGS_KEY", ""),
			DiscogsURL: getEnvString("DISCOGS_URL", "https://api.discogs.com"),
			EsterURL:   getEnvString("ESTER_URL", ""),
			EntuURL:    firstNonEmpty(getEnvString("ENTU_URL", ""), getEnvString("NUXT_PUBLIC_ENTU_URL", "")),
			EntuKey:    getEnvString("ENTU_KEY", ""),
		},
		Entu: EntuConfig{
			Host:          getEnvString("ENTU_HOST", "entu.app"),
			Account:       getEnvString("ENTU_ACCOUNT", ""),
			Token:         getEnvString("ENTU_TOKEN", ""),
			DiscoveryFile: getEnvString("DISCOVERY_FILE", "discovery.json"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(firstNonEmpty(os.Getenv("KAFKA_BROKERS"), os.Getenv("KAFKA_BROKER"))),
			SetupTopic: getEnvString("KAFKA_SETUP_TOPIC", "entu.setup.events"),
			GroupID:    getEnvString("KAFKA_GROUP_ID", "entu-kaart-feed"),
		},
		Feed: FeedConfig{JWTSecret: getEnvString("FEED_JWT_SECRET", "")},
	}
	return cfg, nil
}

var validate = validator.New()

// Validate reports every empty required key of the Entu section, in declaration order.
func (c EntuConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
}

// BaseURL is the account API root. Hosts that already carry a scheme are used verbatim.
func (c EntuConfig) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + "/api/" + strings.TrimSpace(c.Account)
}

// TokenPreview never exposes more than the first 20 characters of the token.
func (c EntuConfig) TokenPreview() string {
	token := strings.TrimSpace(c.Token)
	if token == "" {
		return "Not set"
	}
	if len(token) > 20 {
		token = token[:20]
	}
	return token + "..."
}

func getEnvString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Gateway  GatewayConfig
	Admin    AdminConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicEvents   string
	ConsumerGroup string
}

// GatewayConfig holds credentials for the hosted payment gateway.
// An empty SecretKey means the service runs in demo mode: checkout
// sessions are synthesized locally and never hit the gateway.
type GatewayConfig struct {
	APIBase       string
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Locale        string
	Currency      string
}

// Configured reports whether live gateway calls are possible.
func (g GatewayConfig) Configured() bool {
	return g.SecretKey != ""
}

// WebhookConfigured reports whether incoming gateway events can be verified.
func (g GatewayConfig) WebhookConfigured() bool {
	return g.WebhookSecret != ""
}

type AdminConfig struct {
	Token string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicEvents:   getEnv("KAFKA_TOPIC_CAMP_EVENTS", "camp-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "camp-service-group"),
		},
		Gateway: GatewayConfig{
			APIBase:       getEnv("GATEWAY_API_BASE", "https://api.checkout.example.com"),
			SecretKey:     getEnv("GATEWAY_SECRET_KEY", ""),
			WebhookSecret: getEnv("GATEWAY_WEBHOOK_SECRET", ""),
			SuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/conferma"),
			CancelURL:     getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/iscrizione"),
			Locale:        getEnv("CHECKOUT_LOCALE", "it"),
			Currency:      getEnv("CHECKOUT_CURRENCY", "eur"),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, gateway_configured=%v", cfg.Server.Env, cfg.Server.Port, cfg.Gateway.Configured())
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

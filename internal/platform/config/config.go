package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration for the registry service.
//
// The home chain identifier is deliberately absent: it is an environment
// value queried at resolution time (resolver.EnvChainID), not configuration
// loaded once at startup.
type Server struct {
	Addr string

	// AdminToken guards the admin HTTP routes. There is no default: when
	// unset, the admin surface is not mounted at all.
	AdminToken   string
	AdminAddress string

	// DatabaseURL selects the postgres-backed ledger when set; the in-memory
	// ledger is used otherwise.
	DatabaseURL string

	// RedisURL enables the resolved-URI cache when set.
	RedisURL    string
	URICacheTTL time.Duration

	// KafkaBrokers/KafkaTopic enable the broker-backed observation emitter.
	KafkaBrokers []string
	KafkaTopic   string

	// ReceiverWebhookURL enables the webhook receiver-safety check on mint.
	ReceiverWebhookURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TOKENHOME_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ttl := 5 * time.Minute
	if raw := os.Getenv("TOKENHOME_URI_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}

	var brokers []string
	if raw := os.Getenv("TOKENHOME_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("TOKENHOME_KAFKA_TOPIC")
	if topic == "" {
		topic = "tokenhome.observations"
	}

	return Server{
		Addr:               addr,
		AdminToken:         os.Getenv("TOKENHOME_ADMIN_TOKEN"),
		AdminAddress:       os.Getenv("TOKENHOME_ADMIN_ADDRESS"),
		DatabaseURL:        os.Getenv("TOKENHOME_DATABASE_URL"),
		RedisURL:           os.Getenv("TOKENHOME_REDIS_URL"),
		URICacheTTL:        ttl,
		KafkaBrokers:       brokers,
		KafkaTopic:         topic,
		ReceiverWebhookURL: os.Getenv("TOKENHOME_RECEIVER_WEBHOOK"),
	}
}

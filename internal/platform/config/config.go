package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderAPIKey is the value shipped in sample env files. It is treated as
// "no credential configured".
const PlaceholderAPIKey = "YOUR_CAPTURE_TOKEN"

// Server captures process level configuration.
type Server struct {
	Addr     string
	Capture  CaptureConfig
	Explorer ExplorerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Media    MediaConfig
	Kafka    KafkaConfig

	EvidenceConcurrency int
	ShutdownTimeout     time.Duration
}

// CaptureConfig points at the Numbers Protocol Capture API.
type CaptureConfig struct {
	BaseURL string
	APIKey  string
	Chain   string
	Timeout time.Duration
}

// Live reports whether a usable credential is configured.
func (c CaptureConfig) Live() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// ExplorerConfig holds the public explorer base used to derive links.
type ExplorerConfig struct {
	AssetBase string
}

// StoreConfig selects the ledger store backend.
type StoreConfig struct {
	Driver string // memory, sqlite, postgres, redis
	DSN    string
}

// RedisConfig mirrors the go-redis options we override.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MediaConfig controls uploads handled by the local media adapter.
type MediaConfig struct {
	Dir            string
	MaxUploadBytes int64
	MaxFiles       int // per request
}

// KafkaConfig enables publication of persisted ledger records.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr: envOr("PROOFSY_ADDR", ":5000"),
		Capture: CaptureConfig{
			BaseURL: strings.TrimRight(envOr("NUMBERS_API_BASE", "https://api.numbersprotocol.io/api/v3"), "/"),
			APIKey:  os.Getenv("NUMBERS_API_KEY"),
			Chain:   envOr("CAPTURE_CHAIN", "numbers-mainnet"),
			Timeout: durationOr("CAPTURE_TIMEOUT", 60*time.Second),
		},
		Explorer: ExplorerConfig{
			AssetBase: envOr("EXPLORER_ASSET_BASE", "https://explorer.numbers.example/asset/"),
		},
		Store: StoreConfig{
			Driver: envOr("STORE_DRIVER", "sqlite"),
			DSN:    envOr("DATABASE_URL", "file:proofsy.db"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: intOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Media: MediaConfig{
			Dir:            envOr("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: int64(intOr("MAX_UPLOAD_BYTES", 50<<20)),
			MaxFiles:       intOr("MAX_UPLOAD_FILES", 10),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", "proofsy.ledger.records"),
		},
		EvidenceConcurrency: intOr("EVIDENCE_CONCURRENCY", 4),
		ShutdownTimeout:     durationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

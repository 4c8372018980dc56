package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       slog.Level
	RequestTimeout time.Duration
	TxTimeout      time.Duration
	AdminAPIToken  string
	// AdminAPITokenHash is a bcrypt hash of the operator token. It wins over
	// AdminAPIToken when both are set.
	AdminAPITokenHash string

	Auth         AuthConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Ledger       LedgerConfig
	Height       HeightConfig
	DataRegistry DataRegistryConfig
	Throttle     ThrottleConfig
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// DatabaseConfig selects Postgres persistence. Empty URL means in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the Redis client used by the height source.
type RedisConfig struct {
	URL          string
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit pipeline. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers           []string
	ClientID          string
	AuditTopic        string
	ConsumerGroup     string
	Partitions        int32
	ReplicationFactor int16
	RelayInterval     time.Duration
	RelayBatchSize    int
}

// LedgerConfig seeds governance settings on first start.
type LedgerConfig struct {
	Authority           string
	MaxConsents         uint64
	AccessLimitPerCycle uint64
	CycleDuration       uint64
}

// Height source kinds.
const (
	HeightSourceManual    = "manual"
	HeightSourceWallclock = "wallclock"
	HeightSourceRedis     = "redis"
)

// HeightConfig selects the host clock.
type HeightConfig struct {
	Source        string
	Genesis       time.Time
	BlockInterval time.Duration
	RedisKey      string
}

// DataRegistryConfig points at the data registry. Empty URL uses the
// in-memory registry seeded from SeedFile.
type DataRegistryConfig struct {
	URL      string
	Timeout  time.Duration
	SeedFile string
}

// ThrottleConfig bounds HTTP requests per client IP. A zero limit disables it.
type ThrottleConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Ledger defaults.
const (
	DefaultMaxConsents         = 100
	DefaultAccessLimitPerCycle = 10
	DefaultCycleDuration       = 144
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              getEnv("CONSENTGATE_ADDR", ":8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLevel(os.Getenv("LOG_LEVEL")),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		TxTimeout:         getDuration("TX_TIMEOUT", 5*time.Second),
		AdminAPIToken:     os.Getenv("ADMIN_API_TOKEN"),
		AdminAPITokenHash: os.Getenv("ADMIN_API_TOKEN_HASH"),
		Auth: AuthConfig{
			JWTSigningKey: jwtSigningKey,
			Issuer:        getEnv("JWT_ISSUER", "consentgate"),
			Audience:      getEnv("JWT_AUDIENCE", "consentgate-api"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			KeyPrefix:    getEnv("REDIS_KEY_PREFIX", "consentgate:"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			ClientID:          getEnv("KAFKA_CLIENT_ID", "consentgate"),
			AuditTopic:        getEnv("AUDIT_TOPIC", "consentgate.audit"),
			ConsumerGroup:     getEnv("AUDIT_CONSUMER_GROUP", "consentgate-audit-materializer"),
			Partitions:        int32(getInt("AUDIT_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(getInt("AUDIT_TOPIC_REPLICATION", 1)),
			RelayInterval:     getDuration("OUTBOX_RELAY_INTERVAL", time.Second),
			RelayBatchSize:    getInt("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		Ledger: LedgerConfig{
			Authority:           strings.TrimSpace(os.Getenv("AUTHORITY")),
			MaxConsents:         getUint("MAX_CONSENTS", DefaultMaxConsents),
			AccessLimitPerCycle: getUint("ACCESS_LIMIT_PER_CYCLE", DefaultAccessLimitPerCycle),
			CycleDuration:       getUint("CYCLE_DURATION", DefaultCycleDuration),
		},
		Height: HeightConfig{
			Source:        getEnv("HEIGHT_SOURCE", HeightSourceManual),
			Genesis:       getTime("GENESIS_TIME", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
			BlockInterval: getDuration("BLOCK_INTERVAL", 10*time.Minute),
			RedisKey:      getEnv("HEIGHT_REDIS_KEY", "height"),
		},
		DataRegistry: DataRegistryConfig{
			URL:      os.Getenv("DATA_REGISTRY_URL"),
			Timeout:  getDuration("DATA_REGISTRY_TIMEOUT", 2*time.Second),
			SeedFile: os.Getenv("DATA_REGISTRY_SEED_FILE"),
		},
		Throttle: ThrottleConfig{
			RequestsPerWindow: getInt("THROTTLE_REQUESTS", 600),
			Window:            getDuration("THROTTLE_WINDOW", time.Minute),
		},
	}
}

// IsProduction reports whether dev conveniences must stay disabled.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getUint(key string, fallback uint64) uint64 {
	if v, err := strconv.ParseUint(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getTime(key string, fallback time.Time) time.Time {
	if v, err := time.Parse(time.RFC3339, os.Getenv(key)); err == nil {
		return v
	}
	return fallback
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

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

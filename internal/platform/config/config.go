package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean; every
// field has a development default so the server boots with no environment.
type Config struct {
	Addr string
	Env  string

	// Record custody
	DataDir          string
	EncryptionKeyHex string // 32-byte hex key; empty disables encryption at rest

	// External ledger
	LedgerMode          string // "stub" or "rpc"
	LedgerRPCURL        string
	RegistryContract    string
	ConsentContract     string
	BrokerContract      string
	LedgerGasLimit      uint64
	LedgerCallTimeout   time.Duration
	ConsentDefaultValid time.Duration

	// Validator credential for profile pushes; empty defers them
	ValidatorAddress   string
	ValidatorKeyHandle string

	// Identity verification
	CodeTTL       time.Duration
	JWTSigningKey string

	// Optional backends
	RedisURL    string
	PostgresDSN string

	// Access event publishing
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr: getEnv("FINSHARE_ADDR", ":8080"),
		Env:  getEnv("FINSHARE_ENV", "dev"),

		DataDir:          getEnv("FINSHARE_DATA_DIR", "data"),
		EncryptionKeyHex: os.Getenv("FINSHARE_ENCRYPTION_KEY"),

		LedgerMode:          getEnv("LEDGER_MODE", "stub"),
		LedgerRPCURL:        getEnv("LEDGER_RPC_URL", "http://127.0.0.1:8545"),
		RegistryContract:    os.Getenv("IDENTITY_REGISTRY_ADDRESS"),
		ConsentContract:     os.Getenv("CONSENT_MANAGER_ADDRESS"),
		BrokerContract:      os.Getenv("DATA_BROKER_ADDRESS"),
		LedgerGasLimit:      getEnvUint("LEDGER_GAS_LIMIT", 300000),
		LedgerCallTimeout:   getEnvDuration("LEDGER_CALL_TIMEOUT", 20*time.Second),
		ConsentDefaultValid: getEnvDuration("CONSENT_DEFAULT_VALID", 30*24*time.Hour),

		ValidatorAddress:   os.Getenv("VALIDATOR_ADDRESS"),
		ValidatorKeyHandle: os.Getenv("VALIDATOR_KEY_HANDLE"),

		CodeTTL:       getEnvDuration("VERIFICATION_CODE_TTL", 10*time.Minute),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		RedisURL:    os.Getenv("REDIS_URL"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_ACCESS_TOPIC", "finshare.access-events"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

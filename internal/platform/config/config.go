package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "rolodex/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// PostgresDSN is empty when running against the in-memory stores.
	PostgresDSN string

	Redis RedisConfig

	// KafkaBrokers is empty when audit events stay local (store-only).
	KafkaBrokers    []string
	KafkaAuditTopic string

	CacheTTL time.Duration

	Validation ValidationConfig

	SeedDemoData bool
}

// RedisConfig carries connection settings for the record cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ValidationConfig holds the tunable validation knobs.
type ValidationConfig struct {
	// PhoneMinDigits is the minimum digit count for any telephone number
	// once punctuation is stripped.
	PhoneMinDigits int

	// InvoiceDateHorizon bounds how far in the past an invoice may be dated.
	InvoiceDateHorizon time.Duration

	// TestEmailDomains bypass the name/email correlation check.
	TestEmailDomains []string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ROLODEX_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cacheTTL := durationEnv("ROLODEX_CACHE_TTL", 5*time.Minute)

	minDigits := intEnv("ROLODEX_PHONE_MIN_DIGITS", 8)

	testDomains := pstrings.DedupeAndTrimLower(splitEnv("ROLODEX_TEST_EMAIL_DOMAINS"))
	if len(testDomains) == 0 {
		testDomains = []string{"example.com", "test.com"}
	}

	var brokers []string
	if v := os.Getenv("ROLODEX_KAFKA_BROKERS"); v != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(v, ","))
	}
	auditTopic := os.Getenv("ROLODEX_KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "rolodex.audit"
	}

	return Server{
		Addr:            addr,
		PostgresDSN:     os.Getenv("ROLODEX_POSTGRES_DSN"),
		Redis:           redisFromEnv(),
		KafkaBrokers:    brokers,
		KafkaAuditTopic: auditTopic,
		CacheTTL:        cacheTTL,
		Validation: ValidationConfig{
			PhoneMinDigits:     minDigits,
			InvoiceDateHorizon: 10 * 365 * 24 * time.Hour,
			TestEmailDomains:   testDomains,
		},
		SeedDemoData: os.Getenv("ROLODEX_SEED_DEMO_DATA") == "true",
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("ROLODEX_REDIS_URL"),
		PoolSize:     intEnv("ROLODEX_REDIS_POOL_SIZE", 10),
		MinIdleConns: intEnv("ROLODEX_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  durationEnv("ROLODEX_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  durationEnv("ROLODEX_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: durationEnv("ROLODEX_REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func intEnv(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitEnv(name string) []string {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

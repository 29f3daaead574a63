package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StoreBackend selects where session and journey records are persisted.
type StoreBackend string

const (
	// StoreBackendMemory keeps records in process memory.
	StoreBackendMemory StoreBackend = "memory"
	// StoreBackendRedis keeps records in Redis with a sliding TTL.
	StoreBackendRedis StoreBackend = "redis"
	// StoreBackendPostgres keeps records in the state_records table.
	StoreBackendPostgres StoreBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (s *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis", "postgres":
		*s = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: memory, redis, postgres)", v)
	}
}

// StoreConfig contains state store configuration.
type StoreConfig struct {
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"memory"`

	// TTL is how long an untouched record survives in Redis.
	TTL time.Duration `env:"STORE_TTL" envDefault:"720h"`

	// KeyPrefix namespaces Redis keys.
	KeyPrefix string `env:"STORE_KEY_PREFIX" envDefault:"luminara:"`
}

// Sanitize applies guardrails to store configuration values.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendMemory
	}
	if s.TTL <= 0 {
		s.TTL = 720 * time.Hour
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"luminara"`
	Password string `env:"PASSWORD"                envDefault:"luminara"`
	Name     string `env:"NAME"                    envDefault:"luminara"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // 'require' in production
	// RunMigrationsOnStart controls whether migrations are applied during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// DSN returns the libpq-style connection string for the database.
func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/adapters/memstore"
	redisadapter "github.com/luminara/journey-api/internal/adapters/redis"
	"github.com/luminara/journey-api/internal/data"
	"github.com/luminara/journey-api/internal/ports"
)

// StoreDeps contains the connections a state store may be built on.
type StoreDeps struct {
	Config      config.StoreConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildStateStore selects the state store for the configured backend.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildStateStore(deps StoreDeps) (ports.StateStore, error) {
	var store ports.StateStore
	switch deps.Config.Backend {
	case config.StoreBackendRedis:
		if deps.RedisClient == nil {
			return nil, errors.New("redis store backend requires a redis client")
		}
		store = redisadapter.NewStateStore(deps.RedisClient, redisadapter.StateStoreOptions{
			Prefix: deps.Config.KeyPrefix,
			TTL:    deps.Config.TTL,
		})
	case config.StoreBackendPostgres:
		if deps.DB == nil {
			return nil, errors.New("postgres store backend requires a database connection")
		}
		store = data.NewStateRepo(deps.DB)
	case config.StoreBackendMemory, "":
		store = memstore.New()
	default:
		return nil, fmt.Errorf("unsupported store backend %q", deps.Config.Backend)
	}

	if deps.Logger != nil {
		deps.Logger.Info("state store configured", "backend", backendName(deps.Config.Backend))
	}
	return store, nil
}

func backendName(b config.StoreBackend) string {
	if b == "" {
		return string(config.StoreBackendMemory)
	}
	return string(b)
}

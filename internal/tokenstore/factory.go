package tokenstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ShubhamP528/RentManagement-frontend/internal/database"
	"github.com/ShubhamP528/RentManagement-frontend/internal/redis"
)

// Driver identifiers
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Driver   string
	Path     string // file and sqlite
	DSN      string // postgres
	RedisURL string
	Prefix   string // redis key prefix
}

// Dependencies are optional pre-opened handles. When a handle is supplied
// the store does not close it.
type Dependencies struct {
	SQLite   *gorm.DB
	Postgres *sqlx.DB
	Redis    *goredis.Client
}

// New builds a Store for the configured driver.
func New(ctx context.Context, cfg Config, deps Dependencies) (*Store, error) {
	backend, err := newBackend(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

func newBackend(ctx context.Context, cfg Config, deps Dependencies) (Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverFile:
		return NewFile(cfg.Path)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		if deps.SQLite != nil {
			return NewSQLite(deps.SQLite, false)
		}
		db, err := database.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLite(db, true)
	case DriverPostgres:
		if deps.Postgres != nil {
			return NewPostgres(ctx, deps.Postgres, false)
		}
		db, err := database.ConnectPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgres(ctx, db, true)
	case DriverRedis:
		if deps.Redis != nil {
			return NewRedis(deps.Redis, cfg.Prefix, false), nil
		}
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedis(client.Client, cfg.Prefix, true), nil
	default:
		return nil, fmt.Errorf("unsupported token store driver: %s", driver)
	}
}

package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-shortener-es/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultRedisPrefix = "shortener"
	pingTimeout        = 5 * time.Second
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewJournal, NewRedisMirror)

// Data holds the external stores. Either handle may be nil when not configured.
type Data struct {
	db     *sql.DB
	driver string
	rdb    *redis.Client
	prefix string
}

// NewData opens the journal database and the Redis client.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data"))
	d := &Data{prefix: defaultRedisPrefix}

	if c != nil && c.Journal != nil && c.Journal.Driver != "" {
		db, err := OpenDB(c.Journal.Driver, c.Journal.Source)
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(db, c.Journal.Driver); err != nil {
			db.Close()
			return nil, nil, err
		}
		d.db = db
		d.driver = c.Journal.Driver
		helper.Infof("event journal on %s", c.Journal.Driver)
	} else {
		helper.Warn("event journal disabled, links will not survive a restart")
	}

	if c != nil && c.Redis != nil && c.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			rdb.Close()
			if d.db != nil {
				d.db.Close()
			}
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		d.rdb = rdb
		if c.Redis.Prefix != "" {
			d.prefix = c.Redis.Prefix
		}
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		if d.db != nil {
			if err := d.db.Close(); err != nil {
				helper.Error(err)
			}
		}
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				helper.Error(err)
			}
		}
	}

	return d, cleanup, nil
}

// OpenDB opens the journal database.
func OpenDB(driver, source string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite has a single writer; an in-memory database also lives on one connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

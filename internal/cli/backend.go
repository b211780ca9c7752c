package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"github.com/petrijr/canvas"
)

// openStore connects the byte store selected by cfg. The returned close
// function releases the underlying connection.
func openStore(ctx context.Context, cfg Config) (canvas.ByteStore, func() error, error) {
	store, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Cache {
		store = canvas.NewCachedStore(store, cfg.CacheTTL)
	}
	return store, closeFn, nil
}

func openBackend(ctx context.Context, cfg Config) (canvas.ByteStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendMemory:
		return canvas.NewInMemoryStore(), noop, nil

	case BackendSQLite:
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %q: %w", cfg.DSN, err)
		}
		store, err := canvas.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite schema: %w", err)
		}
		return store, db.Close, nil

	case BackendPostgres:
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := canvas.NewPostgresStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init postgres schema: %w", err)
		}
		return store, db.Close, nil

	case BackendRedis:
		opts, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			opts = &redis.Options{Addr: cfg.DSN}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return canvas.NewRedisStore(client, cfg.Redis.Prefix), client.Close, nil

	case BackendMongo:
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.DSN))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(cctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return canvas.NewMongoStore(client, cfg.Mongo.Database, cfg.Mongo.Collection), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

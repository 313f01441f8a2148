package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/mindfulthreads/storefront/internal/api"
	"github.com/mindfulthreads/storefront/internal/core/ports"
	"github.com/mindfulthreads/storefront/internal/core/service"
	"github.com/mindfulthreads/storefront/internal/infrastructure/db/memory"
	"github.com/mindfulthreads/storefront/internal/infrastructure/db/mongo"
	"github.com/mindfulthreads/storefront/internal/infrastructure/db/postgres"
	"github.com/mindfulthreads/storefront/internal/infrastructure/db/redis"
	"github.com/mindfulthreads/storefront/internal/infrastructure/http/handlers"
	"github.com/mindfulthreads/storefront/internal/pkg/config"
	"github.com/mindfulthreads/storefront/pkg/logger"
)

// backends is the storage wiring for one driver.
type backends struct {
	accounts  ports.AccountRepository
	products  ports.ProductRepository
	sessions  ports.SessionStore
	cache     ports.CatalogCache
	readiness map[string]handlers.Pinger
}

type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	mongo  *mongodriver.Client
	pg     *pgxpool.Pool
	redis  *goredis.Client
	router *echo.Echo
}

// New connects the backends selected by cfg.StorageDriver and builds the router.
// The logger singleton must already be initialised.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Component("app")}

	b, err := a.connect(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	signupRoles, err := cfg.SignupRoles()
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	accounts := service.NewAccountService(b.accounts, signupRoles, logger.Component("accounts"))
	catalog := service.NewCatalogService(b.products, b.cache, logger.Component("catalog"))
	sessions := service.NewSessionService(accounts, b.sessions, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, logger.Component("sessions"))

	a.router = api.NewRouter(api.Deps{
		Accounts:      accounts,
		Sessions:      sessions,
		Catalog:       catalog,
		SessionSecret: cfg.Auth.SessionSecret,
		SessionTTL:    cfg.Auth.SessionTTL,
		SecureCookies: cfg.Auth.SecureCookies,
		Readiness:     b.readiness,
		Logger:        logger.Component("http"),
	})
	return a, nil
}

func (a *App) Router() *echo.Echo {
	return a.router
}

// Close releases every backend connection that was opened.
func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			return fmt.Errorf("mongo disconnect: %w", err)
		}
	}
	return nil
}

func (a *App) connect(ctx context.Context) (*backends, error) {
	switch a.cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.New()
		a.log.Warn().Msg("using in-memory storage; data is lost on restart")
		return &backends{
			accounts:  store.Accounts,
			products:  store.Products,
			sessions:  store.Sessions,
			readiness: map[string]handlers.Pinger{"memory": store},
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongo = client
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("connected to mongodb")

		return a.withRedis(ctx, &backends{
			accounts:  mongo.NewAccountRepository(db),
			products:  mongo.NewProductRepository(db),
			readiness: map[string]handlers.Pinger{"mongodb": mongo.Pinger{Client: client}},
		})

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, a.cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.pg = pool
		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		a.log.Info().Msg("connected to postgres, migrations applied")

		return a.withRedis(ctx, &backends{
			accounts:  postgres.NewAccountRepository(pool),
			products:  postgres.NewProductRepository(pool),
			readiness: map[string]handlers.Pinger{"postgres": pool},
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.cfg.StorageDriver)
}

// withRedis adds the Redis session store and catalog cache to b.
func (a *App) withRedis(ctx context.Context, b *backends) (*backends, error) {
	client, err := redis.Connect(ctx, redis.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to redis")

	b.sessions = redis.NewSessionStore(client)
	b.cache = redis.NewCatalogCache(client, a.cfg.CatalogCacheTTL)
	b.readiness["redis"] = redis.Pinger{Client: client}
	return b, nil
}

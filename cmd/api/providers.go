package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogweb/blog-api/internal/api/handler"
	"github.com/blogweb/blog-api/internal/core/ports"
	"github.com/blogweb/blog-api/internal/infrastructure/auth"
	mongostore "github.com/blogweb/blog-api/internal/infrastructure/db/mongo"
	pgstore "github.com/blogweb/blog-api/internal/infrastructure/db/postgres"
	redisstore "github.com/blogweb/blog-api/internal/infrastructure/db/redis"
	"github.com/blogweb/blog-api/internal/infrastructure/mail"
	"github.com/blogweb/blog-api/internal/infrastructure/queue"
	"github.com/blogweb/blog-api/internal/infrastructure/storage"
	"github.com/blogweb/blog-api/internal/pkg/config"
	"github.com/blogweb/blog-api/pkg/logger"
)

type storesResult struct {
	fx.Out

	Accounts ports.AccountRepository
	Posts    ports.PostRepository
	Health   map[string]handler.Pinger
}

// newStores connects the configured store driver and collects the readiness
// checks of every connected dependency.
func newStores(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger, rdb *goredis.Client, assets ports.AssetStore) (storesResult, error) {
	ctx := context.Background()
	health := make(map[string]handler.Pinger)
	if rdb != nil {
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	if p, ok := assets.(handler.Pinger); ok {
		health["assets"] = p
	}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return storesResult{}, err
		}
		lc.Append(fx.StopHook(client.Disconnect))

		accounts := mongostore.NewAccountRepository(db)
		posts := mongostore.NewPostRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			return storesResult{}, fmt.Errorf("mongo account indexes: %w", err)
		}
		if err := posts.EnsureIndexes(ctx); err != nil {
			return storesResult{}, fmt.Errorf("mongo post indexes: %w", err)
		}
		health["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return mongostore.Ping(ctx, client) })

		return storesResult{Accounts: accounts, Posts: posts, Health: health}, nil

	default:
		if cfg.Postgres.Migrate {
			if err := pgstore.Migrate(ctx, cfg.Postgres.DSN, logger.Component(log, "migrate")); err != nil {
				return storesResult{}, err
			}
		}
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return storesResult{}, err
		}
		lc.Append(fx.StopHook(pool.Close))

		accounts := pgstore.NewAccountRepository(pool)
		health["postgres"] = accounts

		return storesResult{Accounts: accounts, Posts: pgstore.NewPostRepository(pool), Health: health}, nil
	}
}

// newRedis returns nil when Redis is disabled; the denylist and the login
// limiter are then switched off.
func newRedis(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*goredis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Warn().Msg("redis disabled, logout and login throttling unavailable")
		return nil, nil
	}
	client, err := redisstore.Connect(context.Background(), redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

func newDenylist(rdb *goredis.Client) ports.TokenDenylist {
	if rdb == nil {
		return nil
	}
	return redisstore.NewDenylist(rdb)
}

func newLoginLimiter(rdb *goredis.Client, cfg *config.Config) ports.LoginLimiter {
	if rdb == nil {
		return nil
	}
	return redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
}

func newAssetStore(lc fx.Lifecycle, cfg *config.Config) (ports.AssetStore, error) {
	ctx := context.Background()
	if cfg.Assets.Driver == config.AssetDriverS3 {
		s3 := cfg.Assets.S3
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    s3.Bucket,
			Region:    s3.Region,
			Endpoint:  s3.Endpoint,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Prefix:    s3.Prefix,
		})
	}

	store, err := storage.OpenBucket(ctx, cfg.Assets.BucketURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

// newNotifier puts the async dispatcher in front of SMTP, or in front of the
// log mailer when no relay is configured.
func newNotifier(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (ports.Notifier, error) {
	var next ports.Notifier
	if cfg.SMTP.Host == "" {
		next = mail.NewLogMailer(logger.Component(log, "mail"))
	} else {
		m, err := mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return nil, err
		}
		next = m
	}

	d := queue.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, next, logger.Component(log, "notify"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start(context.Background())
			return nil
		},
		OnStop: d.Shutdown,
	})
	return d, nil
}

func newSecretGenerator() ports.SecretGenerator {
	return auth.NewSecretGenerator()
}

func newPasswordHasher(cfg *config.Config) ports.PasswordHasher {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return auth.NewBcryptHasher(cost)
}

func newTokenService(cfg *config.Config) (ports.TokenService, error) {
	return auth.NewJWTService(auth.TokenConfig{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})
}

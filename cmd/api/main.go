// Command api serves the Blog Web HTTP API.
//
// @title                       Blog Web API
// @version                     1.0
// @description                 Accounts, sessions and posts of the Blog Web backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/blogweb/blog-api/internal/api"
	"github.com/blogweb/blog-api/internal/api/handler"
	"github.com/blogweb/blog-api/internal/core/ports"
	"github.com/blogweb/blog-api/internal/core/service"
	"github.com/blogweb/blog-api/internal/pkg/config"
	"github.com/blogweb/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		fx.WithLogger(func(log zerolog.Logger) fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.With().Str("component", "fx").Logger()}
		}),
		injectInfra(),
		injectStores(),
		injectSecurity(),
		injectService(),
		fx.Invoke(startServer),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.Load,
		newLogger,
		newRedis,
		newAssetStore,
		newNotifier,
	)
}

func injectStores() fx.Option {
	return fx.Provide(
		newStores,
		newDenylist,
		newLoginLimiter,
	)
}

func injectSecurity() fx.Option {
	return fx.Provide(
		newSecretGenerator,
		newPasswordHasher,
		newTokenService,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		newAccountService,
		newPostService,
	)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})
}

type accountServiceParams struct {
	fx.In

	Repo     ports.AccountRepository
	Secrets  ports.SecretGenerator
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenService
	Notifier ports.Notifier
	Assets   ports.AssetStore
	Denylist ports.TokenDenylist `optional:"true"`
	Limiter  ports.LoginLimiter  `optional:"true"`
	Logger   zerolog.Logger
}

func newAccountService(p accountServiceParams) ports.AccountService {
	return service.NewAccountService(service.AccountDeps{
		Repo:     p.Repo,
		Secrets:  p.Secrets,
		Hasher:   p.Hasher,
		Tokens:   p.Tokens,
		Notifier: p.Notifier,
		Assets:   p.Assets,
		Denylist: p.Denylist,
		Limiter:  p.Limiter,
	}, logger.Component(p.Logger, "account"))
}

func newPostService(repo ports.PostRepository, log zerolog.Logger) ports.PostService {
	return service.NewPostService(repo, logger.Component(log, "post"))
}

type serverParams struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   zerolog.Logger
	Accounts ports.AccountService
	Posts    ports.PostService
	Health   map[string]handler.Pinger
}

func startServer(p serverParams) {
	log := logger.Component(p.Logger, "http")
	e := api.NewRouter(api.Dependencies{
		Accounts: p.Accounts,
		Posts:    p.Posts,
		Health:   p.Health,
		Logger:   log,
		Swagger:  p.Config.SwaggerEnabled,
	})

	p.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := net.JoinHostPort("", p.Config.Port)
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			e.Listener = ln
			log.Info().Str("addr", addr).Msg("starting HTTP server")
			go serve(e, log)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			log.Info().Msg("shutting down HTTP server")
			return e.Shutdown(shutdownCtx)
		},
	})
}

func serve(e *echo.Echo, log zerolog.Logger) {
	if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

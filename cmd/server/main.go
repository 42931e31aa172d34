// Command server runs the authentication service: account registration and
// confirmation, password and Google sign-in, token refresh, and password
// reset, backed by PostgreSQL and Redis.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kreasihub/auth/auth"
	"github.com/kreasihub/auth/core"
	"github.com/kreasihub/auth/email"
	"github.com/kreasihub/auth/modules/authhttp"
	"github.com/kreasihub/auth/pkg/config"
	"github.com/kreasihub/auth/pkg/httpserver"
	"github.com/kreasihub/auth/pkg/logger"
	"github.com/kreasihub/auth/pkg/pg"
	"github.com/kreasihub/auth/pkg/redis"
	"github.com/kreasihub/auth/redisstore"

	pgstore "github.com/kreasihub/auth/postgres"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	Migrate       bool   `env:"PG_MIGRATE" envDefault:"true"`
	GoogleEnabled bool   `env:"GOOGLE_OAUTH_ENABLED" envDefault:"false"`
	MailDir       string `env:"MAIL_DIR" envDefault:".mail"`
}

func (c appConfig) production() bool { return c.Env == "production" }

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, "auth-server"))
	ctx := context.Background()

	if err := run(ctx, appCfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	store, closeStore, err := newCredentialStore(ctx, appCfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	revoked, closeRevoked, err := newRevocationStore(ctx, appCfg, log)
	if err != nil {
		return err
	}
	defer closeRevoked()

	var tokenCfg auth.TokenConfig
	config.MustLoad(&tokenCfg)
	issuer, err := auth.NewTokenIssuer(tokenCfg)
	if err != nil {
		return err
	}

	var moduleCfg authhttp.Config
	config.MustLoad(&moduleCfg)

	notifier := email.NewNotifier(newSender(appCfg, log))
	service := auth.NewService(store, revoked, issuer, notifier,
		moduleCfg.FrontendURL, auth.WithLogger(log.With(logger.Component("auth"))))
	mw := auth.NewMiddleware(issuer, store,
		auth.WithMiddlewareLogger(log.With(logger.Component("authorize"))))

	var cookieCfg auth.CookieConfig
	config.MustLoad(&cookieCfg)
	cookies := auth.NewSessionCookies(cookieCfg, tokenCfg.AccessTTL, tokenCfg.RefreshTTL)

	var provider auth.IdentityProvider
	if appCfg.GoogleEnabled {
		var googleCfg auth.GoogleConfig
		config.MustLoad(&googleCfg)
		provider = auth.NewGoogleProvider(googleCfg)
	}

	module := authhttp.New(moduleCfg, service, mw, cookies, provider,
		authhttp.WithLogger(log.With(logger.Component("http"))))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		core.JSON(w, "ok", nil)
	})
	r.Mount("/auth", module.Handle())

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)
	server := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))
	return server.Run(ctx, r)
}

// newCredentialStore connects PostgreSQL and applies migrations. Outside
// production a missing PG_CONN_URL falls back to the in-memory store so the
// service runs without infrastructure.
func newCredentialStore(ctx context.Context, appCfg appConfig, log *slog.Logger) (auth.CredentialStore, func(), error) {
	if !appCfg.production() && os.Getenv("PG_CONN_URL") == "" {
		log.Warn("PG_CONN_URL not set, accounts held in memory")
		return auth.NewMemoryCredentialStore(), func() {}, nil
	}

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, nil, err
	}

	if appCfg.Migrate {
		var migrateCfg pg.MigrateConfig
		config.MustLoad(&migrateCfg)
		if err := pg.Migrate(ctx, pool, migrateCfg, log.With(logger.Component("migrate"))); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return pgstore.NewStore(pool), pool.Close, nil
}

// newRevocationStore connects Redis with the same development fallback.
func newRevocationStore(ctx context.Context, appCfg appConfig, log *slog.Logger) (auth.RevocationStore, func(), error) {
	if !appCfg.production() && os.Getenv("REDIS_URL") == "" {
		log.Warn("REDIS_URL not set, revoked tokens held in memory")
		return auth.NewMemoryRevocationStore(), func() {}, nil
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("close redis client", logger.Error(err))
		}
	}
	return redisstore.NewRevocationStore(client), closeClient, nil
}

// newSender picks the mail transport: Postmark in production, files on
// disk everywhere else.
func newSender(appCfg appConfig, log *slog.Logger) email.Sender {
	if appCfg.production() {
		var mailCfg email.Config
		config.MustLoad(&mailCfg)
		sender, err := email.NewPostmarkSender(mailCfg)
		if err != nil {
			log.Error("postmark sender unavailable", logger.Error(err))
			os.Exit(1)
		}
		return sender
	}
	log.Info("using dev mail sender", slog.String("dir", appCfg.MailDir))
	return email.NewDevSender(appCfg.MailDir)
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	billingmodule "github.com/mrtin42/dub/modules/billing"
	"github.com/mrtin42/dub/pkg/alert"
	"github.com/mrtin42/dub/pkg/billing"
	"github.com/mrtin42/dub/pkg/config"
	"github.com/mrtin42/dub/pkg/email"
	"github.com/mrtin42/dub/pkg/httpserver"
	"github.com/mrtin42/dub/pkg/linkcache"
	"github.com/mrtin42/dub/pkg/logger"
	"github.com/mrtin42/dub/pkg/pg"
	"github.com/mrtin42/dub/pkg/redis"
	workspacesvc "github.com/mrtin42/dub/svc/workspace"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"billing-webhook"`
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	logOpt := logger.WithDevelopment(appCfg.ServiceName)
	if appCfg.Env == "production" {
		logOpt = logger.WithProduction(appCfg.ServiceName)
	}
	log := logger.New(logOpt)
	logger.SetAsDefault(log)

	if err := run(context.Background(), appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		pgCfg     pg.Config
		redisCfg  redis.Config
		emailCfg  email.Config
		stripeCfg billing.StripeConfig
		alertCfg  alert.Config
		httpCfg   httpserver.Config
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&stripeCfg)
	config.MustLoad(&alertCfg)
	config.MustLoad(&httpCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	var mailer email.EmailSender
	if emailCfg.PostmarkServerToken != "" {
		mailer = email.MustNewPostmarkClient(emailCfg)
	} else {
		log.Warn("postmark is not configured, writing emails to disk", slog.String("dir", appCfg.EmailDevDir))
		mailer = email.NewDevSender(appCfg.EmailDevDir)
	}

	var notifier alert.Notifier
	if alertCfg.WebhookURL != "" {
		notifier, err = alert.NewWebhookNotifier(alertCfg)
		if err != nil {
			return err
		}
	} else {
		notifier = alert.NewLogNotifier(log)
	}

	provider, err := billing.NewStripeProvider(stripeCfg)
	if err != nil {
		return err
	}

	svc := billing.NewService(
		provider,
		workspacesvc.NewStore(pool),
		billing.DefaultCatalog(),
		mailer,
		linkcache.New(redisClient),
		notifier,
		log,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool), redis.Healthcheck(redisClient)))
	r.Mount("/api/billing", billingmodule.Router(svc, log))

	return httpserver.New(httpCfg, log).Run(ctx, r)
}

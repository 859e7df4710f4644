package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/simple-lms/console/modules"
	"github.com/simple-lms/console/modules/core/seed"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/configuration"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/httpapi"
	"github.com/simple-lms/console/pkg/intl"
	"github.com/simple-lms/console/pkg/metrics"
	"github.com/simple-lms/console/pkg/middleware"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/repo/pgstore"
	"github.com/simple-lms/console/pkg/repo/sqlitestore"
	"github.com/simple-lms/console/pkg/server"
	"github.com/simple-lms/console/pkg/tracing"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		log.Fatal(err)
	}
}

func run(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		Endpoint:    conf.Tracing.Endpoint,
		ServiceName: conf.Tracing.ServiceName,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}
	}()

	persister, closeStore, err := openStore(ctx, conf.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	var az *authz.Service
	if mode := authz.ParseMode(conf.AuthzMode); mode != authz.ModeDisabled {
		az, err = authz.NewService(mode, logger)
		if err != nil {
			return err
		}
	}

	app := application.New(&application.ApplicationOptions{
		EventBus:  eventbus.NewEventPublisher(logger),
		Logger:    logger,
		Authz:     az,
		Persister: persister,
		Hub:       application.NewHub(&application.HuberOptions{Logger: logger}),
	})
	defer app.Hub().Close()

	if err := modules.Load(app, modules.BuiltIn(conf)...); err != nil {
		return errors.Wrap(err, "load modules")
	}

	data, err := seed.Load(conf.Store.SeedPath)
	if err != nil {
		return err
	}
	seeder := application.NewSeeder()
	seeder.Register(seed.Func(data))
	if err := seeder.Seed(ctx, app); err != nil {
		return errors.Wrap(err, "seed")
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
		app.RegisterMiddleware(metrics.Instrument())
	}
	if err := registerMiddleware(app, conf, logger); err != nil {
		return err
	}

	srv := server.NewHTTPServer(app, notFound(), methodNotAllowed())
	logger.Infof("listening on %s", conf.Origin)
	return srv.Start(ctx, conf.SocketAddress, conf.ShutdownTimeout)
}

func openStore(ctx context.Context, opts configuration.StoreOptions) (repo.Persister, func(), error) {
	switch opts.Backend {
	case configuration.StoreSQLite:
		store, err := sqlitestore.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case configuration.StorePostgres:
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := pgstore.Open(openCtx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func registerMiddleware(app application.Application, conf *configuration.Configuration, logger *logrus.Logger) error {
	bundle, err := intl.LoadBundle(language.English)
	if err != nil {
		return err
	}
	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader

	app.RegisterMiddleware(
		middleware.WithLogger(logger, loggerOpts),
		middleware.Cors(conf.CorsAllowedOrigins...),
		middleware.WithActor(conf.ActorHeader),
		middleware.ProvideLocalizer(bundle, language.Make(conf.DefaultLanguage)),
	)
	if conf.RateLimit.Enabled && conf.RateLimit.GlobalRPS > 0 {
		store := middleware.NewMemoryStore()
		if conf.RateLimit.RedisURL != "" {
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				return err
			}
		}
		app.RegisterMiddleware(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Period:            time.Second,
			Store:             store,
		}))
	}
	return nil
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found", map[string]string{"path": r.URL.Path})
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}

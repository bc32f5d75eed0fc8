package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SIXMAR729/product-cli-project/internal/app"
	"github.com/SIXMAR729/product-cli-project/internal/config"
	"github.com/SIXMAR729/product-cli-project/internal/events"
	"github.com/SIXMAR729/product-cli-project/internal/handler"
	"github.com/SIXMAR729/product-cli-project/internal/postgres"
	"github.com/SIXMAR729/product-cli-project/internal/repo"
	"github.com/SIXMAR729/product-cli-project/internal/service"
	"github.com/SIXMAR729/product-cli-project/pkg/cache"
	"github.com/SIXMAR729/product-cli-project/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to apply schema", postgres.Init(ctx, db))

	storage := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.New(conf.Cache.Capacity, conf.Cache.TTL)
	orderCache.StartJanitor(ctx)

	application := app.New(logger, conf)

	var publisher service.OrderEvents
	if conf.Kafka.Enabled() {
		p := events.NewOrderPublisher(logger, conf.Kafka)
		application.SetClosers(p)
		publisher = p
		logger.Info("order event publisher enabled",
			slog.String("topic", conf.Kafka.Topic),
			slog.String("brokers", strings.Join(conf.Kafka.Brokers, ",")),
		)
	}

	productService := service.NewProductService(logger, txManager, storage)
	orderService := service.NewOrderService(logger, txManager, storage, storage, orderCache, publisher)

	handler.RegisterMetrics()
	application.SetHTTPHandlers(handler.NewHTTPHandler(logger, productService, orderService))

	application.Start()
	<-ctx.Done()
	application.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
